package app_test

import (
	"testing"

	"github.com/SscSPs/currency_watch_app/internal/adapters/notify"
	"github.com/SscSPs/currency_watch_app/internal/app"
	"github.com/SscSPs/currency_watch_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSink(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want any
	}{
		{name: "log", cfg: config.Config{NotifySink: config.SinkLog}, want: &notify.LogSink{}},
		{name: "smtp", cfg: config.Config{NotifySink: config.SinkSMTP, SMTPHost: "localhost", SMTPPort: 25, SMTPFrom: "rates@example.com"}, want: &notify.SMTPSink{}},
		{name: "kafka", cfg: config.Config{NotifySink: config.SinkKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaNotificationTopic: "t"}, want: &notify.KafkaSink{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, closeSink, err := app.NewSink(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, closeSink)
			assert.IsType(t, tt.want, sink)
			assert.NoError(t, closeSink())
		})
	}

	_, closeSink, err := app.NewSink(&config.Config{NotifySink: "pigeon"})
	assert.Error(t, err)
	assert.NotNil(t, closeSink)
}
