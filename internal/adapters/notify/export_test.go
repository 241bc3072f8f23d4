package notify

import (
	"time"
)

func NewSMTPSinkWithSender(cfg SMTPConfig, send sendMailFunc, now func() time.Time) *SMTPSink {
	return &SMTPSink{cfg: cfg, sendMail: send, now: now}
}

func NewKafkaSinkWithWriter(w messageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic}
}
