package cbr_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/currency_watch_app/internal/adapters/cbr"
	"github.com/SscSPs/currency_watch_app/internal/apperrors"
	"github.com/SscSPs/currency_watch_app/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyPayload = `{
    "Date": "2024-04-02T11:30:00+03:00",
    "PreviousDate": "2024-03-30T11:30:00+03:00",
    "Timestamp": "2024-04-01T20:00:00+03:00",
    "Valute": {
        "USD": {"ID": "R01235", "NumCode": "840", "CharCode": "USD", "Nominal": 1, "Name": "Доллар США", "Value": 92.5919, "Previous": 92.3660},
        "JPY": {"ID": "R01820", "NumCode": "392", "CharCode": "JPY", "Nominal": 100, "Name": "Японских иен", "Value": 61.1254, "Previous": 61.0341}
    }
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_URLs(t *testing.T) {
	c := cbr.NewClient("https://feed.example/")
	assert.Equal(t, "https://feed.example/daily_json.js", c.LatestURL())
	assert.Equal(t, "https://feed.example/archive/2024/03/05/daily_json.js",
		c.URLForDay(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, cbr.DefaultHost+"/daily_json.js", cbr.NewClient("").LatestURL())
}

func TestClient_FetchLatest(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/daily_json.js", r.URL.Path)
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, dailyPayload)
	})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	snap, err := cbr.NewClient(srv.URL, cbr.WithMetrics(m)).FetchLatest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), snap.Date)
	require.Len(t, snap.Quotes, 2)
	usd := snap.Quotes["USD"]
	assert.Equal(t, "Доллар США", usd.Name)
	assert.Equal(t, "92.5919", usd.Value.String())
	assert.Equal(t, "61.1254", snap.Quotes["JPY"].Value.String(), "values are stored per published nominal")
	assert.Equal(t, srv.URL+"/daily_json.js", snap.URL)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FeedRequestDuration))
}

func TestClient_FetchDay(t *testing.T) {
	var gotPath string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, dailyPayload)
	})

	_, err := cbr.NewClient(srv.URL).FetchDay(context.Background(), time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, "/archive/2024/04/02/daily_json.js", gotPath)
}

func TestClient_Errors(t *testing.T) {
	day := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
		message string
	}{
		{
			name: "feed reported error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"error": "Курс ЦБ РФ на данную дату не установлен или не опубликован", "code": 404}`)
			},
			want:    apperrors.ErrParse,
			message: "не опубликован",
		},
		{
			name: "server error without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want:    apperrors.ErrParse,
			message: "status 502",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"Date": `)
			},
			want:    apperrors.ErrParse,
			message: "decode",
		},
		{
			name: "missing date",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"Valute": {}}`)
			},
			want:    apperrors.ErrParse,
			message: "no Date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			_, err := cbr.NewClient(srv.URL).FetchDay(context.Background(), day)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := cbr.NewClient(url, cbr.WithTimeout(time.Second)).FetchLatest(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrFetch)
}
