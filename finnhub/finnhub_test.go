package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		switch r.URL.Query().Get("symbol") {
		case "COMI.CA":
			w.Write([]byte(`{"c":81.5,"d":1.5,"dp":1.875,"h":82,"l":79.9,"o":80,"pc":80,"t":1700000000}`))
		case "GONE.CA":
			w.Write([]byte(`{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
		default:
			http.Error(w, "forbidden", http.StatusForbidden)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQuote(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := New("secret", WithBaseURL(srv.URL), WithRate(rate.Inf, 1))

	q, err := c.Quote(context.Background(), "comi")
	require.NoError(t, err)
	assert.Equal(t, "COMI.CA", q.Symbol)
	assert.True(t, wallet.A(81.5).Equal(q.CurrentPrice))
	assert.True(t, wallet.A(80).Equal(q.PreviousClose))
	assert.InDelta(t, 1.875, q.PercentChange, 1e-9)

	// served from cache
	_, err = c.Quote(context.Background(), "COMI.CA")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQuoteErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := New("secret", WithBaseURL(srv.URL), WithRate(rate.Inf, 1), WithTTL(time.Second))

	_, err := c.Quote(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.Quote(context.Background(), "other")
	assert.ErrorContains(t, err, "403")

	_, err = New("").Quote(context.Background(), "comi")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "COMI.CA", New("k").Symbol(" comi "))
	assert.Equal(t, "COMI.CA", New("k").Symbol("comi.ca"))
	assert.Equal(t, "AAPL", New("k", WithSuffix("")).Symbol("aapl"))
}

func TestQuoteRespectsContext(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	c := New("secret", WithBaseURL(srv.URL), WithRate(rate.Every(time.Hour), 1))
	_, err := c.Quote(context.Background(), "comi")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Quote(ctx, "gone")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
