package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sohamgherwada/PayQI/internal/repositories/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(feedURL string) Config {
	cfg := DefaultConfig()
	cfg.FeedBaseURL = feedURL
	cfg.Timeout = time.Second
	return cfg
}

func TestConvert_UsesFeedRateAndCachesIt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "ripple", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ripple":{"usd":2.0}}`))
	}))
	defer srv.Close()

	mem := cache.NewMemoryCache()
	converter := NewService(mem, testConfig(srv.URL), zap.NewNop())

	got := converter.Convert(context.Background(), decimal.NewFromInt(10))
	assert.True(t, decimal.NewFromInt(5).Equal(got), "10 USD at 2.0 USD/XRP should be 5 XRP, got %s", got)

	// Second conversion is served from the cache.
	got = converter.Convert(context.Background(), decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(2).Equal(got))
	assert.Equal(t, 1, calls)

	cached, err := mem.Get(context.Background(), rateCacheKey)
	require.NoError(t, err)
	assert.Equal(t, "2", cached)
}

func TestConvert_FallsBackOnFeedFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "zero rate",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"ripple":{"usd":0}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			converter := NewService(cache.NewMemoryCache(), testConfig(srv.URL), zap.NewNop())

			// Fallback rate is 0.5 USD/XRP, so 10 USD becomes 20 XRP.
			got := converter.Convert(context.Background(), decimal.NewFromInt(10))
			assert.True(t, decimal.NewFromInt(20).Equal(got), "got %s", got)
		})
	}
}

func TestConvert_FallsBackOnUnreachableFeed(t *testing.T) {
	converter := NewService(cache.NewMemoryCache(), testConfig("http://127.0.0.1:1"), zap.NewNop())

	got := converter.Convert(context.Background(), decimal.NewFromInt(1))
	assert.True(t, decimal.NewFromInt(2).Equal(got), "got %s", got)
}

func TestConvert_PrefersCachedRate(t *testing.T) {
	mem := cache.NewMemoryCache()
	require.NoError(t, mem.Set(context.Background(), rateCacheKey, "4", time.Minute))

	// Feed would fail; the cached rate must win before any call happens.
	converter := NewService(mem, testConfig("http://127.0.0.1:1"), zap.NewNop())

	got := converter.Convert(context.Background(), decimal.NewFromInt(8))
	assert.True(t, decimal.NewFromInt(2).Equal(got), "got %s", got)
}
