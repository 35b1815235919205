package database

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"vehicle-finance-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS calculation_records")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_calculation_records_session")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS audit_log")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestElasticsearchPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Address: "localhost:6379", PoolSize: 4, MinIdleConns: 8})
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 0, opts.MinIdleConns)

	opts = redisOptions(config.RedisConfig{Address: "localhost:6379"})
	assert.Equal(t, 10, opts.PoolSize)
}

// fakeCatalogue answers index-exists and index-create calls.
type fakeCatalogue struct {
	mu        sync.Mutex
	exists    bool
	createRes int
	created   string
	calls     []string
}

func (f *fakeCatalogue) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")

	switch r.Method {
	case http.MethodHead:
		if f.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.created = string(body)
		w.WriteHeader(f.createRes)
		if f.createRes == http.StatusBadRequest {
			_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"},"status":400}`))
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	}
}

func TestEnsureVehicleIndex(t *testing.T) {
	tests := []struct {
		name        string
		catalogue   *fakeCatalogue
		wantCreated bool
		wantCalls   []string
	}{
		{
			name:      "existing index is left alone",
			catalogue: &fakeCatalogue{exists: true},
			wantCalls: []string{"HEAD /vehicles"},
		},
		{
			name:        "missing index is created",
			catalogue:   &fakeCatalogue{createRes: http.StatusOK},
			wantCreated: true,
			wantCalls:   []string{"HEAD /vehicles", "PUT /vehicles"},
		},
		{
			name:      "concurrent create is tolerated",
			catalogue: &fakeCatalogue{createRes: http.StatusBadRequest},
			wantCalls: []string{"HEAD /vehicles", "PUT /vehicles"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.catalogue)
			defer srv.Close()

			client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
			require.NoError(t, err)

			created, err := EnsureVehicleIndex(context.Background(), client.Client, "vehicles")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, tt.wantCalls, tt.catalogue.calls)
			if tt.wantCreated {
				assert.Contains(t, tt.catalogue.created, `"priceRange"`)
			}
		})
	}
}

func TestEnsureVehicleIndexUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = EnsureVehicleIndex(context.Background(), client.Client, "vehicles")
	assert.Error(t, err)
}
