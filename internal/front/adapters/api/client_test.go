package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/config"
	"tcofront/internal/front/resilience"
	"tcofront/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...api.Option) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := api.NewClient(config.APIConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, UserAgent: "tco-test"}, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := api.NewClient(config.APIConfig{})
	assert.ErrorIs(t, err, api.ErrEmptyBaseURL)
}

func TestClient_SendsHeadersAndBody(t *testing.T) {
	var got *http.Request
	var body []byte
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1"}`))
	}))

	ctx := logger.NewRequestIDContext(context.Background(), "req-42")
	var out struct {
		ID string `json:"id"`
	}
	err := c.JSON(ctx, &api.Request{
		Method:      http.MethodPost,
		Path:        "/api/tco/catalogue",
		Body:        json.RawMessage(`{"data":{}}`),
		ContentType: api.ContentTypeJSONAPI,
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "/api/tco/catalogue", got.URL.Path)
	assert.Equal(t, api.ContentTypeJSONAPI, got.Header.Get(api.HeaderContentType))
	assert.Equal(t, "tco-test", got.Header.Get(api.HeaderUserAgent))
	assert.Equal(t, "req-42", got.Header.Get(api.HeaderRequestID))
	assert.JSONEq(t, `{"data":{}}`, string(body))
}

func TestClient_ErrorExtractsMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Catalogue invalide"}`))
	}))

	_, err := c.Do(context.Background(), &api.Request{Method: http.MethodGet, Path: "/api/tco/catalogue"})

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Catalogue invalide", apiErr.Message)
	assert.Equal(t, "Catalogue invalide", api.MessageOf(err, "fallback"))
	assert.Equal(t, "fallback", api.MessageOf(errors.New("x"), "fallback"))
	assert.Equal(t, http.StatusUnprocessableEntity, api.StatusCode(err))
}

func TestClient_BreakerCountsOnlyServerFailures(t *testing.T) {
	status := http.StatusForbidden
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}), api.WithCircuitBreaker(resilience.NewCircuitBreaker("test", api.BreakerConfig(resilience.CircuitBreakerConfig{
		ErrorThreshold: 2,
		Timeout:        time.Minute,
	}, nil))))

	req := func() error {
		_, err := c.Do(context.Background(), &api.Request{Method: http.MethodGet, Path: "/x"})
		return err
	}

	for range 3 {
		assert.True(t, api.IsForbidden(req()))
	}

	status = http.StatusBadGateway
	assert.Equal(t, http.StatusBadGateway, api.StatusCode(req()))
	assert.Equal(t, http.StatusBadGateway, api.StatusCode(req()))
	assert.ErrorIs(t, req(), resilience.ErrCircuitOpen)
}

func TestResponse_DecodeEmptyBody(t *testing.T) {
	var out map[string]any
	require.NoError(t, (&api.Response{}).Decode(&out))
	assert.Nil(t, out)
	assert.Error(t, (&api.Response{Body: []byte("{")}).Decode(&out))
}
