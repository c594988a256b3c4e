package functions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_SendsPayloadAndDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/functions/v1/send-email", r.URL.Path)
		assert.Equal(t, "Bearer svc-key", r.Header.Get("Authorization"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a@b.co", in["to"])

		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", time.Second, zerolog.Nop())
	var out struct {
		ID string `json:"id"`
	}
	err := c.Invoke(context.Background(), "send-email", map[string]string{"to": "a@b.co"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", out.ID)
}

func TestInvoke_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, zerolog.Nop())
	err := c.Invoke(context.Background(), "send-email", map[string]string{}, nil)

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, http.StatusBadRequest, callErr.StatusCode)
}

func TestInvoke_BreakerOpensAfterRepeatedServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, zerolog.Nop())
	for i := 0; i < 5; i++ {
		_ = c.Invoke(context.Background(), "create-impersonation", nil, nil)
	}

	err := c.Invoke(context.Background(), "create-impersonation", nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestInvoke_NotConfigured(t *testing.T) {
	c := NewClient("", "", time.Second, zerolog.Nop())
	assert.ErrorIs(t, c.Invoke(context.Background(), "x", nil, nil), ErrNotConfigured)
}
