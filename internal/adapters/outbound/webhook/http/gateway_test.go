//go:build !integration

package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func TestSendWebhookEventSignsPayload(t *testing.T) {
	payload := []byte(`{"eventId":"evt_1","status":"DELIVERED"}`)

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, Sign("webhook-secret", body), r.Header.Get(SignatureHeader))
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer server.Close()

	output, err := NewGateway(Config{}).SendWebhookEvent(context.Background(), dto.SendWebhookEventInput{
		URL:     server.URL,
		Secret:  "webhook-secret",
		Payload: payload,
	})
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNoContent, output.StatusCode)
}

func TestSendWebhookEventOmitsSignatureWithoutSecret(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Empty(t, r.Header.Get(SignatureHeader))
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	_, err := NewGateway(Config{}).SendWebhookEvent(context.Background(), dto.SendWebhookEventInput{
		URL:     server.URL,
		Payload: []byte(`{}`),
	})
	require.NoError(t, err)
}

func TestSendWebhookEventReturnsStatusFault(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(nethttp.StatusTooManyRequests)
	}))
	defer server.Close()

	output, err := NewGateway(Config{}).SendWebhookEvent(context.Background(), dto.SendWebhookEventInput{
		URL:     server.URL,
		Payload: []byte(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, nethttp.StatusTooManyRequests, output.StatusCode)

	fault, ok := apperrors.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, nethttp.StatusTooManyRequests, fault.StatusCode)
	assert.Equal(t, 7, fault.RetryAfter)
	assert.Equal(t, "HTTP Error 429", fault.Message)
}

func TestSendWebhookEventTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewGateway(Config{Timeout: 50 * time.Millisecond}).SendWebhookEvent(context.Background(), dto.SendWebhookEventInput{
		URL:     server.URL,
		Payload: []byte(`{}`),
	})
	require.Error(t, err)

	fault, ok := apperrors.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.FaultNetwork, fault.Kind)
	assert.Equal(t, apperrors.CodeTimeout, fault.Code)
}

func TestSendWebhookEventConnectionRefused(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewGateway(Config{}).SendWebhookEvent(context.Background(), dto.SendWebhookEventInput{
		URL:     url,
		Payload: []byte(`{}`),
	})
	fault, ok := apperrors.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConnRefused, fault.Code)
	assert.True(t, fault.Transient)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 2, 26, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		raw      string
		expected int
	}{
		{name: "empty", raw: "", expected: 0},
		{name: "seconds", raw: "3", expected: 3},
		{name: "negative", raw: "-4", expected: 0},
		{name: "http date", raw: now.Add(10 * time.Second).Format(nethttp.TimeFormat), expected: 10},
		{name: "garbage", raw: "soon", expected: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, parseRetryAfter(tc.raw, now))
		})
	}
}
