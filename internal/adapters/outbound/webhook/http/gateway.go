package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	apperrors "freightflow/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxDrainBodyBytes  = 1024
	SignatureHeader    = "x-webhook-signature"
)

type Config struct {
	Timeout time.Duration
}

type Gateway struct {
	client *nethttp.Client
	now    func() time.Time
}

var _ portsout.WebhookEventGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		client: &nethttp.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// SendWebhookEvent POSTs the payload once. Failures are returned as *apperrors.Fault.
func (g *Gateway) SendWebhookEvent(
	ctx context.Context,
	input dto.SendWebhookEventInput,
) (dto.SendWebhookEventOutput, error) {
	destinationURL := strings.TrimSpace(input.URL)
	if destinationURL == "" {
		return dto.SendWebhookEventOutput{}, apperrors.NewHTTPStatusFault("webhook destination url is required", nethttp.StatusBadRequest, 0)
	}

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, destinationURL, bytes.NewReader(input.Payload))
	if err != nil {
		return dto.SendWebhookEventOutput{}, apperrors.NewHTTPStatusFault(
			fmt.Sprintf("failed to build webhook request: %v", err),
			nethttp.StatusBadRequest,
			0,
		)
	}
	request.Header.Set("Content-Type", "application/json")
	if input.Secret != "" {
		request.Header.Set(SignatureHeader, Sign(input.Secret, input.Payload))
	}

	response, err := g.client.Do(request)
	if err != nil {
		return dto.SendWebhookEventOutput{}, networkFault(err)
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxDrainBodyBytes))

	output := dto.SendWebhookEventOutput{StatusCode: response.StatusCode}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return output, apperrors.NewHTTPStatusFault(
			fmt.Sprintf("HTTP Error %d", response.StatusCode),
			response.StatusCode,
			parseRetryAfter(response.Header.Get("Retry-After"), g.now()),
		)
	}

	return output, nil
}

// Sign returns the hex HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// parseRetryAfter accepts delay-seconds or an HTTP date and returns whole seconds, 0 when absent.
func parseRetryAfter(raw string, now time.Time) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return max(0, seconds)
	}
	if at, err := nethttp.ParseTime(raw); err == nil {
		return max(0, int(at.Sub(now).Round(time.Second)/time.Second))
	}
	return 0
}

func networkFault(err error) *apperrors.Fault {
	code := ""
	var netErr net.Error
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		code = apperrors.CodeTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		code = apperrors.CodeConnRefused
	case errors.Is(err, syscall.ECONNRESET):
		code = apperrors.CodeConnReset
	case errors.Is(err, syscall.ECONNABORTED), errors.Is(err, io.ErrUnexpectedEOF):
		code = apperrors.CodeConnAborted
	case errors.As(err, &dnsErr):
		code = apperrors.CodeDNSAgain
	}

	return apperrors.NewNetworkFault(code, err.Error(), err)
}
