package valueobjects

import (
	"net"
	"net/url"
	"strings"

	apperrors "freightflow/internal/shared_kernel/errors"
)

func NormalizeWebhookURL(raw string) (string, *apperrors.AppError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalidWebhookURL("url is required")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || strings.TrimSpace(parsed.Host) == "" {
		return "", invalidWebhookURL("url must be a valid absolute URL")
	}
	if parsed.User != nil {
		return "", invalidWebhookURL("url must not contain user info")
	}

	scheme := strings.ToLower(strings.TrimSpace(parsed.Scheme))
	if scheme != "http" && scheme != "https" {
		return "", invalidWebhookURL("url must use http or https")
	}

	host := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(parsed.Hostname())), ".")
	if host == "" {
		return "", invalidWebhookURL("url host is required")
	}

	if port := strings.TrimSpace(parsed.Port()); port != "" {
		host = net.JoinHostPort(host, port)
	}

	parsed.Scheme = scheme
	parsed.Host = host
	parsed.Fragment = ""

	return parsed.String(), nil
}

func invalidWebhookURL(message string) *apperrors.AppError {
	return apperrors.NewValidation("invalid_request", message, map[string]any{"field": "url"})
}
