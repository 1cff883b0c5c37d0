package notify

import (
	"net"
	"strconv"
	"strings"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
)

// Header is one request header. Endpoint keeps headers in a slice so the
// order is stable across calls.
type Header struct {
	Name  string
	Value string
}

// Endpoint is the resolved target of a dispatch.
type Endpoint struct {
	URL     string
	Headers []Header
}

// Header returns the value of the named header and whether it is present.
func (e Endpoint) Header(name string) (string, bool) {
	for _, h := range e.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// Resolve derives the URL and headers for req. It fails with a
// *config.ConfigurationError when the server or topic is unusable, and with
// ErrEmptyMessage for the empty sentinel.
//
// The topic is not URL-encoded; Validate restricts it to path-safe
// characters instead. A port other than 443 is added to the host, and IPv6
// literals are always bracketed.
func Resolve(cfg config.NtfyConfig, req Request) (Endpoint, error) {
	if err := cfg.Validate(); err != nil {
		return Endpoint{}, err
	}
	if req.Empty() {
		return Endpoint{}, ErrEmptyMessage
	}

	host := cfg.Server
	switch {
	case cfg.Port != 0 && cfg.Port != config.DefaultPort:
		host = net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	case strings.Contains(cfg.Server, ":"):
		host = "[" + cfg.Server + "]"
	}

	headers := []Header{
		{Name: "Content-Type", Value: "application/x-www-form-urlencoded"},
		{Name: "Title", Value: req.Title},
	}
	if cfg.Link != "" {
		headers = append(headers, Header{Name: "Click", Value: cfg.Link})
	}
	if cfg.Token != "" {
		headers = append(headers, Header{Name: "Authorization", Value: "Bearer " + cfg.Token})
	}

	return Endpoint{
		URL:     "https://" + host + "/" + cfg.Topic,
		Headers: headers,
	}, nil
}
