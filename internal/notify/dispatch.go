package notify

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTimeout bounds connect and read of one dispatch.
const DefaultTimeout = 5 * time.Second

// DialFunc opens the underlying connection of a dispatch.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Dispatcher posts a resolved endpoint once. Every call uses its own
// transport with keep-alives disabled, so no connection outlives the call.
type Dispatcher struct {
	// Timeout covers connect, TLS handshake, request and response body.
	Timeout time.Duration
	// TLSConfig overrides the system trust store (tests only).
	TLSConfig *tls.Config
	// Dial overrides the default dialer.
	Dial DialFunc
	// Proxy overrides http.ProxyFromEnvironment.
	Proxy func(*http.Request) (*url.URL, error)
	// Logger receives resty's internal warnings. Optional.
	Logger *zap.Logger
}

// NewDispatcher returns a Dispatcher with DefaultTimeout and the system
// trust store.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Timeout: DefaultTimeout}
}

// Dispatch POSTs body verbatim to ep. It never returns an error: transport
// failures become Failed, and every completed HTTP exchange (including
// 4xx/5xx) becomes Delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, ep Endpoint, body string) Outcome {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dial := d.Dial
	if dial == nil {
		dial = (&net.Dialer{Timeout: timeout}).DialContext
	}

	proxy := d.Proxy
	if proxy == nil {
		proxy = http.ProxyFromEnvironment
	}

	transport := &http.Transport{
		Proxy:               proxy,
		DialContext:         dial,
		TLSClientConfig:     d.TLSConfig,
		TLSHandshakeTimeout: timeout,
		DisableKeepAlives:   true,
	}
	defer transport.CloseIdleConnections()

	client := resty.NewWithClient(&http.Client{Transport: transport, Timeout: timeout}).
		SetRetryCount(0)
	if d.Logger != nil {
		client.SetLogger(d.Logger.Sugar())
	}

	req := client.R().
		SetContext(ctx).
		SetBody(body)
	for _, h := range ep.Headers {
		req.SetHeader(h.Name, h.Value)
	}

	resp, err := req.Post(ep.URL)
	if err != nil {
		return failedFromError(err)
	}

	return Delivered{
		StatusCode: resp.StatusCode(),
		Reason:     reasonPhrase(resp.Status(), resp.StatusCode()),
		Body:       string(resp.Body()),
	}
}

// reasonPhrase strips the numeric code from an HTTP status line.
func reasonPhrase(status string, code int) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		return http.StatusText(code)
	}
	return reason
}
