package notify_test

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/config"
	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
)

// captured is one request seen by the fake relay.
type captured struct {
	Method string
	Host   string
	Path   string
	Header http.Header
	Body   []byte
}

// relay is an HTTPS test server that records every request it receives.
type relay struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []captured
}

// newRelay starts a TLS relay answering with status and body.
func newRelay(t *testing.T, status int, body string) *relay {
	t.Helper()
	r := &relay{}
	r.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.requests = append(r.requests, captured{
			Method: req.Method,
			Host:   req.Host,
			Path:   req.URL.Path,
			Header: req.Header.Clone(),
			Body:   b,
		})
		r.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func (r *relay) Requests() []captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]captured, len(r.requests))
	copy(out, r.requests)
	return out
}

// addr returns the relay's listen address.
func (r *relay) addr() string {
	return r.srv.Listener.Addr().String()
}

// port returns the relay's listen port.
func (r *relay) port(t *testing.T) int {
	t.Helper()
	_, p, err := net.SplitHostPort(r.addr())
	if err != nil {
		t.Fatal(err)
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// config returns a configuration pointing at the relay by IP and port.
func (r *relay) config(t *testing.T) config.NtfyConfig {
	t.Helper()
	cfg := config.Defaults().Ntfy
	cfg.Server = "127.0.0.1"
	cfg.Port = r.port(t)
	cfg.Topic = "printer"
	return cfg
}

// tlsConfig returns a client TLS config trusting the relay certificate.
func (r *relay) tlsConfig() *tls.Config {
	return r.srv.Client().Transport.(*http.Transport).TLSClientConfig.Clone()
}

// dispatcher returns a Dispatcher that trusts the relay.
func (r *relay) dispatcher() *notify.Dispatcher {
	d := notify.NewDispatcher()
	d.TLSConfig = r.tlsConfig()
	d.Proxy = noProxy
	return d
}

// redirectingDispatcher dials the relay for every address and verifies its
// certificate as example.com, so endpoints like https://ntfy.sh/... reach it.
func (r *relay) redirectingDispatcher() *notify.Dispatcher {
	d := r.dispatcher()
	d.TLSConfig.ServerName = "example.com"
	target := r.addr()
	d.Dial = func(ctx context.Context, network, _ string) (net.Conn, error) {
		var dialer net.Dialer
		return dialer.DialContext(ctx, network, target)
	}
	return d
}

func noProxy(*http.Request) (*url.URL, error) { return nil, nil }

// closedAddr returns an address nothing is listening on.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

// countingDialer tracks how many dialed connections are still open.
type countingDialer struct {
	target string
	dials  atomic.Int64
	open   atomic.Int64
}

func (c *countingDialer) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	if c.target != "" {
		addr = c.target
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	c.dials.Add(1)
	c.open.Add(1)
	return &countedConn{Conn: conn, owner: c}, nil
}

// waitClosed polls until every dialed connection is closed or timeout passes.
func (c *countingDialer) waitClosed(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.open.Load() == 0 {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c.open.Load() == 0
}

type countedConn struct {
	net.Conn
	owner *countingDialer
	once  sync.Once
}

func (c *countedConn) Close() error {
	c.once.Do(func() { c.owner.open.Add(-1) })
	return c.Conn.Close()
}

// recordingSink collects console lines.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) RespondInfo(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, msg)
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}
