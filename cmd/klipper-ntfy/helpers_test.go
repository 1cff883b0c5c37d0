package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/LISSConsulting/LISSTech.KlipperNtfy/internal/notify"
)

// testRelay is a local HTTPS ntfy relay that records request bodies.
type testRelay struct {
	srv *httptest.Server

	mu     sync.Mutex
	bodies []string
}

func newTestRelay(t *testing.T, status int) *testRelay {
	t.Helper()
	r := &testRelay{}
	r.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(b))
		r.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func (r *testRelay) Bodies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bodies...)
}

func (r *testRelay) port(t *testing.T) int {
	t.Helper()
	_, p, err := net.SplitHostPort(r.srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split relay addr: %v", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		t.Fatalf("parse relay port: %v", err)
	}
	return port
}

func (r *testRelay) options() appOptions {
	return appOptions{
		logger: zap.NewNop(),
		dispatcher: &notify.Dispatcher{
			Timeout:   notify.DefaultTimeout,
			TLSConfig: r.srv.Client().Transport.(*http.Transport).TLSClientConfig.Clone(),
			Proxy:     func(*http.Request) (*url.URL, error) { return nil, nil },
		},
	}
}

// writeConfig writes an ntfy.toml pointing at port on 127.0.0.1 and returns
// its path. extra is appended verbatim.
func writeConfig(t *testing.T, dir string, port int, verbose bool, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`[ntfy_module]
server = "127.0.0.1"
port = %d
topic = "printer"
token = "tk_abcdefghijkl"
verbose = %t
%s`, port, verbose, extra)
	path := filepath.Join(dir, "ntfy.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// openTestApp wires an app against relay using a config written to a temp dir.
func openTestApp(t *testing.T, relay *testRelay, verbose bool, extra string) *app {
	t.Helper()
	path := writeConfig(t, t.TempDir(), relay.port(t), verbose, extra)
	a, err := openApp(path, relay.options())
	if err != nil {
		t.Fatalf("openApp: %v", err)
	}
	return a
}


func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
