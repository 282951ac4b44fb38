package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBackend serves canned responses keyed by "METHOD /path", with the
// /api prefix stripped, and records every request it sees.
type fakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]fakeRoute
	hits   []string
	bodies map[string]string
}

type fakeRoute struct {
	code int
	body string
}

func okRoute(body string) fakeRoute { return fakeRoute{code: http.StatusOK, body: body} }

func newFakeBackend(t *testing.T, routes map[string]fakeRoute) *fakeBackend {
	t.Helper()
	b := &fakeBackend{routes: routes, bodies: make(map[string]string)}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		data, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.hits = append(b.hits, key)
		b.bodies[key] = string(data)
		rt, found := b.routes[key]
		b.mu.Unlock()

		if !found {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.code)
		io.WriteString(w, rt.body)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) hitCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, h := range b.hits {
		if h == key {
			n++
		}
	}
	return n
}

func (b *fakeBackend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

// writeTestConfig writes a config pointing at serverURL with no phase delay
// and a vote store inside the test's temp dir.
func writeTestConfig(t *testing.T, serverURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".infradash.yaml")
	content := `version: 1
server:
  url: ` + serverURL + `/api
  request_timeout: 2s
probe:
  timeout: 2s
  step_delay: 0s
output:
  color: never
votes:
  state_file: ` + filepath.Join(dir, "votes.db") + `
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCLI executes the root command with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const connectedJSON = `{"status":"connected","message":"ok","progress":100}`

// infraJSON has every family present; the distribution is still deploying.
const infraJSON = `{
  "status": "connected",
  "ec2Instances": [
    {"instanceId": "i-1", "state": "running", "healthStatus": "healthy"},
    {"instanceId": "i-2", "state": "running", "healthStatus": "healthy"}
  ],
  "loadBalancer": {"state": "active", "targetGroups": [{"healthyTargetCount": 3, "unhealthyTargetCount": 1}]},
  "database": {"status": "available", "engine": "postgres", "engineVersion": "15.4"},
  "network": {"state": "available", "cidrBlock": "10.0.0.0/16", "subnets": [{"subnetId": "s-1"}, {"subnetId": "s-2"}]},
  "storage": {"bucketName": "assets"},
  "cdn": {"status": "InProgress", "domainName": "d1.cloudfront.net"}
}`

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
