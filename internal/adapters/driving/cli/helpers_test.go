package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assistant/internal/app"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
)

type stubLLM struct {
	reply string
}

func (s *stubLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return s.reply, nil
}
func (s *stubLLM) ModelName() string            { return "stub" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

func campusSite(t *testing.T) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"/":           "<html><head><title>Home</title></head><body><p>Welcome to the rural university.</p></body></html>",
		"/admissions": "<html><body><h1>Admissions</h1><p>Admissions open in June every year.</p></body></html>",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testEnv is a config directory pointing at a fake campus site, with the
// generator stubbed out.
type testEnv struct {
	dir  string
	site *httptest.Server
	apps []*app.App
}

func newTestEnv(t *testing.T, reply string) *testEnv {
	t.Helper()
	env := &testEnv{dir: t.TempDir(), site: campusSite(t)}

	cfg := fmt.Sprintf(`[corpus]
urls = ["%[1]s/", "%[1]s/admissions"]
rate_per_second = 100.0

[embedding]
provider = "local"

[index]
cache_dir = "cache"
`, env.site.URL)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "config.toml"), []byte(cfg), 0600))

	origNewApp := newApp
	newApp = func(ctx context.Context, opts app.Options) (*app.App, error) {
		opts.LLM = &stubLLM{reply: reply}
		a, err := app.New(ctx, opts)
		if err == nil {
			env.apps = append(env.apps, a)
		}
		return a, err
	}

	t.Cleanup(func() {
		newApp = origNewApp
		configDir = ""
		askJSON = false
		rebuildURLs = nil
		serveAddr = ""
	})
	return env
}

// execute runs the root command with the env's config directory.
func (e *testEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config-dir", e.dir}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
