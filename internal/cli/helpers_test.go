package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colthorp/wikifreq/internal/api"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/config"
	"github.com/colthorp/wikifreq/internal/core"
	"github.com/stretchr/testify/require"
)

// newTestApp wires an app over an in-memory wiki and cache.
func newTestApp(t *testing.T, transport api.Transport, backend cache.Backend) *app {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	a, err := assemble(cfg, transport, backend, nil, true)
	require.NoError(t, err)
	return a
}

// seededTransport returns the "Test" category: one page with text and one
// empty page.
func seededTransport() *api.InMemoryTransport {
	transport := api.NewInMemoryTransport()
	transport.SeedArticles("Test", map[string]string{"A": "The Cat Sat", "B": ""}, "A", "B")
	return transport
}

// newWikiServer serves the MediaWiki Action API from an in-memory transport.
func newWikiServer(t *testing.T, transport *api.InMemoryTransport) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string)
		for k, v := range r.URL.Query() {
			params[k] = v[0]
		}
		data, err := transport.Request(r.Context(), params)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// captureProgress redirects progress messages for the duration of a test.
func captureProgress(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := core.ProgressOut
	core.ProgressOut = &buf
	t.Cleanup(func() { core.ProgressOut = prev })
	return &buf
}

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet, raw = false, false, false
	configPath, cacheDir, paletteName = "", "", ""
	limit = 0
	for name, value := range map[string]string{"refresh": "false", "cache-only": "false", "parallel": "0"} {
		require.NoError(t, analyzeCmd.Flags().Set(name, value))
	}
	require.NoError(t, configInitCmd.Flags().Set("force", "false"))
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}
