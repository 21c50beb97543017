package cli

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/colthorp/wikifreq/internal/analysis"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"github.com/colthorp/wikifreq/internal/palette"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// serveCmd starts the HTTP JSON server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve word frequencies over HTTP for word-cloud front ends",
	Args:  cobra.NoArgs,
	RunE:  handleServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:5000", "Listen address")
}

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	Category string `json:"category"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// server exposes the cached analysis over HTTP.
type server struct {
	manager *cache.Manager
	topN    int
	logger  *slog.Logger
}

func newServer(manager *cache.Manager, topN int, logger *slog.Logger) *server {
	if topN <= 0 {
		topN = core.TopN
	}
	return &server{
		manager: manager,
		topN:    topN,
		logger:  logging.OrNop(logger).With("component", "server"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /palettes", s.handlePalettes)
	return mux
}

// handleAnalyze answers with the top words of a category as
// [{"text": word, "size": count}, ...].
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: core.ErrCategoryRequired.Error()})
		return
	}

	freqs, err := s.manager.AnalyzeOrLoad(r.Context(), req.Category)
	if err != nil {
		logging.Error(r.Context(), s.logger, err)
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrCategoryRequired) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analysis.TopN(freqs, s.topN))
}

func (s *server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, palette.All())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	a, err := newApp(appOptions{quiet: true})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(a.manager, a.cfg.GetTopN(), a.logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	core.ProgressPrint("Listening on http://"+addr, quiet)

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
