package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/colthorp/wikifreq/internal/analysis"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"github.com/colthorp/wikifreq/internal/palette"
	"github.com/spf13/cobra"
)

// mcpCmd starts the MCP server
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI integration",
	Args:  cobra.NoArgs,
	RunE:  handleMCP,
}

func handleMCP(cmd *cobra.Command, args []string) error {
	// Progress output would corrupt the stdio protocol
	a, err := newApp(appOptions{quiet: true})
	if err != nil {
		return err
	}
	srv := newMCPServer(a.manager, a.cfg.GetTopN(), os.Stdout, a.logger)
	return srv.serve(cmd.Context(), os.Stdin)
}

// MCP Protocol types
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type MCPToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type MCPServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type MCPInitializeResult struct {
	ProtocolVersion string        `json:"protocolVersion"`
	ServerInfo      MCPServerInfo `json:"serverInfo"`
	Capabilities    interface{}   `json:"capabilities"`
}

// AnalyzeCategoryParams are the parameters for the analyze_category tool
type AnalyzeCategoryParams struct {
	Category string `json:"category"`
	Limit    int    `json:"limit"`
	Refresh  bool   `json:"refresh"`
}

// mcpServer answers JSON-RPC requests, one per line, on a stream.
type mcpServer struct {
	manager *cache.Manager
	topN    int
	out     io.Writer
	logger  *slog.Logger
}

func newMCPServer(manager *cache.Manager, topN int, out io.Writer, logger *slog.Logger) *mcpServer {
	if topN <= 0 {
		topN = core.TopN
	}
	return &mcpServer{
		manager: manager,
		topN:    topN,
		out:     out,
		logger:  logging.OrNop(logger).With("component", "mcp"),
	}
}

// serve reads requests from in until EOF or ctx is cancelled.
func (s *mcpServer) serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large messages
	const maxCapacity = 10 * 1024 * 1024 // 10MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			// Without an ID a response would only confuse clients
			s.logger.Warn("parse error", "error", err)
			continue
		}

		s.handle(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (s *mcpServer) handle(ctx context.Context, req *MCPRequest) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		// Notifications don't get responses
		return
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		// Notifications (no ID) are silently ignored per JSON-RPC
		if req.ID != nil {
			s.sendError(req.ID, -32601, "Method not found", req.Method)
		}
	}
}

func (s *mcpServer) handleInitialize(req *MCPRequest) {
	result := MCPInitializeResult{
		ProtocolVersion: "2024-11-05",
		ServerInfo: MCPServerInfo{
			Name:    "wikifreq",
			Version: core.Version,
		},
		Capabilities: map[string]interface{}{
			"tools": map[string]interface{}{},
		},
	}
	s.sendResponse(req.ID, result)
}

func (s *mcpServer) handleToolsList(req *MCPRequest) {
	tools := []MCPToolInfo{
		{
			Name:        "analyze_category",
			Description: "Rank the most common words across all articles of a Wikipedia category.\n\nStop words and words of two characters or fewer are ignored. Results are cached for a week.\n\nArgs:\n    category: Category name without the \"Category:\" prefix\n    limit: Maximum number of words to return\n    refresh: Ignore cached results and fetch fresh data\n\nReturns:\n    The category, whether the result came from cache, and a list of {text, size} entries sorted by size",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Category name, e.g. \"Jazz musicians\"",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of words to return",
						"default":     s.topN,
					},
					"refresh": map[string]interface{}{
						"type":        "boolean",
						"description": "Ignore cached results and fetch fresh data",
						"default":     false,
					},
				},
				"required": []string{"category"},
			},
		},
		{
			Name:        "list_palettes",
			Description: "List the named color palettes available for rendering word clouds.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}

	s.sendResponse(req.ID, map[string]interface{}{"tools": tools})
}

func (s *mcpServer) handleToolsCall(ctx context.Context, req *MCPRequest) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params", err.Error())
		return
	}

	switch params.Name {
	case "analyze_category":
		s.handleAnalyzeCategory(ctx, req.ID, params.Arguments)
	case "list_palettes":
		s.sendToolResult(req.ID, map[string]interface{}{"palettes": palette.All()})
	default:
		s.sendError(req.ID, -32602, "Unknown tool", params.Name)
	}
}

func (s *mcpServer) handleAnalyzeCategory(ctx context.Context, id interface{}, argsJSON json.RawMessage) {
	var args AnalyzeCategoryParams
	if len(argsJSON) > 0 {
		if err := json.Unmarshal(argsJSON, &args); err != nil {
			s.sendToolError(id, fmt.Sprintf("Invalid arguments: %v", err))
			return
		}
	}
	if strings.TrimSpace(args.Category) == "" {
		s.sendToolError(id, core.ErrCategoryRequired.Error())
		return
	}

	n := args.Limit
	if n <= 0 {
		n = s.topN
	}

	res, err := s.manager.Fetch(ctx, args.Category, cache.FetchOptions{Refresh: args.Refresh})
	if err != nil {
		logging.Error(ctx, s.logger, err)
		s.sendToolResult(id, map[string]interface{}{
			"error":    fmt.Sprintf("Failed to analyze category: %v", err),
			"category": args.Category,
		})
		return
	}

	s.sendToolResult(id, map[string]interface{}{
		"category":    res.Category,
		"from_cache":  res.FromCache,
		"total_words": analysis.Total(res.Frequencies),
		"words":       analysis.TopN(res.Frequencies, n),
	})
}

func (s *mcpServer) sendResponse(id interface{}, result interface{}) {
	s.write(MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (s *mcpServer) sendError(id interface{}, code int, message, data string) {
	s.write(MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

func (s *mcpServer) sendToolResult(id interface{}, result interface{}) {
	s.sendResponse(id, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": mustMarshal(result),
			},
		},
	})
}

func (s *mcpServer) sendToolError(id interface{}, message string) {
	s.sendResponse(id, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": message,
			},
		},
		"isError": true,
	})
}

func (s *mcpServer) write(resp MCPResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		return
	}
	fmt.Fprintln(s.out, string(data))
}

func mustMarshal(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}
