package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMCP feeds lines to a server and returns the decoded responses.
func runMCP(t *testing.T, srv *mcpServer, out *bytes.Buffer, lines ...string) []MCPResponse {
	t.Helper()
	require.NoError(t, srv.serve(context.Background(), strings.NewReader(strings.Join(lines, "\n"))))

	var responses []MCPResponse
	dec := json.NewDecoder(out)
	for dec.More() {
		var resp MCPResponse
		require.NoError(t, dec.Decode(&resp))
		responses = append(responses, resp)
	}
	return responses
}

// toolText returns the text payload of a tools/call result.
func toolText(t *testing.T, resp MCPResponse) (string, bool) {
	t.Helper()
	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "expected result object, got %#v", resp.Result)
	content := result["content"].([]interface{})
	require.Len(t, content, 1)
	isError, _ := result["isError"].(bool)
	return content[0].(map[string]interface{})["text"].(string), isError
}

func newTestMCP(t *testing.T) (*mcpServer, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := newTestApp(t, seededTransport(), cache.NewMemoryBackend())
	return newMCPServer(a.manager, 100, &out, nil), &out
}

func TestMCPInitializeAndList(t *testing.T) {
	srv, out := newTestMCP(t)

	responses := runMCP(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	require.Len(t, responses, 2, "notifications get no response")

	initResult := responses[0].Result.(map[string]interface{})
	assert.Equal(t, "2024-11-05", initResult["protocolVersion"])
	assert.Equal(t, "wikifreq", initResult["serverInfo"].(map[string]interface{})["name"])

	tools := responses[1].Result.(map[string]interface{})["tools"].([]interface{})
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"analyze_category", "list_palettes"}, names)
}

func TestMCPAnalyzeCategory(t *testing.T) {
	srv, out := newTestMCP(t)

	responses := runMCP(t, srv, out,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"analyze_category","arguments":{"category":"Test"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"analyze_category","arguments":{"category":"Test","limit":1}}}`,
	)
	require.Len(t, responses, 2)

	text, isError := toolText(t, responses[0])
	require.False(t, isError)
	var first struct {
		Category   string `json:"category"`
		FromCache  bool   `json:"from_cache"`
		TotalWords int    `json:"total_words"`
		Words      []struct {
			Text string `json:"text"`
			Size int    `json:"size"`
		} `json:"words"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &first))
	assert.Equal(t, "Test", first.Category)
	assert.False(t, first.FromCache)
	assert.Equal(t, 2, first.TotalWords)
	assert.Len(t, first.Words, 2)

	text, _ = toolText(t, responses[1])
	var second struct {
		FromCache bool              `json:"from_cache"`
		Words     []json.RawMessage `json:"words"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &second))
	assert.True(t, second.FromCache)
	assert.Len(t, second.Words, 1)
}

func TestMCPAnalyzeCategoryRequiresCategory(t *testing.T) {
	srv, out := newTestMCP(t)

	responses := runMCP(t, srv, out,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"analyze_category","arguments":{}}}`,
	)
	require.Len(t, responses, 1)
	text, isError := toolText(t, responses[0])
	assert.True(t, isError)
	assert.Equal(t, "Category is required", text)
}

func TestMCPListPalettes(t *testing.T) {
	srv, out := newTestMCP(t)

	responses := runMCP(t, srv, out,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"list_palettes"}}`,
	)
	require.Len(t, responses, 1)
	text, _ := toolText(t, responses[0])
	assert.Contains(t, text, `"Material"`)
	assert.Contains(t, text, `"#E57373"`)
}

func TestMCPErrors(t *testing.T) {
	srv, out := newTestMCP(t)

	responses := runMCP(t, srv, out,
		`not json`,
		`{"jsonrpc":"2.0","id":7,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"fetch_day"}}`,
		`{"jsonrpc":"2.0","method":"unknown/notification"}`,
	)
	require.Len(t, responses, 2)

	require.NotNil(t, responses[0].Error)
	assert.Equal(t, -32601, responses[0].Error.Code)
	assert.Equal(t, float64(7), responses[0].ID)

	require.NotNil(t, responses[1].Error)
	assert.Equal(t, -32602, responses[1].Error.Code)
	assert.Equal(t, "fetch_day", responses[1].Error.Data)
}

func TestMCPResponseFormat(t *testing.T) {
	// Test successful response
	data, err := json.Marshal(MCPResponse{JSONRPC: "2.0", ID: 1, Result: map[string]interface{}{"test": "value"}})
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2.0", parsed["jsonrpc"])
	assert.Nil(t, parsed["error"])

	// Test error response
	data, err = json.Marshal(MCPResponse{JSONRPC: "2.0", ID: 2, Error: &MCPError{Code: -32600, Message: "Invalid Request"}})
	require.NoError(t, err)

	parsed = nil
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.NotContains(t, parsed, "result")
	assert.Equal(t, float64(-32600), parsed["error"].(map[string]interface{})["code"])
}
