package tbashell

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func mcpSetup(t *testing.T) (ft *fakeTBA, session *mcp.ClientSession) {
	ft, eng, _ := testSetup(t)

	ctx, cancel := context.WithCancel(context.Background())
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	done := make(chan error, 1)
	go func() {
		done <- eng.ServeMCP(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "tbashell-test", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		cancel()
		<-done
	})
	return
}

func toolOutput(t *testing.T, res *mcp.CallToolResult) string {
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPList(t *testing.T) {
	ft, session := mcpSetup(t)
	ft.set("event/2017wasno/teams/keys", `["frc492","frc1983"]`)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tba_list",
		Arguments: map[string]any{"query": "teams?event=2017wasno", "level": 0},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "[\n    \"frc492\"\n    \"frc1983\"\n]\n", toolOutput(t, res))
}

func TestMCPGet(t *testing.T) {
	ft, session := mcpSetup(t)
	ft.set("status", `{"current_season":2017,"is_datafeed_down":false}`)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tba_get",
		Arguments: map[string]any{"request": "status"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "{\n    current_season: 2017\n    is_datafeed_down: false\n}\n", toolOutput(t, res))
}

func TestMCPToolErrors(t *testing.T) {
	_, session := mcpSetup(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tba_list",
		Arguments: map[string]any{"query": "teams?year=2017&team=frc492"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, toolOutput(t, res), "Invalid filter, expecting")

	res, err = session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "tba_get",
		Arguments: map[string]any{"request": " "},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "error: request is required", toolOutput(t, res))
}
