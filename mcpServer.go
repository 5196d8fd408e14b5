package tbashell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type (
	ListArgs struct {
		Query string `json:"query" jsonschema:"<Model>?<FilterSet>, for example teams?year=2017 or matches?event=2017wasno&team=frc492"`
		Level *int   `json:"level,omitempty" jsonschema:"Verbose level 0, 1 or 2 (default 1)"`
	}

	GetArgs struct {
		Request string `json:"request" jsonschema:"Raw TBA v3 request path, for example team/frc492/events/2017/simple"`
	}
)

func newMCPServer(cd *cmdDispatcher, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tbashell",
			Version: version,
		},
		nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tba_list",
		Description: "Lists The Blue Alliance data for a model selected by filters (teams, events, matches, awards, rankings, ...)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Query) == "" {
			return toolError(errors.New("query is required")), nil, nil
		}

		tokens := []string{"list"}
		if args.Level != nil {
			tokens = append(tokens, "-"+strconv.Itoa(*args.Level))
		}
		tokens = append(tokens, args.Query)
		return toolResult(cd.process(ctx, tokens))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tba_get",
		Description: "Sends a raw request path to The Blue Alliance v3 API and returns the whole document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Request) == "" {
			return toolError(errors.New("request is required")), nil, nil
		}
		return toolResult(cd.process(ctx, []string{"get", args.Request}))
	})

	return server
}

func toolResult(result *Result, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}

	var sb strings.Builder
	result.Print(&sb)
	return toolText(sb.String()), nil, nil
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
