package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResources(server *mcp.Server, session SessionDriver) {
	server.AddResource(&mcp.Resource{
		URI:         "session://state",
		Name:        "session-state",
		Description: "Current session: loaded image, analysis result, news, loading flags and transcript",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if session == nil {
			return nil, fmt.Errorf("session unavailable")
		}
		return jsonResource(req.Params.URI, session.State())
	})

	server.AddResource(&mcp.Resource{
		URI:         "session://transcript",
		Name:        "session-transcript",
		Description: "Chat transcript in order, oldest first",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if session == nil {
			return nil, fmt.Errorf("session unavailable")
		}
		return jsonResource(req.Params.URI, transcriptOutput{Transcript: session.State().Transcript})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
