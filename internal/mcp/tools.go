package mcp

import (
	"context"
	"fmt"
	"strings"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/imageinput"
	"signal-analyzer/internal/workflow"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, session SessionDriver) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "chart_load",
		Description: "Load a chart screenshot into the session from a file path or base64 data. Clears any previous analysis.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in chartLoadInput) (*mcp.CallToolResult, chartLoadOutput, error) {
		if session == nil {
			return nil, chartLoadOutput{}, fmt.Errorf("session unavailable")
		}
		var (
			img domain.Image
			err error
		)
		switch {
		case strings.TrimSpace(in.Path) != "":
			img, err = imageinput.Load(strings.TrimSpace(in.Path))
		case strings.TrimSpace(in.Data) != "":
			var data []byte
			if data, err = decodeImageData(in.Data); err == nil {
				img, err = imageinput.FromBytes(strings.TrimSpace(in.Name), data)
			}
		default:
			err = fmt.Errorf("path or data is required")
		}
		if err != nil {
			return nil, chartLoadOutput{}, err
		}
		session.Upload(img)
		return nil, chartLoadOutput{ImageName: img.Name, MimeType: img.MimeType, Bytes: len(img.Data)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chart_analyze",
		Description: "Analyze the loaded chart and return the signal, its justification and related market news",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in chartAnalyzeInput) (*mcp.CallToolResult, chartAnalyzeOutput, error) {
		if session == nil {
			return nil, chartAnalyzeOutput{}, fmt.Errorf("session unavailable")
		}
		mode, err := normalizeMode(in.Mode)
		if err != nil {
			return nil, chartAnalyzeOutput{}, err
		}
		st, err := session.Analyze(ctx, mode)
		if err != nil {
			return nil, chartAnalyzeOutput{}, fmt.Errorf("%s: %w", workflow.Classify(err), err)
		}
		return nil, analyzeOutput(st), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat_send",
		Description: "Send a message to the trading assistant and return its reply",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in chatSendInput) (*mcp.CallToolResult, chatSendOutput, error) {
		if session == nil {
			return nil, chatSendOutput{}, fmt.Errorf("session unavailable")
		}
		st, err := session.SendChat(ctx, in.Text)
		if err != nil {
			return nil, chatSendOutput{}, err
		}
		return nil, chatSendOutput{Reply: lastReply(st.Transcript), Turns: len(st.Transcript)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_reset_chat",
		Description: "Clear the chat transcript back to the greeting",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ sessionResetChatInput) (*mcp.CallToolResult, transcriptOutput, error) {
		if session == nil {
			return nil, transcriptOutput{}, fmt.Errorf("session unavailable")
		}
		st := session.ResetChat()
		return nil, transcriptOutput{Transcript: st.Transcript}, nil
	})
}
