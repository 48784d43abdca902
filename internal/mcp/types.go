package mcp

import (
	"encoding/base64"
	"fmt"
	"strings"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/workflow"
)

type chartLoadInput struct {
	Path string `json:"path,omitempty" jsonschema:"path to a PNG, JPEG or WEBP chart screenshot"`
	Data string `json:"data,omitempty" jsonschema:"base64-encoded image bytes, used when path is empty"`
	Name string `json:"name,omitempty" jsonschema:"display name for base64 data"`
}

type chartLoadOutput struct {
	ImageName string `json:"imageName"`
	MimeType  string `json:"mimeType"`
	Bytes     int    `json:"bytes"`
}

type chartAnalyzeInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"analysis tier: fast (default) or deep"`
}

type chartAnalyzeOutput struct {
	Phase     workflow.Phase         `json:"phase"`
	Mode      domain.AnalysisMode    `json:"mode"`
	Result    *domain.AnalysisResult `json:"result,omitempty"`
	News      *domain.NewsResult     `json:"news,omitempty"`
	NewsError string                 `json:"newsError,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

type chatSendInput struct {
	Text string `json:"text" jsonschema:"message to send to the assistant"`
}

type chatSendOutput struct {
	Reply string `json:"reply"`
	Turns int    `json:"turns"`
}

type sessionResetChatInput struct{}

type transcriptOutput struct {
	Transcript []domain.ChatMessage `json:"transcript"`
}

func normalizeMode(raw string) (domain.AnalysisMode, error) {
	mode := domain.AnalysisMode(strings.ToLower(strings.TrimSpace(raw)))
	if mode == "" {
		return domain.ModeFast, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("unsupported mode: %s (want fast or deep)", raw)
	}
	return mode, nil
}

func decodeImageData(raw string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return data, nil
}

func analyzeOutput(st workflow.State) chartAnalyzeOutput {
	return chartAnalyzeOutput{
		Phase:     st.Phase(),
		Mode:      st.Mode,
		Result:    st.Result,
		News:      st.News,
		NewsError: st.NewsError,
		Error:     st.Error,
	}
}

// lastReply returns the newest model turn of the transcript.
func lastReply(transcript []domain.ChatMessage) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == domain.RoleModel {
			return transcript[i].Content
		}
	}
	return ""
}
