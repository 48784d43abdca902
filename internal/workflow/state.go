package workflow

import (
	"slices"
	"strings"

	"signal-analyzer/internal/domain"

	"github.com/google/uuid"
)

type View string

const (
	ViewAnalyzer View = "analyzer"
	ViewChat     View = "chat"
)

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAnalysisInFlight Phase = "analysis_in_flight"
	PhaseNewsInFlight     Phase = "news_in_flight"
	PhaseError            Phase = "error"
)

type ChatPhase string

const (
	ChatIdle     ChatPhase = "idle"
	ChatInFlight ChatPhase = "chat_in_flight"
)

// AnalysisRequest is the outbound call StartAnalysis asks the driver to make.
type AnalysisRequest struct {
	ID         string
	Generation uint64
	Image      domain.Image
	Mode       domain.AnalysisMode
}

type NewsRequest struct {
	ID         string
	Generation uint64
	Asset      string
}

type ChatRequest struct {
	ID         string
	Generation uint64
	Transcript []domain.ChatMessage
}

// State is the whole session as a value. Transition methods never mutate the
// receiver; they return the next State and, when a call to the model service
// is needed, the request describing it.
type State struct {
	Image      *domain.Image          `json:"-"`
	ImageName  string                 `json:"imageName,omitempty"`
	Mode       domain.AnalysisMode    `json:"mode,omitempty"`
	Result     *domain.AnalysisResult `json:"result,omitempty"`
	News       *domain.NewsResult     `json:"news,omitempty"`
	NewsError  string                 `json:"newsError,omitempty"`
	Error      string                 `json:"error,omitempty"`
	View       View                   `json:"view"`
	ChatInput  string                 `json:"chatInput,omitempty"`
	Transcript []domain.ChatMessage   `json:"transcript"`

	AnalysisLoading bool `json:"analysisLoading"`
	NewsLoading     bool `json:"newsLoading"`
	ChatLoading     bool `json:"chatLoading"`

	// Generation identifies the current analysis cycle. Completions carrying
	// any other value are stale and ignored.
	Generation uint64 `json:"generation"`
	// ChatGeneration does the same for chat replies across resets.
	ChatGeneration uint64 `json:"chatGeneration"`
}

// NewState returns the initial session: analyzer view and a greeting.
func NewState() State {
	return State{
		View:       ViewAnalyzer,
		Transcript: []domain.ChatMessage{{Role: domain.RoleModel, Content: ChatGreeting}},
	}
}

func (s State) clearAnalysis() State {
	s.Result = nil
	s.News = nil
	s.NewsError = ""
	s.Error = ""
	s.AnalysisLoading = false
	s.NewsLoading = false
	return s
}

// Upload replaces the image and drops everything derived from the old one.
// The chat transcript is kept.
func (s State) Upload(img domain.Image) State {
	s = s.clearAnalysis()
	s.Image = &img
	s.ImageName = img.Name
	s.Generation++
	return s
}

// StartAnalysis begins a new analysis cycle for the loaded image.
func (s State) StartAnalysis(mode domain.AnalysisMode) (State, *AnalysisRequest) {
	if s.Image == nil {
		s.Error = MsgNoImage
		return s, nil
	}
	if !mode.IsValid() {
		mode = domain.ModeFast
	}
	s = s.clearAnalysis()
	s.Generation++
	s.Mode = mode
	s.AnalysisLoading = true
	return s, &AnalysisRequest{
		ID:         uuid.NewString(),
		Generation: s.Generation,
		Image:      *s.Image,
		Mode:       mode,
	}
}

// FinishAnalysis applies the analysis outcome. A result naming an asset
// continues the cycle with a news request for that asset.
func (s State) FinishAnalysis(gen uint64, result *domain.AnalysisResult, err error) (State, *NewsRequest) {
	if gen != s.Generation || !s.AnalysisLoading {
		return s, nil
	}
	if err != nil {
		s.Error = Classify(err)
		s.AnalysisLoading = false
		return s, nil
	}
	if result == nil {
		s.Error = MsgGeneric
		s.AnalysisLoading = false
		return s, nil
	}
	s.Result = result
	if !result.HasAsset() {
		s.AnalysisLoading = false
		return s, nil
	}
	s.NewsLoading = true
	return s, &NewsRequest{
		ID:         uuid.NewString(),
		Generation: s.Generation,
		Asset:      strings.TrimSpace(result.Asset),
	}
}

// FinishNews applies the news outcome and ends the analysis cycle. A failure
// is recorded separately so the analysis result stays visible.
func (s State) FinishNews(gen uint64, news *domain.NewsResult, err error) State {
	if gen != s.Generation || !s.NewsLoading {
		return s
	}
	if err != nil {
		s.NewsError = Classify(err)
	} else {
		s.News = news
	}
	s.NewsLoading = false
	s.AnalysisLoading = false
	return s
}

func (s State) SetChatInput(text string) State {
	s.ChatInput = text
	return s
}

func (s State) SetView(v View) State {
	if v != ViewAnalyzer && v != ViewChat {
		return s
	}
	s.View = v
	return s
}

// SendChat appends the pending input as a user turn. Blank input or a reply
// already in flight leave the state untouched.
func (s State) SendChat() (State, *ChatRequest) {
	if strings.TrimSpace(s.ChatInput) == "" || s.ChatLoading {
		return s, nil
	}
	s.Transcript = appendMessage(s.Transcript, domain.ChatMessage{Role: domain.RoleUser, Content: s.ChatInput})
	s.ChatInput = ""
	s.ChatLoading = true
	return s, &ChatRequest{
		ID:         uuid.NewString(),
		Generation: s.ChatGeneration,
		Transcript: slices.Clone(s.Transcript),
	}
}

// FinishChat appends the model reply, or a fixed apology when the call failed.
func (s State) FinishChat(gen uint64, reply string, err error) State {
	if gen != s.ChatGeneration || !s.ChatLoading {
		return s
	}
	content := reply
	if err != nil {
		content = ChatFallback
	}
	s.Transcript = appendMessage(s.Transcript, domain.ChatMessage{Role: domain.RoleModel, Content: content})
	s.ChatLoading = false
	return s
}

// ResetChat starts a fresh conversation. A reply still in flight is dropped.
func (s State) ResetChat() State {
	fresh := NewState()
	s.Transcript = fresh.Transcript
	s.ChatInput = ""
	s.ChatLoading = false
	s.ChatGeneration++
	return s
}

func (s State) Phase() Phase {
	switch {
	case s.NewsLoading:
		return PhaseNewsInFlight
	case s.AnalysisLoading:
		return PhaseAnalysisInFlight
	case s.Error != "":
		return PhaseError
	}
	return PhaseIdle
}

func (s State) ChatPhase() ChatPhase {
	if s.ChatLoading {
		return ChatInFlight
	}
	return ChatIdle
}

// Clone returns a copy whose transcript does not share backing storage.
func (s State) Clone() State {
	s.Transcript = slices.Clone(s.Transcript)
	return s
}

// appendMessage never writes into a backing array another State may share.
func appendMessage(transcript []domain.ChatMessage, msg domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(transcript), len(transcript)+1)
	copy(out, transcript)
	return append(out, msg)
}
