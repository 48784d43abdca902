package workflow

import (
	"errors"
	"strings"

	"signal-analyzer/internal/domain"
)

var (
	ErrNoImage      = errors.New("no image loaded")
	ErrEmptyMessage = errors.New("chat message is empty")
	ErrChatBusy     = errors.New("a chat reply is already in flight")
	// ErrSuperseded reports an analysis cycle overtaken by a newer upload or
	// analysis; its outcome was discarded.
	ErrSuperseded  = errors.New("analysis superseded by a newer request")
	ErrEmptyResult = errors.New("model returned no analysis")
)

// User-facing messages, in the product language.
const (
	MsgNoImage      = "Por favor, carregue uma imagem primeiro."
	MsgAuth         = "Erro de autenticação: Certifique-se de que sua chave de API é válida e está configurada corretamente."
	MsgSafety       = "O modelo de IA não conseguiu gerar uma resposta, possivelmente devido a configurações de segurança ou política de conteúdo. Por favor, tente uma imagem ou prompt diferente."
	MsgQuota        = "Limite da API atingido ou cota excedida. Por favor, tente novamente após algum tempo."
	MsgParse        = "O modelo de IA retornou um formato de resposta inesperado. A análise falhou ao analisar a saída. Por favor, tente novamente."
	MsgNetwork      = "Ocorreu um erro de rede. Verifique sua conexão com a internet e tente novamente."
	MsgInvalidInput = "Entrada de imagem inválida. Certifique-se de que a imagem é clara, relevante e está em um formato suportado (PNG, JPG, WEBP)."
	MsgTimeout      = "A análise expirou. Isso pode acontecer com imagens complexas ou problemas de rede. Por favor, tente novamente."
	MsgGeneric      = "Falha ao analisar a imagem. O modelo pode não ter conseguido processá-la. Por favor, tente outra imagem ou verifique os logs para mais detalhes."

	ChatGreeting = "Olá! Sou seu assistente de negociação. Pergunte-me qualquer coisa sobre conceitos de negociação, estratégias ou análise de mercado."
	ChatFallback = "Desculpe, ocorreu um erro. Por favor, tente novamente."
)

type errorRule struct {
	message  string
	keywords []string
}

// Order matters: the first matching rule wins.
var errorRules = []errorRule{
	{MsgAuth, []string{"api key", "api_key", "authentication", "unauthenticated", "permission denied", "permission_denied"}},
	{MsgSafety, []string{"safety", "content policy", "blocked"}},
	{MsgQuota, []string{"quota", "rate limit", "resource_exhausted", "429"}},
	{MsgParse, nil},
	{MsgNetwork, []string{"network", "failed to fetch", "connection refused", "no such host", "connection reset"}},
	{MsgInvalidInput, []string{"invalid argument", "invalid_argument", "bad request", "unsupported image"}},
	{MsgTimeout, []string{"timeout", "deadline exceeded"}},
}

// Classify maps a failure from the model service to a user-facing message.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoImage) {
		return MsgNoImage
	}
	// A ParseError quotes model output, which must not steer the keyword rules.
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		return MsgParse
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range errorRules {
		if rule.message == MsgParse {
			if isParseFailure(msg) {
				return MsgParse
			}
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.message
			}
		}
	}
	return MsgGeneric
}

func isParseFailure(msg string) bool {
	return strings.Contains(msg, "json") && strings.Contains(msg, "unexpected")
}
