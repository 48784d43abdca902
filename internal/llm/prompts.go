package llm

import "fmt"

// AnalysisPromptVersion identifies the analysis instruction below. Bump it
// whenever the text changes.
const AnalysisPromptVersion = "v1"

const analysisPromptV1 = `
Você é um trader profissional de classe mundial, especialista em análise técnica de gráficos de 5 minutos (M5) da plataforma Quotex. Seu objetivo é identificar sinais de negociação de alta probabilidade com base puramente na ação do preço (price action).
Analise a captura de tela do gráfico de negociação da Quotex fornecida. Com base APENAS nas informações visuais da imagem, realize uma análise completa e profissional.

Checklist da Análise:
1.  Identifique o par de ativos.
2.  Identifique o tempo restante na vela ativa atual.
3.  Analise minuciosamente os níveis de Suporte e Resistência.
4.  Identifique e interprete Padrões de Candlestick significativos (ex: Doji, Engolfo, Martelo, Estrela Cadente).
5.  Analise a ação do preço em relação às Bandas de Bollinger (sobrecompra, sobrevenda, rompimentos, cruzamentos da banda do meio).
6.  Analise o Stochastic Momentum Index ou qualquer outro oscilador visível (RSI, Estocástico) para condições de sobrecompra/sobrevenda e divergências.
7.  Analise as barras de volume para confirmar a força da ação do preço.
8.  **Crucialmente, realize uma análise de múltiplos timeframes (multi-timeframe analysis) inferindo ou considerando o comportamento típico do preço e a consistência da tendência nos timeframes M1, M5 (o gráfico fornecido) e H1. Consolide essas perspectivas para aumentar a precisão e robustez do seu sinal.**
9.  Sintetize todos esses fatores para gerar um único e claro sinal de negociação para o timeframe M5.
10. Forneça uma justificativa detalhada e profissional para o seu sinal, referenciando observações específicas da sua análise, incluindo sua perspectiva de múltiplos timeframes.

O sinal final deve ser uma de três opções: 'CALL' (uma previsão de compra/alta), 'PUT' (uma previsão de venda/baixa), ou 'WAIT' (se não houver um sinal de alta confiança).
Forneça a saída no formato JSON especificado. Todas as justificativas textuais devem estar em **português do Brasil**.
`

// AnalysisPrompt returns the fixed chart-analysis instruction.
func AnalysisPrompt() string { return analysisPromptV1 }

// NewsPrompt builds the grounded news request for one asset.
func NewsPrompt(asset string) string {
	return fmt.Sprintf("Quais são as últimas notícias, o sentimento do mercado e os principais níveis técnicos para o ativo %s? "+
		"Resuma os pontos-chave que podem afetar seu preço a curto prazo. Forneça links para suas fontes. "+
		"Responda em português do Brasil.", asset)
}

// ChatSystemInstruction fixes the assistant persona and reply language.
const ChatSystemInstruction = "Você é um assistente de negociação prestativo e amigável. Responda sempre em português do Brasil."

// Field descriptions shared by the provider schemas.
const (
	SchemaName = "chart_analysis"

	DescAsset                  = "O par de ativos de negociação (ex: EUR/USD, BTC/USD OTC)."
	DescCandleTimeRemaining    = "O tempo restante na vela atual."
	DescSignal                 = "O sinal de negociação final."
	DescConfidence             = "O nível de confiança do sinal."
	DescSummary                = "Um breve resumo da análise em português."
	DescSupportResistance      = "Análise dos níveis de suporte e resistência em português."
	DescCandlesticks           = "Análise dos padrões de candlestick em português."
	DescBollingerBands         = "Análise das Bandas de Bollinger em português."
	DescOscillator             = "Análise de osciladores como Stochastic ou RSI em português."
	DescVolume                 = "Análise do volume de negociação em português."
	DescMultiTimeframeAnalysis = "Análise consolidada considerando os timeframes M1, M5 e H1, com base no gráfico M5 fornecido e no contexto de mercado mais amplo, em português."
)

// Required field lists in schema order.
var (
	AnalysisRequired      = []string{"asset", "candleTimeRemaining", "signal", "confidence", "justification"}
	JustificationRequired = []string{"summary", "supportResistance", "candlesticks", "bollingerBands", "oscillator", "volume", "multiTimeframeAnalysis"}
)
