package wizard

import (
	"fmt"
	"slices"
)

// Stage identifies a backend call that shows a loading message sequence.
type Stage int

const (
	// StageParse is the strategic interpretation of the product.
	StageParse Stage = iota
	// StageGenerate is the ad variant generation.
	StageGenerate
	// StageSimulate is the audience simulation.
	StageSimulate
	// StageDecide is the final decision.
	StageDecide
)

var stageNames = map[Stage]string{
	StageParse:    "parse",
	StageGenerate: "generate",
	StageSimulate: "simulate",
	StageDecide:   "decide",
}

// String returns the stage name.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

var loadingMessages = map[Stage][]string{
	StageParse: {
		"Interpretando produto...",
		"Analisando nivel de consciencia...",
		"Mapeando objecoes...",
	},
	StageGenerate: {
		"Construindo hipotese A...",
		"Diversificando estrutura...",
		"Calibrando metricas preditivas...",
	},
	StageSimulate: {
		"Simulando reacao de publico...",
		"Avaliando resistencia a mensagem...",
		"Calculando probabilidade de clique...",
		"Detectando conflitos entre perfis...",
	},
	StageDecide: {
		"Processando dados de simulacao...",
		"Comparando performance relativa...",
		"Calculando consequencias de cada escolha...",
		"Assumindo responsabilidade pela decisao...",
	},
}

// Messages returns the loading messages of a stage, or nil for an unknown stage.
func Messages(s Stage) []string {
	return slices.Clone(loadingMessages[s])
}

// Messages shown when the backend gives no detail.
const (
	MsgCreateFailed        = "Erro ao criar análise"
	MsgGenerateFailed      = "Erro ao gerar anúncios"
	MsgSimulateFailed      = "Erro ao simular público"
	MsgDecideFailed        = "Erro ao gerar decisão"
	MsgStrategyTableFailed = "Erro ao gerar tabela estratégica"
	MsgMediaFailed         = "Erro ao enviar mídia"
	MsgShareFailed         = "Erro ao gerar link público"
	MsgImproveFailed       = "Erro ao criar versão melhorada"
	MsgNotFound            = "Analise nao encontrada"
)

// Success messages.
const (
	MsgMediaUploaded = "Mídia enviada!"
	MsgShareReady    = "Link público gerado!"
)
