package domain

import "fmt"

// ToggleMode indica a direção do toggle de sale.
type ToggleMode string

const (
	ToggleModeStart ToggleMode = "start"
	ToggleModeEnd   ToggleMode = "end"
)

// ParseToggleMode valida e converte o modo informado na requisição.
func ParseToggleMode(mode string) (ToggleMode, error) {
	switch ToggleMode(mode) {
	case ToggleModeStart, ToggleModeEnd:
		return ToggleMode(mode), nil
	default:
		return "", NewConfigurationError("mode", fmt.Sprintf("modo inválido %q, use \"start\" ou \"end\"", mode))
	}
}

// SalePhase indica a fase da sale para a rotação de textos de anúncio.
type SalePhase string

const (
	SalePhaseStart   SalePhase = "start_sale"
	SalePhaseTwoDays SalePhase = "two_days_before"
	SalePhaseLastDay SalePhase = "last_day"
	SalePhaseEnd     SalePhase = "end_sale"
)

// ParseSalePhase valida e converte a fase informada na requisição.
func ParseSalePhase(phase string) (SalePhase, error) {
	switch SalePhase(phase) {
	case SalePhaseStart, SalePhaseTwoDays, SalePhaseLastDay, SalePhaseEnd:
		return SalePhase(phase), nil
	default:
		return "", NewConfigurationError("phase", fmt.Sprintf("fase inválida %q", phase))
	}
}

// ScalingParams são os parâmetros da regra de escala de orçamento.
type ScalingParams struct {
	ThresholdPercent float64 `json:"threshold_percent"`
	IncreasePercent  float64 `json:"increase_percent"`
}

// MomentumParams são os parâmetros da regra de momentum de lance.
type MomentumParams struct {
	Filters              []MomentumFilter `json:"filters,omitempty"`
	MinClicksRequired    int64            `json:"min_clicks_required"`
	MinChangePercent     float64          `json:"min_change_percent"`
	MaxAdjustmentPercent float64          `json:"max_adjustment_percent"`
}

// CopyParams são os parâmetros da rotação de textos de anúncio.
type CopyParams struct {
	Phase SalePhase `json:"phase"`
	// Nomes dos atributos de customizer procurados na conta
	HeadlineAttribute    string `json:"headline_attribute,omitempty"`
	DescriptionAttribute string `json:"description_attribute,omitempty"`
}

// RunRequest descreve uma invocação da frota: seleção de contas, modo de
// execução e parâmetros específicos da família de regra.
type RunRequest struct {
	// AccountIDs limita a execução a um subconjunto de contas; vazio
	// processa todas as contas configuradas
	AccountIDs []string `json:"account_ids,omitempty"`
	// DryRun calcula e reporta as decisões sem invocar o Mutation Writer
	DryRun bool `json:"dry_run"`

	Mode     ToggleMode     `json:"mode,omitempty"`
	Targets  []ToggleTarget `json:"targets,omitempty"`
	Scaling  ScalingParams  `json:"scaling,omitempty"`
	Momentum MomentumParams `json:"momentum,omitempty"`
	Copy     CopyParams     `json:"copy,omitempty"`
}

// WantsAccount informa se a conta participa desta execução.
func (r *RunRequest) WantsAccount(accountID string) bool {
	if len(r.AccountIDs) == 0 {
		return true
	}

	for _, id := range r.AccountIDs {
		if id == accountID {
			return true
		}
	}

	return false
}

// PipelineStage identifica o estágio do pipeline de uma conta.
type PipelineStage string

const (
	StageReadState PipelineStage = "READ_STATE"
	StageEvaluate  PipelineStage = "EVALUATE"
	StageResolve   PipelineStage = "RESOLVE"
	StagePreview   PipelineStage = "PREVIEW"
	StageApply     PipelineStage = "APPLY"
	StageDone      PipelineStage = "DONE"
	StageFailed    PipelineStage = "FAILED"
)

// EntityError registra uma falha limitada a uma entidade dentro de uma conta.
// As demais entidades da mesma conta continuam sendo processadas.
type EntityError struct {
	EntityID   string `json:"entity_id,omitempty"`
	EntityName string `json:"entity_name"`
	Reason     string `json:"reason"`
}

// AccountResult agrega as decisões e operações produzidas para uma conta em
// uma execução do pipeline. É criado no início do pipeline, populado conforme
// os estágios completam e imutável depois de devolvido ao orquestrador.
type AccountResult struct {
	AccountID string `json:"account_id"`
	Country   string `json:"country"`
	DryRun    bool   `json:"dry_run"`

	// Stage é o estágio terminal (DONE ou FAILED)
	Stage PipelineStage `json:"stage"`
	// FailedStage indica em qual estágio a conta falhou, quando Stage == FAILED
	FailedStage PipelineStage `json:"failed_stage,omitempty"`

	Decisions    []Decision          `json:"decisions,omitempty"`
	Operations   []MutationOperation `json:"operations,omitempty"`
	EntityErrors []EntityError       `json:"entity_errors,omitempty"`

	// Error é o erro no nível da conta (ex: a própria leitura de estado
	// falhou); nunca interrompe as contas irmãs
	Error string `json:"error,omitempty"`
}

// Applied conta as decisões CHANGE resolvidas em operações.
func (r *AccountResult) Applied() int {
	count := 0
	for _, d := range r.Decisions {
		if d.IsChange() {
			count++
		}
	}
	return count
}

// Skipped conta as decisões NO_ACTION.
func (r *AccountResult) Skipped() int {
	count := 0
	for _, d := range r.Decisions {
		if d.Action == DecisionNoAction {
			count++
		}
	}
	return count
}

// RunSummary agrega os totais de uma invocação da frota. Existe apenas pela
// duração da invocação; nunca é persistido.
type RunSummary struct {
	Accounts  int `json:"accounts"`
	Processed int `json:"processed"`
	Applied   int `json:"applied"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// RunResponse é a resposta completa de uma invocação: o resumo e a lista de
// resultados por conta.
type RunResponse struct {
	RunID   string          `json:"run_id"`
	Rule    string          `json:"rule"`
	DryRun  bool            `json:"dry_run"`
	Summary RunSummary      `json:"summary"`
	Details []AccountResult `json:"details"`
}
