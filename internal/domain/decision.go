package domain

// DecisionAction é o veredito do Evaluator para uma entidade.
type DecisionAction string

const (
	DecisionNoAction DecisionAction = "NO_ACTION"
	DecisionChange   DecisionAction = "CHANGE"
)

// Motivos padronizados de NO_ACTION
const (
	ReasonZeroBudget       = "zero budget"
	ReasonBelowThreshold   = "utilization below threshold"
	ReasonInsufficientData = "insufficient data"
	ReasonChangeTooSmall   = "change too small or negative"
	ReasonNoMatch          = "no configured target matches"
	ReasonAlreadyDesired   = "already at desired state"
)

// DecisionInputs carrega os valores numéricos que produziram a decisão, para
// auditoria. Apenas os campos relevantes para a família de regra aparecem.
type DecisionInputs struct {
	TodayClicks        int64   `json:"today_clicks,omitempty"`
	TodayRate          float64 `json:"today_rate,omitempty"`
	YesterdayRate      float64 `json:"yesterday_rate,omitempty"`
	ChangePercent      float64 `json:"change_percent,omitempty"`
	UtilizationPercent float64 `json:"utilization_percent,omitempty"`
	TodaySpend         float64 `json:"today_spend,omitempty"`
	CurrentBudget      float64 `json:"current_budget,omitempty"`
	CurrentStatus      string  `json:"current_status,omitempty"`
	CurrentValue       string  `json:"current_value,omitempty"`
}

// Decision é a saída do Evaluator para um Entity Record: nenhuma ação ou uma
// mudança de estado desejado com motivo. Uma Mutation Operation só é
// produzida a partir de uma decisão CHANGE.
type Decision struct {
	Rule         string         `json:"rule"`
	Kind         EntityKind     `json:"kind"`
	EntityID     string         `json:"entity_id,omitempty"`
	EntityName   string         `json:"entity_name"`
	ResourceName string         `json:"resource_name,omitempty"`
	Action       DecisionAction `json:"action"`
	Reason       string         `json:"reason,omitempty"`

	// Estado desejado, conforme a família de regra
	DesiredStatus       string  `json:"desired_status,omitempty"`
	DesiredBudgetMicros int64   `json:"desired_budget_micros,omitempty"`
	DesiredModifier     float64 `json:"desired_modifier,omitempty"`
	DesiredValue        string  `json:"desired_value,omitempty"`

	// AttributeRef referencia o atributo pai quando a mudança cria um novo
	// customizer de conta
	AttributeRef string `json:"attribute_ref,omitempty"`

	Inputs *DecisionInputs `json:"inputs,omitempty"`
}

// IsChange informa se a decisão produz uma mutação.
func (d Decision) IsChange() bool {
	return d.Action == DecisionChange
}

// NoAction cria uma decisão NO_ACTION com motivo.
func NoAction(rule string, rec EntityRecord, reason string, inputs *DecisionInputs) Decision {
	return Decision{
		Rule:         rule,
		Kind:         rec.Kind,
		EntityID:     rec.ID,
		EntityName:   rec.Name,
		ResourceName: rec.ResourceName,
		Action:       DecisionNoAction,
		Reason:       reason,
		Inputs:       inputs,
	}
}
