package domain

import "time"

// ManagedAccount representa uma conta de anúncios gerenciada pelas automações.
// A lista de contas é carregada uma única vez na inicialização a partir da
// configuração estática e nunca é alterada durante a execução.
type ManagedAccount struct {
	// ID é o customer ID da conta na plataforma (sem hífens)
	ID string `json:"id"`
	// Country é o código do país usado nos nomes sintetizados (ex: "DE")
	Country string `json:"country"`
	// Name é o rótulo de exibição da conta
	Name string `json:"name"`
	// Timezone é o fuso horário operacional da conta (ex: "Europe/Berlin").
	// As fronteiras de "hoje/ontem" são calculadas neste fuso, nunca no
	// fuso do processo.
	Timezone string `json:"timezone"`
	// Texts contém os textos de anúncio por fase de sale. Nil quando a
	// conta não participa da rotação de textos.
	Texts *SaleTexts `json:"texts,omitempty"`
	// Overrides contém configurações de regra específicas da conta
	Overrides *RuleOverrides `json:"overrides,omitempty"`
}

// Location resolve o fuso horário configurado da conta. Quando o campo está
// vazio ou é inválido, usa UTC para evitar depender do fuso do processo.
func (a ManagedAccount) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// SaleTexts contém os títulos e descrições de anúncio de uma conta para cada
// fase da sale, no idioma da conta.
type SaleTexts struct {
	NormalTitle string `json:"normal_title"`
	NormalDesc  string `json:"normal_desc"`

	SaleTitle string `json:"sale_title"`
	SaleDesc  string `json:"sale_desc"`

	SaleTitle2Days string `json:"sale_title_2_days"`
	SaleDesc2Days  string `json:"sale_desc_2_days"`

	SaleTitleLast string `json:"sale_title_last"`
	SaleDescLast  string `json:"sale_desc_last"`
}

// RuleOverrides permite que uma conta substitua a configuração global das
// regras. Campos nil/vazios mantêm os padrões globais.
type RuleOverrides struct {
	ToggleTargets   []ToggleTarget   `json:"toggle_targets,omitempty"`
	MomentumFilters []MomentumFilter `json:"momentum_filters,omitempty"`
}
