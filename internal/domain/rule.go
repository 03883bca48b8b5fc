package domain

import "strings"

// MatcherType distingue as variantes de matcher de uma configuração de regra.
type MatcherType string

const (
	// MatcherContains casa por substring do nome (case-insensitive)
	MatcherContains MatcherType = "contains"
	// MatcherExactPair casa por par explícito campanha/asset group
	MatcherExactPair MatcherType = "exact_pair"
)

// Matcher é a variante etiquetada que identifica as entidades alvo de uma
// regra. As duas formas são avaliadas uniformemente pelo Evaluator.
type Matcher struct {
	Type MatcherType `json:"type"`

	// Text é a substring procurada quando Type == MatcherContains
	Text string `json:"text,omitempty"`

	// Campaign/AssetGroup formam o par exato quando Type == MatcherExactPair.
	// AssetGroup vazio casa a própria campanha.
	Campaign   string `json:"campaign,omitempty"`
	AssetGroup string `json:"asset_group,omitempty"`
}

// Contains cria um matcher por substring de nome.
func Contains(text string) Matcher {
	return Matcher{Type: MatcherContains, Text: text}
}

// ExactPair cria um matcher por par explícito campanha/asset group.
func ExactPair(campaign, assetGroup string) Matcher {
	return Matcher{Type: MatcherExactPair, Campaign: campaign, AssetGroup: assetGroup}
}

// Matches verifica se a entidade casa com o matcher. Entidades que não casam
// com nenhum matcher configurado nunca são tocadas pelas regras.
func (m Matcher) Matches(rec EntityRecord) bool {
	switch m.Type {
	case MatcherContains:
		if m.Text == "" {
			return false
		}
		return strings.Contains(strings.ToLower(rec.Name), strings.ToLower(m.Text))

	case MatcherExactPair:
		if rec.Kind == EntityKindAssetGroup {
			return rec.ParentName == m.Campaign && rec.Name == m.AssetGroup
		}
		return m.AssetGroup == "" && rec.Name == m.Campaign

	default:
		return false
	}
}

// ToggleTarget descreve um alvo da regra de toggle de sale: um matcher
// promocional e, opcionalmente, o seu contraparte não promocional, que
// recebe sempre o status oposto.
type ToggleTarget struct {
	Name           string   `json:"name"`
	Enabled        bool     `json:"enabled"`
	Promotional    Matcher  `json:"promotional"`
	NonPromotional *Matcher `json:"non_promotional,omitempty"`
}

// MomentumFilter seleciona as campanhas avaliadas pela regra de momentum de
// lance, por substring do nome.
type MomentumFilter struct {
	Name     string `json:"name"`
	Contains string `json:"contains"`
	Enabled  bool   `json:"enabled"`
}
