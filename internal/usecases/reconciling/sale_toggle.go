package reconciling

import (
	"context"

	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// SaleToggleRule liga e desliga entidades promocionais para o período de
// sale. Asset groups de campanhas Performance Max e campanhas Demand Gen que
// casam com um alvo promocional recebem o status do modo (start habilita,
// end pausa); o contraparte não promocional configurado recebe sempre o
// status oposto. Entidades que não casam com nenhum alvo nunca são tocadas.
type SaleToggleRule struct {
	defaults []domain.ToggleTarget
}

// NewSaleToggleRule cria a regra com os alvos padrão da configuração global.
func NewSaleToggleRule(defaults []domain.ToggleTarget) *SaleToggleRule {
	return &SaleToggleRule{defaults: defaults}
}

func (r *SaleToggleRule) Name() string { return RuleSaleToggle }

// Validate exige um modo start/end válido.
func (r *SaleToggleRule) Validate(req *domain.RunRequest) error {
	_, err := domain.ParseToggleMode(string(req.Mode))
	return err
}

// ReadState lê os asset groups de campanhas Performance Max habilitadas e as
// campanhas Demand Gen da conta.
func (r *SaleToggleRule) ReadState(ctx context.Context, reader StateReader, account domain.ManagedAccount, _ *domain.RunRequest) (*State, error) {
	state := NewState()

	assetGroups, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindAssetGroup, domain.EntityFilter{
		Statuses:    []string{domain.StatusEnabled, domain.StatusPaused},
		ChannelType: "PERFORMANCE_MAX",
	})
	if err != nil {
		return nil, err
	}

	campaigns, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCampaign, domain.EntityFilter{
		ChannelType:    "DEMAND_GEN",
		ExcludeRemoved: true,
	})
	if err != nil {
		return nil, err
	}

	state.Entities = append(state.Entities, assetGroups...)
	state.Entities = append(state.Entities, campaigns...)

	return state, nil
}

// Evaluate decide o status desejado de cada entidade. O casamento é de mundo
// fechado: a ausência de um alvo configurado é sempre NO_ACTION, nunca uma
// ação oposta implícita. Quando uma entidade casa com mais de um alvo, vence
// o primeiro na ordem de configuração; cada entidade produz no máximo uma
// decisão por execução.
func (r *SaleToggleRule) Evaluate(state *State, account domain.ManagedAccount, req *domain.RunRequest) ([]domain.Decision, []domain.EntityError) {
	targets := r.effectiveTargets(account, req)
	decisions := make([]domain.Decision, 0, len(state.Entities))
	seen := make(map[string]bool, len(state.Entities))

	for _, rec := range state.Entities {
		if seen[rec.ResourceName] {
			continue
		}
		seen[rec.ResourceName] = true

		desired, matched := desiredStatusFor(rec, targets, req.Mode)
		if !matched {
			decisions = append(decisions, domain.NoAction(RuleSaleToggle, rec, domain.ReasonNoMatch, nil))
			continue
		}

		if rec.Status == desired {
			decisions = append(decisions, domain.NoAction(RuleSaleToggle, rec, domain.ReasonAlreadyDesired, &domain.DecisionInputs{
				CurrentStatus: rec.Status,
			}))
			continue
		}

		decisions = append(decisions, domain.Decision{
			Rule:          RuleSaleToggle,
			Kind:          rec.Kind,
			EntityID:      rec.ID,
			EntityName:    rec.Name,
			ResourceName:  rec.ResourceName,
			Action:        domain.DecisionChange,
			DesiredStatus: desired,
			Inputs:        &domain.DecisionInputs{CurrentStatus: rec.Status},
		})
	}

	return decisions, nil
}

// Resolve mapeia cada decisão CHANGE em um UPDATE de status. O toggle sempre
// atua sobre recursos existentes, então nunca produz CREATE.
func (r *SaleToggleRule) Resolve(_ context.Context, _ StateReader, _ domain.ManagedAccount, _ *domain.RunRequest, decisions []domain.Decision) ([]domain.Decision, []domain.MutationOperation, []domain.EntityError, error) {
	var operations []domain.MutationOperation

	for _, d := range decisions {
		if !d.IsChange() {
			continue
		}

		resource := domain.ResourceAssetGroups
		if d.Kind == domain.EntityKindCampaign {
			resource = domain.ResourceCampaigns
		}

		operations = append(operations, domain.NewUpdate(resource, d.ResourceName, "status", domain.Fields{
			"status": d.DesiredStatus,
		}))
	}

	return decisions, operations, nil, nil
}

// effectiveTargets resolve os alvos desta execução: requisição > override da
// conta > padrão global.
func (r *SaleToggleRule) effectiveTargets(account domain.ManagedAccount, req *domain.RunRequest) []domain.ToggleTarget {
	if len(req.Targets) > 0 {
		return req.Targets
	}

	if account.Overrides != nil && len(account.Overrides.ToggleTargets) > 0 {
		return account.Overrides.ToggleTargets
	}

	return r.defaults
}

// desiredStatusFor encontra o primeiro alvo habilitado que casa com a
// entidade e devolve o status desejado conforme o modo. O contraparte não
// promocional recebe o status oposto ao do alvo promocional.
func desiredStatusFor(rec domain.EntityRecord, targets []domain.ToggleTarget, mode domain.ToggleMode) (string, bool) {
	promotional := domain.StatusEnabled
	if mode == domain.ToggleModeEnd {
		promotional = domain.StatusPaused
	}

	for _, target := range targets {
		if !target.Enabled {
			continue
		}

		if target.Promotional.Matches(rec) {
			return promotional, true
		}

		if target.NonPromotional != nil && target.NonPromotional.Matches(rec) {
			return opposite(promotional), true
		}
	}

	return "", false
}

func opposite(status string) string {
	if status == domain.StatusEnabled {
		return domain.StatusPaused
	}
	return domain.StatusEnabled
}
