package reconciling

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/pkg/utils"
)

// micros por centavo, a menor unidade monetária faturável da plataforma
const microsPerCent = 10_000

// BudgetScalingRule aumenta o orçamento diário das campanhas que estão perto
// de esgotar o teto de gasto do dia. A cada execução a utilização é
// recalculada a partir do orçamento remoto vivo, então aumentos sucessivos
// compõem naturalmente entre invocações agendadas; não há teto acumulado
// entre execuções.
type BudgetScalingRule struct {
	nowFn func() time.Time
}

// NewBudgetScalingRule cria a regra de escala de orçamento.
func NewBudgetScalingRule() *BudgetScalingRule {
	return &BudgetScalingRule{nowFn: time.Now}
}

func (r *BudgetScalingRule) Name() string { return RuleBudgetScaling }

// Validate exige percentuais positivos de limiar e de aumento.
func (r *BudgetScalingRule) Validate(req *domain.RunRequest) error {
	if req.Scaling.ThresholdPercent <= 0 {
		return domain.NewConfigurationError("threshold", fmt.Sprintf("percentual de limiar inválido: %v", req.Scaling.ThresholdPercent))
	}

	if req.Scaling.IncreasePercent <= 0 {
		return domain.NewConfigurationError("increase", fmt.Sprintf("percentual de aumento inválido: %v", req.Scaling.IncreasePercent))
	}

	return nil
}

// ReadState lê as campanhas habilitadas com seus orçamentos e o gasto de hoje
// no fuso da conta.
func (r *BudgetScalingRule) ReadState(ctx context.Context, reader StateReader, account domain.ManagedAccount, _ *domain.RunRequest) (*State, error) {
	state := NewState()

	campaigns, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCampaign, domain.EntityFilter{
		Statuses:   []string{domain.StatusEnabled},
		WithBudget: true,
	})
	if err != nil {
		return nil, err
	}

	today := r.nowFn().In(account.Location()).Format(time.DateOnly)
	metrics, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCampaignMetrics, domain.EntityFilter{
		Statuses: []string{domain.StatusEnabled},
		Date:     today,
	})
	if err != nil {
		return nil, err
	}

	state.Entities = campaigns
	state.Related[domain.EntityKindCampaignMetrics] = metrics

	return state, nil
}

// Evaluate calcula a utilização de cada campanha e decide o novo orçamento.
// Campanhas sem gasto registrado hoje contam como gasto zero.
func (r *BudgetScalingRule) Evaluate(state *State, _ domain.ManagedAccount, req *domain.RunRequest) ([]domain.Decision, []domain.EntityError) {
	spendByCampaign := make(map[string]int64)
	for _, m := range state.Related[domain.EntityKindCampaignMetrics] {
		if m.Metrics != nil {
			spendByCampaign[m.ID] += m.Metrics.CostMicros
		}
	}

	decisions := make([]domain.Decision, 0, len(state.Entities))

	for _, campaign := range state.Entities {
		currentBudget := float64(campaign.BudgetMicros) / 1_000_000
		todaySpend := float64(spendByCampaign[campaign.ID]) / 1_000_000

		if campaign.BudgetMicros <= 0 {
			decisions = append(decisions, domain.NoAction(RuleBudgetScaling, campaign, domain.ReasonZeroBudget, &domain.DecisionInputs{
				CurrentBudget: currentBudget,
				TodaySpend:    todaySpend,
			}))
			continue
		}

		utilization := todaySpend / currentBudget * 100

		inputs := &domain.DecisionInputs{
			CurrentBudget:      currentBudget,
			TodaySpend:         todaySpend,
			UtilizationPercent: utils.RoundWithTwoDecimalPlace(utilization),
		}

		if utilization < req.Scaling.ThresholdPercent {
			decisions = append(decisions, domain.NoAction(RuleBudgetScaling, campaign, domain.ReasonBelowThreshold, inputs))
			continue
		}

		desired := scaledBudgetMicros(campaign.BudgetMicros, req.Scaling.IncreasePercent)

		// Aumentos sucessivos compõem entre execuções agendadas; deixar
		// rastro para o operador acompanhar a composição
		logrus.WithFields(logrus.Fields{
			"campaign":    campaign.Name,
			"utilization": inputs.UtilizationPercent,
			"budget":      campaign.BudgetMicros,
			"new_budget":  desired,
		}).Warn("Orçamento da campanha será escalado")

		decisions = append(decisions, domain.Decision{
			Rule:                RuleBudgetScaling,
			Kind:                campaign.Kind,
			EntityID:            campaign.ID,
			EntityName:          campaign.Name,
			ResourceName:        campaign.BudgetResourceName,
			Action:              domain.DecisionChange,
			DesiredBudgetMicros: desired,
			Inputs:              inputs,
		})
	}

	return decisions, nil
}

// Resolve mapeia cada decisão CHANGE em um UPDATE do orçamento da campanha.
func (r *BudgetScalingRule) Resolve(_ context.Context, _ StateReader, _ domain.ManagedAccount, _ *domain.RunRequest, decisions []domain.Decision) ([]domain.Decision, []domain.MutationOperation, []domain.EntityError, error) {
	var operations []domain.MutationOperation

	for _, d := range decisions {
		if !d.IsChange() {
			continue
		}

		operations = append(operations, domain.NewUpdate(domain.ResourceCampaignBudgets, d.ResourceName, "amountMicros", domain.Fields{
			"amountMicros": d.DesiredBudgetMicros,
		}))
	}

	return decisions, operations, nil, nil
}

// scaledBudgetMicros aplica o percentual de aumento e arredonda para o
// centavo mais próximo.
func scaledBudgetMicros(current int64, increasePercent float64) int64 {
	scaled := float64(current) * (1 + increasePercent/100)
	return int64(math.Round(scaled/microsPerCent)) * microsPerCent
}
