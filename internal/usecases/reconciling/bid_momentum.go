package reconciling

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// Tolerância para considerar um modificador remoto igual ao desejado; o
// modificador é arredondado a três casas decimais antes do envio.
const modifierEpsilon = 0.0005

// BidMomentumRule aplica ajustes de lance sazonais com base no momentum da
// taxa de conversão de hoje contra ontem. Só campanhas que casam com um
// filtro configurado são avaliadas; o ajuste vale do momento da execução até
// o fim do dia no fuso operacional da conta, para não expirar prematuramente
// perto da meia-noite.
type BidMomentumRule struct {
	defaults domain.MomentumParams
	nowFn    func() time.Time
}

// NewBidMomentumRule cria a regra com os parâmetros padrão da configuração
// global.
func NewBidMomentumRule(defaults domain.MomentumParams) *BidMomentumRule {
	return &BidMomentumRule{defaults: defaults, nowFn: time.Now}
}

func (r *BidMomentumRule) Name() string { return RuleBidMomentum }

// Validate exige guardas numéricas não negativas e um teto de ajuste positivo.
func (r *BidMomentumRule) Validate(req *domain.RunRequest) error {
	params := r.effectiveParams(domain.ManagedAccount{}, req)

	if params.MinClicksRequired < 0 {
		return domain.NewConfigurationError("min_clicks_required", fmt.Sprintf("valor inválido: %d", params.MinClicksRequired))
	}

	if params.MaxAdjustmentPercent <= 0 {
		return domain.NewConfigurationError("max_adjustment_percent", fmt.Sprintf("valor inválido: %v", params.MaxAdjustmentPercent))
	}

	return nil
}

// ReadState lê as campanhas habilitadas, filtra as que casam com os filtros
// configurados e lê as métricas de hoje e de ontem de cada uma. Campanhas que
// casam com mais de um filtro entram uma única vez.
func (r *BidMomentumRule) ReadState(ctx context.Context, reader StateReader, account domain.ManagedAccount, req *domain.RunRequest) (*State, error) {
	state := NewState()

	now := r.nowFn().In(account.Location())
	state.Today = now.Format(time.DateOnly)
	state.Yesterday = now.AddDate(0, 0, -1).Format(time.DateOnly)

	campaigns, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCampaign, domain.EntityFilter{
		Statuses: []string{domain.StatusEnabled},
	})
	if err != nil {
		return nil, err
	}

	params := r.effectiveParams(account, req)
	matched := matchCampaigns(campaigns, params.Filters)
	state.Entities = matched

	for _, campaign := range matched {
		for _, date := range []string{state.Today, state.Yesterday} {
			metrics, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCampaignMetrics, domain.EntityFilter{
				CampaignID: campaign.ID,
				Date:       date,
			})
			if err != nil {
				return nil, err
			}

			state.Related[domain.EntityKindCampaignMetrics] = append(state.Related[domain.EntityKindCampaignMetrics], metrics...)
		}
	}

	return state, nil
}

// Evaluate aplica as guardas na ordem fixa e calcula o modificador desejado.
// Primeiro a amostra mínima de cliques de hoje, depois a magnitude mínima da
// variação; só então o ajuste, limitado ao teto configurado.
func (r *BidMomentumRule) Evaluate(state *State, account domain.ManagedAccount, req *domain.RunRequest) ([]domain.Decision, []domain.EntityError) {
	params := r.effectiveParams(account, req)

	metricsByKey := make(map[string]*domain.EntityMetrics)
	for _, m := range state.Related[domain.EntityKindCampaignMetrics] {
		if m.Metrics != nil {
			metricsByKey[m.ID+"|"+m.Date] = m.Metrics
		}
	}

	decisions := make([]domain.Decision, 0, len(state.Entities))

	for _, campaign := range state.Entities {
		today := metricsByKey[campaign.ID+"|"+state.Today]
		yesterday := metricsByKey[campaign.ID+"|"+state.Yesterday]

		// Dias sem linha de métrica contam como zero, igual a um dia sem tráfego
		if today == nil {
			today = &domain.EntityMetrics{}
		}
		if yesterday == nil {
			yesterday = &domain.EntityMetrics{}
		}

		changePercent := 0.0
		if yesterday.ConversionRate > 0 {
			changePercent = (today.ConversionRate - yesterday.ConversionRate) / yesterday.ConversionRate * 100
		}

		inputs := &domain.DecisionInputs{
			TodayClicks:   today.Clicks,
			TodayRate:     today.ConversionRate,
			YesterdayRate: yesterday.ConversionRate,
			ChangePercent: changePercent,
		}

		if today.Clicks < params.MinClicksRequired {
			decisions = append(decisions, domain.NoAction(RuleBidMomentum, campaign, domain.ReasonInsufficientData, inputs))
			continue
		}

		if changePercent < params.MinChangePercent {
			decisions = append(decisions, domain.NoAction(RuleBidMomentum, campaign, domain.ReasonChangeTooSmall, inputs))
			continue
		}

		adjustment := math.Min(changePercent, params.MaxAdjustmentPercent)
		modifier := roundModifier(1 + adjustment/100)

		decisions = append(decisions, domain.Decision{
			Rule:            RuleBidMomentum,
			Kind:            campaign.Kind,
			EntityID:        campaign.ID,
			EntityName:      campaign.Name,
			ResourceName:    campaign.ResourceName,
			Action:          domain.DecisionChange,
			DesiredModifier: modifier,
			Inputs:          inputs,
		})
	}

	return decisions, nil
}

// Resolve faz o upsert de cada ajuste: procura o ajuste sazonal existente
// pelo nome sintetizado (identidade determinística derivada de conta e
// campanha) e emite UPDATE quando encontra ou CREATE quando não. A consulta é
// feita a cada execução, sem cache, porque o remoto é a única fonte de
// verdade e pode ter sido alterado por fora. Falhas de consulta ficam
// limitadas à entidade; as irmãs continuam.
func (r *BidMomentumRule) Resolve(ctx context.Context, reader StateReader, account domain.ManagedAccount, _ *domain.RunRequest, decisions []domain.Decision) ([]domain.Decision, []domain.MutationOperation, []domain.EntityError, error) {
	var (
		operations   []domain.MutationOperation
		entityErrors []domain.EntityError
	)

	now := r.nowFn().In(account.Location())
	startDateTime := now.Format("2006-01-02 15:04:05")
	endDateTime := now.Format(time.DateOnly) + " 23:59:59"

	resolved := make([]domain.Decision, 0, len(decisions))

	for _, d := range decisions {
		if !d.IsChange() {
			resolved = append(resolved, d)
			continue
		}

		adjustmentName := BidAdjustmentName(account, d.EntityName)

		existing, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindBidAdjustment, domain.EntityFilter{
			Name: adjustmentName,
		})
		if err != nil {
			entityErrors = append(entityErrors, domain.EntityError{
				EntityID:   d.EntityID,
				EntityName: d.EntityName,
				Reason:     err.Error(),
			})
			continue
		}

		description := fmt.Sprintf("Today vs Yesterday: %.2f%% change", d.Inputs.ChangePercent)

		if len(existing) > 0 {
			current := existing[0]

			if math.Abs(current.Modifier-d.DesiredModifier) < modifierEpsilon {
				resolved = append(resolved, domain.NoAction(RuleBidMomentum, domain.EntityRecord{
					Kind:         d.Kind,
					ID:           d.EntityID,
					Name:         d.EntityName,
					ResourceName: current.ResourceName,
				}, domain.ReasonAlreadyDesired, d.Inputs))
				continue
			}

			operations = append(operations, domain.NewUpdate(
				domain.ResourceBidAdjustments,
				current.ResourceName,
				"conversionRateModifier,startDateTime,endDateTime,description",
				domain.Fields{
					"conversionRateModifier": d.DesiredModifier,
					"startDateTime":          startDateTime,
					"endDateTime":            endDateTime,
					"description":            description + " - Updated " + startDateTime,
				},
			))

			d.ResourceName = current.ResourceName
			resolved = append(resolved, d)
			continue
		}

		operations = append(operations, domain.NewCreate(domain.ResourceBidAdjustments, domain.Fields{
			"name":                   adjustmentName,
			"scope":                  "CAMPAIGN",
			"campaigns":              []string{fmt.Sprintf("customers/%s/campaigns/%s", account.ID, d.EntityID)},
			"startDateTime":          startDateTime,
			"endDateTime":            endDateTime,
			"conversionRateModifier": d.DesiredModifier,
			"description":            description,
		}))

		resolved = append(resolved, d)
	}

	return resolved, operations, entityErrors, nil
}

// BidAdjustmentName sintetiza o nome determinístico do ajuste sazonal de uma
// campanha, a chave de identidade do upsert.
func BidAdjustmentName(account domain.ManagedAccount, campaignName string) string {
	return fmt.Sprintf("Auto SBA %s - %s", account.Country, campaignName)
}

func (r *BidMomentumRule) effectiveParams(account domain.ManagedAccount, req *domain.RunRequest) domain.MomentumParams {
	params := req.Momentum

	if params.MinClicksRequired == 0 {
		params.MinClicksRequired = r.defaults.MinClicksRequired
	}
	if params.MinChangePercent == 0 {
		params.MinChangePercent = r.defaults.MinChangePercent
	}
	if params.MaxAdjustmentPercent == 0 {
		params.MaxAdjustmentPercent = r.defaults.MaxAdjustmentPercent
	}

	if len(params.Filters) == 0 {
		if account.Overrides != nil && len(account.Overrides.MomentumFilters) > 0 {
			params.Filters = account.Overrides.MomentumFilters
		} else {
			params.Filters = r.defaults.Filters
		}
	}

	return params
}

// matchCampaigns seleciona as campanhas que casam com algum filtro habilitado,
// na ordem de configuração dos filtros, sem duplicatas.
func matchCampaigns(campaigns []domain.EntityRecord, filters []domain.MomentumFilter) []domain.EntityRecord {
	var matched []domain.EntityRecord
	seen := make(map[string]bool)

	for _, filter := range filters {
		if !filter.Enabled {
			continue
		}

		for _, campaign := range campaigns {
			if seen[campaign.ID] {
				continue
			}

			if domain.Contains(filter.Contains).Matches(campaign) {
				seen[campaign.ID] = true
				matched = append(matched, campaign)
			}
		}
	}

	return matched
}

func roundModifier(m float64) float64 {
	return math.Round(m*1000) / 1000
}
