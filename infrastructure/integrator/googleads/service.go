package googleads

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/adsclient"
	adsdomain "github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-automation-api/internal/config"
	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// GoogleAdsIntegrator traduz o estado remoto das contas para os registros do
// domínio e aplica as mutações computadas pelas regras.
type GoogleAdsIntegrator struct {
	cfg    *config.Config
	Client adsclient.Client
}

func New(cfg *config.Config, client adsclient.Client) *GoogleAdsIntegrator {
	return &GoogleAdsIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// ReadEntities busca o estado atual das entidades de um tipo na conta.
func (s *GoogleAdsIntegrator) ReadEntities(ctx context.Context, accountID string, kind domain.EntityKind, filter domain.EntityFilter) ([]domain.EntityRecord, error) {
	query, err := buildQuery(kind, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.Client.Search(ctx, accountID, query)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"kind":       kind,
			"error":      err.Error(),
		}).Error("googleads: failed to search entities")
		return nil, domain.NewTransportError("search", accountID, err)
	}

	records := make([]domain.EntityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, parseRow(kind, row))
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"kind":       kind,
		"total":      len(records),
	}).Debug("googleads: entities retrieved")

	return records, nil
}

// ApplyMutations envia um lote de operações para o recurso da conta. Lote
// vazio não gera chamada de rede.
func (s *GoogleAdsIntegrator) ApplyMutations(ctx context.Context, accountID string, resource domain.ResourceKind, operations []domain.MutationOperation) error {
	if len(operations) == 0 {
		return nil
	}

	if err := s.Client.Mutate(ctx, accountID, resource, operations); err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"resource":   resource,
			"total":      len(operations),
			"error":      err.Error(),
		}).Error("googleads: failed to apply mutations")
		return domain.NewTransportError("mutate", accountID, err)
	}

	return nil
}

// buildQuery monta a consulta GAQL de um tipo de entidade com o filtro dado.
func buildQuery(kind domain.EntityKind, filter domain.EntityFilter) (string, error) {
	switch kind {
	case domain.EntityKindAssetGroup:
		query := "SELECT asset_group.id, asset_group.name, asset_group.status, asset_group.resource_name, " +
			"campaign.id, campaign.name FROM asset_group"
		// Asset groups de campanhas fora do ar não aceitam mutação
		clauses := []string{
			"campaign.advertising_channel_type = 'PERFORMANCE_MAX'",
			"campaign.status = 'ENABLED'",
		}
		if len(filter.Statuses) > 0 {
			clauses = append(clauses, fmt.Sprintf("asset_group.status IN (%s)", statusList(filter.Statuses)))
		}
		return query + whereClause(clauses), nil

	case domain.EntityKindCampaign:
		query := "SELECT campaign.id, campaign.name, campaign.status, campaign.resource_name"
		if filter.WithBudget {
			query += ", campaign_budget.resource_name, campaign_budget.amount_micros"
		}
		query += " FROM campaign"
		clauses := []string{}
		if filter.ChannelType != "" {
			clauses = append(clauses, fmt.Sprintf("campaign.advertising_channel_type = '%s'", escapeGAQL(filter.ChannelType)))
		}
		if len(filter.Statuses) > 0 {
			clauses = append(clauses, fmt.Sprintf("campaign.status IN (%s)", statusList(filter.Statuses)))
		}
		if filter.ExcludeRemoved {
			clauses = append(clauses, "campaign.status != 'REMOVED'")
		}
		return query + whereClause(clauses), nil

	case domain.EntityKindCampaignMetrics:
		if filter.Date == "" {
			return "", domain.NewConfigurationError("date", "métricas de campanha exigem uma data")
		}
		query := "SELECT campaign.id, campaign.name, metrics.clicks, metrics.conversions, " +
			"metrics.cost_micros, metrics.conversions_from_interactions_rate, segments.date FROM campaign"
		clauses := []string{fmt.Sprintf("segments.date = '%s'", escapeGAQL(filter.Date))}
		if filter.CampaignID != "" {
			clauses = append(clauses, fmt.Sprintf("campaign.id = %s", escapeGAQL(filter.CampaignID)))
		}
		if len(filter.Statuses) > 0 {
			clauses = append(clauses, fmt.Sprintf("campaign.status IN (%s)", statusList(filter.Statuses)))
		}
		return query + whereClause(clauses), nil

	case domain.EntityKindBidAdjustment:
		query := "SELECT bidding_seasonality_adjustment.resource_name, bidding_seasonality_adjustment.name, " +
			"bidding_seasonality_adjustment.conversion_rate_modifier FROM bidding_seasonality_adjustment"
		clauses := []string{}
		if filter.Name != "" {
			clauses = append(clauses, fmt.Sprintf("bidding_seasonality_adjustment.name = '%s'", escapeGAQL(filter.Name)))
		}
		return query + whereClause(clauses), nil

	case domain.EntityKindCustomizerAttribute:
		query := "SELECT customizer_attribute.id, customizer_attribute.name, " +
			"customizer_attribute.resource_name FROM customizer_attribute"
		clauses := []string{"customizer_attribute.status = 'ENABLED'"}
		return query + whereClause(clauses), nil

	case domain.EntityKindCustomerCustomizer:
		query := "SELECT customer_customizer.resource_name, customer_customizer.customizer_attribute, " +
			"customer_customizer.value FROM customer_customizer"
		clauses := []string{"customer_customizer.status = 'ENABLED'"}
		return query + whereClause(clauses), nil
	}

	return "", domain.NewConfigurationError("kind", fmt.Sprintf("tipo de entidade desconhecido: %s", kind))
}

// parseRow converte uma linha da resposta no registro de domínio do tipo.
func parseRow(kind domain.EntityKind, row adsdomain.Row) domain.EntityRecord {
	record := domain.EntityRecord{Kind: kind}

	switch kind {
	case domain.EntityKindAssetGroup:
		if row.AssetGroup != nil {
			record.ID = row.AssetGroup.ID
			record.Name = row.AssetGroup.Name
			record.Status = row.AssetGroup.Status
			record.ResourceName = row.AssetGroup.ResourceName
		}
		if row.Campaign != nil {
			record.ParentID = row.Campaign.ID
			record.ParentName = row.Campaign.Name
		}

	case domain.EntityKindCampaign:
		if row.Campaign != nil {
			record.ID = row.Campaign.ID
			record.Name = row.Campaign.Name
			record.Status = row.Campaign.Status
			record.ResourceName = row.Campaign.ResourceName
		}
		if row.CampaignBudget != nil {
			record.BudgetResourceName = row.CampaignBudget.ResourceName
			record.BudgetMicros = parseMicros(row.CampaignBudget.AmountMicros)
		}

	case domain.EntityKindCampaignMetrics:
		if row.Campaign != nil {
			record.ID = row.Campaign.ID
			record.Name = row.Campaign.Name
		}
		if row.Segments != nil {
			record.Date = row.Segments.Date
		}
		if row.Metrics != nil {
			record.Metrics = &domain.EntityMetrics{
				Clicks:         parseMicros(row.Metrics.Clicks),
				Conversions:    row.Metrics.Conversions,
				CostMicros:     parseMicros(row.Metrics.CostMicros),
				ConversionRate: row.Metrics.ConversionsFromInteractionsRate,
			}
		}

	case domain.EntityKindBidAdjustment:
		if row.BiddingSeasonalityAdjustment != nil {
			record.Name = row.BiddingSeasonalityAdjustment.Name
			record.ResourceName = row.BiddingSeasonalityAdjustment.ResourceName
			record.Modifier = row.BiddingSeasonalityAdjustment.ConversionRateModifier
		}

	case domain.EntityKindCustomizerAttribute:
		if row.CustomizerAttribute != nil {
			record.ID = row.CustomizerAttribute.ID
			record.Name = row.CustomizerAttribute.Name
			record.ResourceName = row.CustomizerAttribute.ResourceName
		}

	case domain.EntityKindCustomerCustomizer:
		if row.CustomerCustomizer != nil {
			record.ResourceName = row.CustomerCustomizer.ResourceName
			record.AttributeRef = row.CustomerCustomizer.CustomizerAttribute
			if row.CustomerCustomizer.Value != nil {
				record.Value = row.CustomerCustomizer.Value.StringValue
			}
		}
	}

	return record
}

// parseMicros converte um inteiro serializado como string; valores ausentes
// ou inválidos viram zero.
func parseMicros(value string) int64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logrus.WithField("value", value).Warn("googleads: invalid integer in API response")
		return 0
	}
	return parsed
}

func statusList(statuses []string) string {
	quoted := make([]string, 0, len(statuses))
	for _, status := range statuses {
		quoted = append(quoted, fmt.Sprintf("'%s'", escapeGAQL(status)))
	}
	return strings.Join(quoted, ", ")
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// escapeGAQL escapa aspas simples em valores interpolados nas consultas
func escapeGAQL(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}
