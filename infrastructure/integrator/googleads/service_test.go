package googleads

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/adsclient/mocks"
	adsdomain "github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-automation-api/internal/config"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.EntityKind
		filter   domain.EntityFilter
		want     string
		wantErr  bool
	}{
		{
			name: "Asset groups de Performance Max com filtro de status",
			kind: domain.EntityKindAssetGroup,
			filter: domain.EntityFilter{
				Statuses: []string{"ENABLED", "PAUSED"},
			},
			want: "SELECT asset_group.id, asset_group.name, asset_group.status, asset_group.resource_name, " +
				"campaign.id, campaign.name FROM asset_group " +
				"WHERE campaign.advertising_channel_type = 'PERFORMANCE_MAX' " +
				"AND campaign.status = 'ENABLED' " +
				"AND asset_group.status IN ('ENABLED', 'PAUSED')",
		},
		{
			name: "Asset groups sempre excluem campanhas fora do ar",
			kind: domain.EntityKindAssetGroup,
			want: "SELECT asset_group.id, asset_group.name, asset_group.status, asset_group.resource_name, " +
				"campaign.id, campaign.name FROM asset_group " +
				"WHERE campaign.advertising_channel_type = 'PERFORMANCE_MAX' " +
				"AND campaign.status = 'ENABLED'",
		},
		{
			name: "Campanha sem filtros não produz cláusula WHERE",
			kind: domain.EntityKindCampaign,
			want: "SELECT campaign.id, campaign.name, campaign.status, campaign.resource_name FROM campaign",
		},
		{
			name: "Campanha Demand Gen exclui as removidas",
			kind: domain.EntityKindCampaign,
			filter: domain.EntityFilter{
				ChannelType:    "DEMAND_GEN",
				ExcludeRemoved: true,
			},
			want: "SELECT campaign.id, campaign.name, campaign.status, campaign.resource_name FROM campaign " +
				"WHERE campaign.advertising_channel_type = 'DEMAND_GEN' " +
				"AND campaign.status != 'REMOVED'",
		},
		{
			name: "Campanha com orçamento inclui os campos de campaign_budget",
			kind: domain.EntityKindCampaign,
			filter: domain.EntityFilter{
				Statuses:   []string{"ENABLED"},
				WithBudget: true,
			},
			want: "SELECT campaign.id, campaign.name, campaign.status, campaign.resource_name, " +
				"campaign_budget.resource_name, campaign_budget.amount_micros FROM campaign " +
				"WHERE campaign.status IN ('ENABLED')",
		},
		{
			name: "Métricas segmentadas por data e campanha",
			kind: domain.EntityKindCampaignMetrics,
			filter: domain.EntityFilter{
				Date:       "2026-01-16",
				CampaignID: "42",
			},
			want: "SELECT campaign.id, campaign.name, metrics.clicks, metrics.conversions, " +
				"metrics.cost_micros, metrics.conversions_from_interactions_rate, segments.date FROM campaign " +
				"WHERE segments.date = '2026-01-16' AND campaign.id = 42",
		},
		{
			name:    "Métricas sem data são rejeitadas",
			kind:    domain.EntityKindCampaignMetrics,
			wantErr: true,
		},
		{
			name: "Ajuste sazonal buscado por nome exato",
			kind: domain.EntityKindBidAdjustment,
			filter: domain.EntityFilter{
				Name: "Auto SBA DE - Search_Herren_Socken",
			},
			want: "SELECT bidding_seasonality_adjustment.resource_name, bidding_seasonality_adjustment.name, " +
				"bidding_seasonality_adjustment.conversion_rate_modifier FROM bidding_seasonality_adjustment " +
				"WHERE bidding_seasonality_adjustment.name = 'Auto SBA DE - Search_Herren_Socken'",
		},
		{
			name: "Atributos de customizer sempre filtram por habilitado",
			kind: domain.EntityKindCustomizerAttribute,
			want: "SELECT customizer_attribute.id, customizer_attribute.name, " +
				"customizer_attribute.resource_name FROM customizer_attribute " +
				"WHERE customizer_attribute.status = 'ENABLED'",
		},
		{
			name:    "Tipo de entidade desconhecido é rejeitado",
			kind:    domain.EntityKind("keyword"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := buildQuery(tt.kind, tt.filter)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestEscapeGAQL(t *testing.T) {
	assert.Equal(t, "Summer Sale", escapeGAQL("Summer Sale"))
	assert.Equal(t, "O\\'Brien", escapeGAQL("O'Brien"))
}

func TestParseMicros(t *testing.T) {
	assert.Equal(t, int64(120000000), parseMicros("120000000"))
	assert.Zero(t, parseMicros(""))
	assert.Zero(t, parseMicros("not-a-number"))
}

func TestParseRow(t *testing.T) {
	t.Run("Asset group carrega a campanha dona", func(t *testing.T) {
		row := adsdomain.Row{
			AssetGroup: &adsdomain.AssetGroup{
				ID:           "42",
				Name:         "Summer SALE 2026",
				Status:       "PAUSED",
				ResourceName: "customers/1/assetGroups/42",
			},
			Campaign: &adsdomain.Campaign{ID: "7", Name: "PMax DE"},
		}

		record := parseRow(domain.EntityKindAssetGroup, row)

		assert.Equal(t, "42", record.ID)
		assert.Equal(t, "Summer SALE 2026", record.Name)
		assert.Equal(t, "PAUSED", record.Status)
		assert.Equal(t, "7", record.ParentID)
		assert.Equal(t, "PMax DE", record.ParentName)
	})

	t.Run("Campanha carrega o orçamento vinculado", func(t *testing.T) {
		row := adsdomain.Row{
			Campaign: &adsdomain.Campaign{ID: "7", Name: "Search_Herren_Socken"},
			CampaignBudget: &adsdomain.CampaignBudget{
				ResourceName: "customers/1/campaignBudgets/9",
				AmountMicros: "120000000",
			},
		}

		record := parseRow(domain.EntityKindCampaign, row)

		assert.Equal(t, "customers/1/campaignBudgets/9", record.BudgetResourceName)
		assert.Equal(t, int64(120000000), record.BudgetMicros)
	})

	t.Run("Métricas convertem os inteiros serializados como string", func(t *testing.T) {
		row := adsdomain.Row{
			Campaign: &adsdomain.Campaign{ID: "7"},
			Segments: &adsdomain.Segments{Date: "2026-01-16"},
			Metrics: &adsdomain.Metrics{
				Clicks:                          "135",
				Conversions:                     12,
				CostMicros:                      "80000000",
				ConversionsFromInteractionsRate: 0.089,
			},
		}

		record := parseRow(domain.EntityKindCampaignMetrics, row)

		assert.Equal(t, "2026-01-16", record.Date)
		require.NotNil(t, record.Metrics)
		assert.Equal(t, int64(135), record.Metrics.Clicks)
		assert.Equal(t, int64(80000000), record.Metrics.CostMicros)
		assert.Equal(t, 0.089, record.Metrics.ConversionRate)
	})

	t.Run("Customizer de conta carrega o valor textual", func(t *testing.T) {
		row := adsdomain.Row{
			CustomerCustomizer: &adsdomain.CustomerCustomizer{
				ResourceName:        "customers/1/customerCustomizers/100",
				CustomizerAttribute: "customers/1/customizerAttributes/100",
				Value:               &adsdomain.CustomizerValue{Type: "TEXT", StringValue: "SALE: bis zu 50%"},
			},
		}

		record := parseRow(domain.EntityKindCustomerCustomizer, row)

		assert.Equal(t, "customers/1/customizerAttributes/100", record.AttributeRef)
		assert.Equal(t, "SALE: bis zu 50%", record.Value)
	})

	t.Run("Linha sem os campos do tipo produz registro vazio", func(t *testing.T) {
		record := parseRow(domain.EntityKindAssetGroup, adsdomain.Row{})

		assert.Equal(t, domain.EntityKindAssetGroup, record.Kind)
		assert.Empty(t, record.ID)
	})
}

func TestGoogleAdsIntegrator_ReadEntities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := New(&config.Config{}, client)

	t.Run("Linhas retornadas viram registros do domínio", func(t *testing.T) {
		client.EXPECT().
			Search(gomock.Any(), "1234567890", gomock.Any()).
			Return([]adsdomain.Row{
				{Campaign: &adsdomain.Campaign{ID: "7", Name: "Search_Herren_Socken", Status: "ENABLED"}},
			}, nil)

		records, err := service.ReadEntities(context.Background(), "1234567890", domain.EntityKindCampaign, domain.EntityFilter{})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Search_Herren_Socken", records[0].Name)
	})

	t.Run("Falha da busca vira erro de transporte com a conta", func(t *testing.T) {
		client.EXPECT().
			Search(gomock.Any(), "1234567890", gomock.Any()).
			Return(nil, errors.New("quota exceeded"))

		_, err := service.ReadEntities(context.Background(), "1234567890", domain.EntityKindCampaign, domain.EntityFilter{})

		require.Error(t, err)
		assert.True(t, domain.IsTransportError(err))
		assert.Contains(t, err.Error(), "1234567890")
	})

	t.Run("Filtro inválido é rejeitado antes de qualquer chamada", func(t *testing.T) {
		_, err := service.ReadEntities(context.Background(), "1234567890", domain.EntityKindCampaignMetrics, domain.EntityFilter{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestGoogleAdsIntegrator_ApplyMutations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := New(&config.Config{}, client)

	operations := []domain.MutationOperation{
		domain.NewUpdate(domain.ResourceAssetGroups, "customers/1/assetGroups/42", "status", domain.Fields{"status": "ENABLED"}),
	}

	t.Run("Lote é enviado para o recurso da conta", func(t *testing.T) {
		client.EXPECT().
			Mutate(gomock.Any(), "1234567890", domain.ResourceAssetGroups, operations).
			Return(nil)

		assert.NoError(t, service.ApplyMutations(context.Background(), "1234567890", domain.ResourceAssetGroups, operations))
	})

	t.Run("Lote vazio não gera chamada de rede", func(t *testing.T) {
		assert.NoError(t, service.ApplyMutations(context.Background(), "1234567890", domain.ResourceAssetGroups, nil))
	})

	t.Run("Rejeição do lote vira erro de transporte", func(t *testing.T) {
		client.EXPECT().
			Mutate(gomock.Any(), "1234567890", domain.ResourceAssetGroups, operations).
			Return(errors.New("INVALID_ARGUMENT"))

		err := service.ApplyMutations(context.Background(), "1234567890", domain.ResourceAssetGroups, operations)

		require.Error(t, err)
		assert.True(t, domain.IsTransportError(err))
	})
}
