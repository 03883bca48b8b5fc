package reconciling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling/mocks"
	"go.uber.org/mock/gomock"
)

func fleetAccounts() []domain.ManagedAccount {
	return []domain.ManagedAccount{
		{ID: "1111111111", Country: "DE", Timezone: "Europe/Berlin"},
		{ID: "2222222222", Country: "PL", Timezone: "Europe/Warsaw"},
	}
}

func newTestFleet(reader StateReader, writer MutationWriter) *Fleet {
	return NewFleet(FleetConfig{
		Accounts:              fleetAccounts(),
		MaxConcurrentAccounts: 2,
	}, reader, writer, NewSaleToggleRule(defaultToggleTargets()), NewBudgetScalingRule())
}

func expectEmptySaleToggleReads(reader *mocks.MockStateReader, accountID string) {
	reader.EXPECT().
		ReadEntities(gomock.Any(), accountID, domain.EntityKindAssetGroup, gomock.Any()).
		Return(nil, nil)
	reader.EXPECT().
		ReadEntities(gomock.Any(), accountID, domain.EntityKindCampaign, gomock.Any()).
		Return(nil, nil)
}

func TestFleet_Run(t *testing.T) {
	req := func() *domain.RunRequest {
		return &domain.RunRequest{Mode: domain.ToggleModeStart, DryRun: true}
	}

	t.Run("Família de regra desconhecida é rejeitada antes de qualquer pipeline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fleet := newTestFleet(mocks.NewMockStateReader(ctrl), mocks.NewMockMutationWriter(ctrl))

		response, err := fleet.Run(context.Background(), "campaign-cloning", req())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownRule)
		assert.Nil(t, response)
	})

	t.Run("Parâmetros inválidos falham a execução inteira", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fleet := newTestFleet(mocks.NewMockStateReader(ctrl), mocks.NewMockMutationWriter(ctrl))

		response, err := fleet.Run(context.Background(), RuleSaleToggle, &domain.RunRequest{Mode: "invalid"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Nil(t, response)
	})

	t.Run("Seleção que não casa com nenhuma conta configurada é rejeitada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fleet := newTestFleet(mocks.NewMockStateReader(ctrl), mocks.NewMockMutationWriter(ctrl))

		request := req()
		request.AccountIDs = []string{"9999999999"}

		response, err := fleet.Run(context.Background(), RuleSaleToggle, request)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Nil(t, response)
	})

	t.Run("Todas as contas configuradas participam quando a seleção é vazia", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		expectEmptySaleToggleReads(reader, "1111111111")
		expectEmptySaleToggleReads(reader, "2222222222")

		fleet := newTestFleet(reader, mocks.NewMockMutationWriter(ctrl))

		response, err := fleet.Run(context.Background(), RuleSaleToggle, req())

		require.NoError(t, err)
		assert.NotEmpty(t, response.RunID)
		assert.Equal(t, RuleSaleToggle, response.Rule)
		assert.Equal(t, 2, response.Summary.Accounts)
		require.Len(t, response.Details, 2)

		// A ordem de configuração das contas é preservada no detalhe
		assert.Equal(t, "1111111111", response.Details[0].AccountID)
		assert.Equal(t, "2222222222", response.Details[1].AccountID)
	})

	t.Run("Seleção explícita limita a execução às contas pedidas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		expectEmptySaleToggleReads(reader, "2222222222")

		fleet := newTestFleet(reader, mocks.NewMockMutationWriter(ctrl))

		request := req()
		request.AccountIDs = []string{"2222222222"}

		response, err := fleet.Run(context.Background(), RuleSaleToggle, request)

		require.NoError(t, err)
		assert.Equal(t, 1, response.Summary.Accounts)
		require.Len(t, response.Details, 1)
		assert.Equal(t, "2222222222", response.Details[0].AccountID)
	})

	t.Run("Falha de transporte em uma conta não derruba as irmãs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1111111111", domain.EntityKindAssetGroup, gomock.Any()).
			Return(nil, domain.NewTransportError("search", "1111111111", errors.New("quota exceeded")))
		expectEmptySaleToggleReads(reader, "2222222222")

		fleet := newTestFleet(reader, mocks.NewMockMutationWriter(ctrl))

		response, err := fleet.Run(context.Background(), RuleSaleToggle, req())

		require.NoError(t, err)
		require.Len(t, response.Details, 2)

		failed := response.Details[0]
		assert.Equal(t, domain.StageFailed, failed.Stage)
		assert.Equal(t, domain.StageReadState, failed.FailedStage)
		assert.Contains(t, failed.Error, "quota exceeded")

		assert.Equal(t, domain.StageDone, response.Details[1].Stage)
		assert.Equal(t, 1, response.Summary.Errors)
	})

	t.Run("Prazo da frota expirado preserva os resultados das contas já completas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		expectEmptySaleToggleReads(reader, "1111111111")

		// A leitura da segunda conta bloqueia até o prazo da frota expirar
		reader.EXPECT().
			ReadEntities(gomock.Any(), "2222222222", domain.EntityKindAssetGroup, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ domain.EntityKind, _ domain.EntityFilter) ([]domain.EntityRecord, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		fleet := NewFleet(FleetConfig{
			Accounts:              fleetAccounts(),
			MaxConcurrentAccounts: 2,
			RunTimeout:            50 * time.Millisecond,
		}, reader, mocks.NewMockMutationWriter(ctrl), NewSaleToggleRule(defaultToggleTargets()))

		response, err := fleet.Run(context.Background(), RuleSaleToggle, req())

		require.NoError(t, err)
		require.Len(t, response.Details, 2)

		// A conta rápida termina antes do prazo e mantém o resultado
		assert.Equal(t, domain.StageDone, response.Details[0].Stage)

		blocked := response.Details[1]
		assert.Equal(t, domain.StageFailed, blocked.Stage)
		assert.Equal(t, domain.StageReadState, blocked.FailedStage)
		assert.Contains(t, blocked.Error, context.DeadlineExceeded.Error())
		assert.Equal(t, 1, response.Summary.Errors)
	})

	t.Run("Resumo agrega decisões aplicadas, puladas e erros de entidade", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1111111111", domain.EntityKindAssetGroup, gomock.Any()).
			Return([]domain.EntityRecord{
				{
					Kind:         domain.EntityKindAssetGroup,
					ID:           "1",
					Name:         "Summer SALE",
					Status:       domain.StatusPaused,
					ResourceName: "customers/1111111111/assetGroups/1",
				},
				{
					Kind:         domain.EntityKindAssetGroup,
					ID:           "2",
					Name:         "Brand Awareness",
					Status:       domain.StatusEnabled,
					ResourceName: "customers/1111111111/assetGroups/2",
				},
			}, nil)
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1111111111", domain.EntityKindCampaign, gomock.Any()).
			Return(nil, nil)
		expectEmptySaleToggleReads(reader, "2222222222")

		fleet := newTestFleet(reader, mocks.NewMockMutationWriter(ctrl))

		response, err := fleet.Run(context.Background(), RuleSaleToggle, req())

		require.NoError(t, err)
		assert.Equal(t, 2, response.Summary.Processed)
		assert.Equal(t, 1, response.Summary.Applied)
		assert.Equal(t, 1, response.Summary.Skipped)
		assert.Zero(t, response.Summary.Errors)
	})
}

func TestFleet_Rule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fleet := newTestFleet(mocks.NewMockStateReader(ctrl), mocks.NewMockMutationWriter(ctrl))

	rule, err := fleet.Rule(RuleBudgetScaling)
	require.NoError(t, err)
	assert.Equal(t, RuleBudgetScaling, rule.Name())

	_, err = fleet.Rule("does-not-exist")
	assert.ErrorIs(t, err, domain.ErrUnknownRule)
}
