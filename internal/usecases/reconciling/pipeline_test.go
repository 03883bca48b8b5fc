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

func pipelineAccount() domain.ManagedAccount {
	return domain.ManagedAccount{ID: "1234567890", Country: "DE", Timezone: "Europe/Berlin"}
}

func pipelineEntities() []domain.EntityRecord {
	return []domain.EntityRecord{
		{
			Kind:         domain.EntityKindAssetGroup,
			ID:           "42",
			Name:         "Summer SALE 2026",
			Status:       domain.StatusPaused,
			ResourceName: "customers/1234567890/assetGroups/42",
		},
	}
}

func expectSaleToggleReads(reader *mocks.MockStateReader, entities []domain.EntityRecord, err error) {
	reader.EXPECT().
		ReadEntities(gomock.Any(), "1234567890", domain.EntityKindAssetGroup, gomock.Any()).
		Return(entities, err)

	if err == nil {
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCampaign, gomock.Any()).
			Return(nil, nil)
	}
}

func TestPipeline_Run(t *testing.T) {
	rule := NewSaleToggleRule(defaultToggleTargets())
	req := &domain.RunRequest{Mode: domain.ToggleModeStart}

	t.Run("Execução completa aplica as operações e termina em DONE", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)
		expectSaleToggleReads(reader, pipelineEntities(), nil)

		writer.EXPECT().
			ApplyMutations(gomock.Any(), "1234567890", domain.ResourceAssetGroups, gomock.Len(1)).
			Return(nil)

		result := NewPipeline(reader, writer).Run(context.Background(), rule, pipelineAccount(), req)

		assert.Equal(t, domain.StageDone, result.Stage)
		assert.Empty(t, result.Error)
		assert.Len(t, result.Decisions, 1)
		assert.Len(t, result.Operations, 1)
		assert.Equal(t, 1, result.Applied())
	})

	t.Run("Dry run nunca invoca o Mutation Writer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		// Sem expectativas: qualquer chamada falha o teste
		writer := mocks.NewMockMutationWriter(ctrl)
		expectSaleToggleReads(reader, pipelineEntities(), nil)

		dryReq := &domain.RunRequest{Mode: domain.ToggleModeStart, DryRun: true}
		result := NewPipeline(reader, writer).Run(context.Background(), rule, pipelineAccount(), dryReq)

		assert.Equal(t, domain.StageDone, result.Stage)
		assert.True(t, result.DryRun)
		// As operações são reportadas mesmo sem serem aplicadas
		assert.Len(t, result.Operations, 1)
	})

	t.Run("Sem operações o Mutation Writer não é chamado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)

		entities := pipelineEntities()
		entities[0].Status = domain.StatusEnabled // já no estado desejado
		expectSaleToggleReads(reader, entities, nil)

		result := NewPipeline(reader, writer).Run(context.Background(), rule, pipelineAccount(), req)

		assert.Equal(t, domain.StageDone, result.Stage)
		assert.Empty(t, result.Operations)
		assert.Equal(t, 1, result.Skipped())
	})

	t.Run("Falha de leitura termina em FAILED no estágio READ_STATE", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)
		expectSaleToggleReads(reader, nil, domain.NewTransportError("search", "1234567890", errors.New("timeout")))

		result := NewPipeline(reader, writer).Run(context.Background(), rule, pipelineAccount(), req)

		assert.Equal(t, domain.StageFailed, result.Stage)
		assert.Equal(t, domain.StageReadState, result.FailedStage)
		assert.Contains(t, result.Error, "timeout")
	})

	t.Run("Falha de mutação termina em FAILED no estágio APPLY", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)
		expectSaleToggleReads(reader, pipelineEntities(), nil)

		writer.EXPECT().
			ApplyMutations(gomock.Any(), "1234567890", domain.ResourceAssetGroups, gomock.Any()).
			Return(domain.NewTransportError("mutate", "1234567890", errors.New("rejected")))

		result := NewPipeline(reader, writer).Run(context.Background(), rule, pipelineAccount(), req)

		assert.Equal(t, domain.StageFailed, result.Stage)
		assert.Equal(t, domain.StageApply, result.FailedStage)
	})

	t.Run("Contexto cancelado durante o RESOLVE falha o dry run no estágio PREVIEW", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)

		momentumRule := NewBidMomentumRule(momentumDefaults())
		momentumRule.nowFn = func() time.Time {
			return time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC)
		}

		reader.EXPECT().
			ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCampaign, gomock.Any()).
			Return([]domain.EntityRecord{momentumCampaign("1", "Search_Herren_Socken")}, nil)
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCampaignMetrics, domain.EntityFilter{CampaignID: "1", Date: "2026-01-16"}).
			Return([]domain.EntityRecord{momentumMetrics("1", "2026-01-16", 100, 0.12)}, nil)
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCampaignMetrics, domain.EntityFilter{CampaignID: "1", Date: "2026-01-15"}).
			Return([]domain.EntityRecord{momentumMetrics("1", "2026-01-15", 100, 0.10)}, nil)

		ctx, cancel := context.WithCancel(context.Background())

		// O prazo expira durante a consulta de upsert do RESOLVE; o estágio
		// seguinte do dry run encontra o contexto já cancelado
		reader.EXPECT().
			ReadEntities(gomock.Any(), "1234567890", domain.EntityKindBidAdjustment, gomock.Any()).
			DoAndReturn(func(context.Context, string, domain.EntityKind, domain.EntityFilter) ([]domain.EntityRecord, error) {
				cancel()
				return nil, nil
			})

		dryReq := &domain.RunRequest{DryRun: true}
		result := NewPipeline(reader, writer).Run(ctx, momentumRule, pipelineAccount(), dryReq)

		assert.Equal(t, domain.StageFailed, result.Stage)
		assert.Equal(t, domain.StagePreview, result.FailedStage)
		assert.Contains(t, result.Error, context.Canceled.Error())
	})

	t.Run("Contexto cancelado falha a conta antes de qualquer leitura", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := mocks.NewMockStateReader(ctrl)
		writer := mocks.NewMockMutationWriter(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := NewPipeline(reader, writer).Run(ctx, rule, pipelineAccount(), req)

		assert.Equal(t, domain.StageFailed, result.Stage)
		assert.Equal(t, domain.StageReadState, result.FailedStage)
	})
}

func TestBatchOperations(t *testing.T) {
	statusUpdate := func(resource domain.ResourceKind) domain.MutationOperation {
		return domain.NewUpdate(resource, "customers/1/x/1", "status", domain.Fields{"status": domain.StatusPaused})
	}

	t.Run("Operações consecutivas do mesmo recurso compartilham o lote", func(t *testing.T) {
		batches := batchOperations([]domain.MutationOperation{
			statusUpdate(domain.ResourceAssetGroups),
			statusUpdate(domain.ResourceAssetGroups),
			statusUpdate(domain.ResourceCampaigns),
		})

		require.Len(t, batches, 2)
		assert.Equal(t, domain.ResourceAssetGroups, batches[0].resource)
		assert.Len(t, batches[0].operations, 2)
		assert.Equal(t, domain.ResourceCampaigns, batches[1].resource)
	})

	t.Run("Ajustes de lance sazonais vão um por lote", func(t *testing.T) {
		batches := batchOperations([]domain.MutationOperation{
			statusUpdate(domain.ResourceBidAdjustments),
			statusUpdate(domain.ResourceBidAdjustments),
		})

		require.Len(t, batches, 2)
		assert.Len(t, batches[0].operations, 1)
		assert.Len(t, batches[1].operations, 1)
	})

	t.Run("Sem operações não há lotes", func(t *testing.T) {
		assert.Empty(t, batchOperations(nil))
	})
}
