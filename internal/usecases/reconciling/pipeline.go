package reconciling

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/pkg/utils"
)

// Pipeline executa a reconciliação de uma conta como uma máquina de estados:
// READ_STATE → EVALUATE → RESOLVE → (PREVIEW | APPLY) → DONE, com um estado
// absorvente FAILED alcançável de qualquer estágio. Uma falha encerra o
// pipeline da conta imediatamente e é registrada no Account Result; nunca
// atravessa a fronteira do pipeline: o orquestrador sempre recebe um
// resultado completo, jamais um erro.
type Pipeline struct {
	reader StateReader
	writer MutationWriter
}

// NewPipeline cria um pipeline com os colaboradores de leitura e mutação.
func NewPipeline(reader StateReader, writer MutationWriter) *Pipeline {
	return &Pipeline{reader: reader, writer: writer}
}

// Run processa uma conta do início ao fim. O resultado devolvido é imutável
// a partir daqui.
func (p *Pipeline) Run(ctx context.Context, rule Rule, account domain.ManagedAccount, req *domain.RunRequest) *domain.AccountResult {
	result := &domain.AccountResult{
		AccountID: account.ID,
		Country:   account.Country,
		DryRun:    req.DryRun,
	}

	logger := logrus.WithFields(logrus.Fields{
		"rule":       rule.Name(),
		"account_id": account.ID,
		"country":    account.Country,
	})

	// READ_STATE
	if failed := p.checkContext(ctx, result, domain.StageReadState); failed {
		return result
	}

	state, err := rule.ReadState(ctx, p.reader, account, req)
	if err != nil {
		return p.fail(result, domain.StageReadState, err, logger)
	}

	// EVALUATE
	if failed := p.checkContext(ctx, result, domain.StageEvaluate); failed {
		return result
	}

	decisions, entityErrors := rule.Evaluate(state, account, req)
	result.EntityErrors = append(result.EntityErrors, entityErrors...)

	// RESOLVE
	if failed := p.checkContext(ctx, result, domain.StageResolve); failed {
		return result
	}

	resolved, operations, resolveErrors, err := rule.Resolve(ctx, p.reader, account, req, decisions)
	if err != nil {
		return p.fail(result, domain.StageResolve, err, logger)
	}

	result.Decisions = resolved
	result.Operations = operations
	result.EntityErrors = append(result.EntityErrors, resolveErrors...)

	// PREVIEW: reporta as operações sem invocar o Mutation Writer
	if req.DryRun {
		if failed := p.checkContext(ctx, result, domain.StagePreview); failed {
			return result
		}

		if len(result.Operations) > 0 {
			logger.Debugf("Operações previstas: %s", utils.PrettyJson(result.Operations))
		}

		logger.WithFields(logrus.Fields{
			"decisions":  len(result.Decisions),
			"operations": len(result.Operations),
		}).Info("Pipeline concluído em modo dry run")

		result.Stage = domain.StageDone
		return result
	}

	// APPLY: operações na ordem em que o Resolver as emitiu
	if failed := p.checkContext(ctx, result, domain.StageApply); failed {
		return result
	}

	for _, batch := range batchOperations(operations) {
		if err := p.writer.ApplyMutations(ctx, account.ID, batch.resource, batch.operations); err != nil {
			return p.fail(result, domain.StageApply, err, logger)
		}
	}

	logger.WithFields(logrus.Fields{
		"decisions":  len(result.Decisions),
		"operations": len(result.Operations),
	}).Info("Pipeline concluído")

	result.Stage = domain.StageDone
	return result
}

// fail registra o erro no resultado e move a conta para o estado FAILED.
func (p *Pipeline) fail(result *domain.AccountResult, stage domain.PipelineStage, err error, logger *logrus.Entry) *domain.AccountResult {
	logger.WithFields(logrus.Fields{
		"stage": stage,
		"error": err.Error(),
	}).Error("Pipeline da conta falhou")

	result.Stage = domain.StageFailed
	result.FailedStage = stage
	result.Error = err.Error()
	return result
}

// checkContext falha a conta quando o prazo da frota expirou antes do estágio.
func (p *Pipeline) checkContext(ctx context.Context, result *domain.AccountResult, stage domain.PipelineStage) bool {
	if err := ctx.Err(); err != nil {
		result.Stage = domain.StageFailed
		result.FailedStage = stage
		result.Error = err.Error()
		return true
	}
	return false
}

// operationBatch é um lote contíguo de operações sobre o mesmo recurso.
type operationBatch struct {
	resource   domain.ResourceKind
	operations []domain.MutationOperation
}

// batchOperations agrupa operações consecutivas do mesmo recurso, preservando
// a ordem de emissão do Resolver. Ajustes de lance sazonais vão um por
// requisição, para que a rejeição de um não derrube as operações irmãs.
func batchOperations(operations []domain.MutationOperation) []operationBatch {
	var batches []operationBatch

	for _, op := range operations {
		single := op.Resource == domain.ResourceBidAdjustments

		if len(batches) == 0 || single || batches[len(batches)-1].resource != op.Resource {
			batches = append(batches, operationBatch{resource: op.Resource})
		}

		last := &batches[len(batches)-1]
		last.operations = append(last.operations, op)
	}

	return batches
}
