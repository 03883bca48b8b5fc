package reconciling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/pkg/utils"
)

// FleetConfig configura o orquestrador da frota.
type FleetConfig struct {
	// Accounts é o conjunto completo de contas gerenciadas, carregado uma
	// única vez na inicialização
	Accounts []domain.ManagedAccount
	// MaxConcurrentAccounts limita quantos pipelines de conta executam ao
	// mesmo tempo, porque o rate limit da plataforma é um recurso
	// compartilhado entre todas as contas
	MaxConcurrentAccounts int
	// RunTimeout limita a execução inteira da frota; contas que já
	// completaram quando o prazo expira mantêm seus resultados
	RunTimeout time.Duration
}

// Fleet orquestra um pipeline por conta configurada, de forma concorrente e
// sem dependência de ordem entre contas. A agregação acontece somente depois
// que todos os pipelines terminam (barreira de fan-out/fan-in). Erros nunca
// atravessam a fronteira de uma conta: a frota sempre devolve um resumo
// completo com o detalhe de erro por conta.
type Fleet struct {
	config   FleetConfig
	pipeline *Pipeline
	rules    map[string]Rule
}

// NewFleet cria o orquestrador e registra as famílias de regra.
func NewFleet(config FleetConfig, reader StateReader, writer MutationWriter, rules ...Rule) *Fleet {
	registry := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		registry[rule.Name()] = rule
	}

	return &Fleet{
		config:   config,
		pipeline: NewPipeline(reader, writer),
		rules:    registry,
	}
}

// Rule devolve a família de regra registrada com o nome dado.
func (f *Fleet) Rule(name string) (Rule, error) {
	rule, ok := f.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRule, name)
	}
	return rule, nil
}

// Run executa uma família de regra sobre a frota. Parâmetros inválidos são
// rejeitados antes de qualquer pipeline iniciar e falham a execução inteira;
// depois disso, falhas ficam confinadas às suas contas.
func (f *Fleet) Run(ctx context.Context, ruleName string, req *domain.RunRequest) (*domain.RunResponse, error) {
	rule, err := f.Rule(ruleName)
	if err != nil {
		return nil, err
	}

	if err := rule.Validate(req); err != nil {
		return nil, err
	}

	accounts := f.selectAccounts(req)
	if len(accounts) == 0 {
		return nil, domain.NewConfigurationError("account_ids", "nenhuma conta configurada corresponde à seleção")
	}

	runID, err := utils.GenerateID()
	if err != nil {
		runID = "unknown"
	}

	logger := logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"rule":     ruleName,
		"accounts": len(accounts),
		"dry_run":  req.DryRun,
	})
	logger.Info("Iniciando execução da frota")

	startTime := time.Now()

	runCtx := ctx
	if f.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, f.config.RunTimeout)
		defer cancel()
	}

	// Fan-out limitado por semáforo; cada pipeline escreve no seu próprio
	// índice, sem estado mutável compartilhado entre contas
	results := make([]domain.AccountResult, len(accounts))
	semaphore := make(chan struct{}, f.maxConcurrent())
	var wg sync.WaitGroup

	for i, account := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, acc domain.ManagedAccount) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			results[idx] = *f.pipeline.Run(runCtx, rule, acc, req)
		}(i, account)
	}

	// Barreira de fan-in: o resumo só é produzido quando todas as contas
	// alcançam um estado terminal
	wg.Wait()

	response := &domain.RunResponse{
		RunID:   runID,
		Rule:    ruleName,
		DryRun:  req.DryRun,
		Summary: summarize(results),
		Details: results,
	}

	logger.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"processed": response.Summary.Processed,
		"applied":   response.Summary.Applied,
		"skipped":   response.Summary.Skipped,
		"errors":    response.Summary.Errors,
	}).Info("Execução da frota concluída")

	return response, nil
}

func (f *Fleet) maxConcurrent() int {
	if f.config.MaxConcurrentAccounts > 0 {
		return f.config.MaxConcurrentAccounts
	}
	return len(f.config.Accounts)
}

// selectAccounts filtra as contas configuradas pela seleção da requisição,
// preservando a ordem de configuração.
func (f *Fleet) selectAccounts(req *domain.RunRequest) []domain.ManagedAccount {
	var selected []domain.ManagedAccount
	for _, account := range f.config.Accounts {
		if req.WantsAccount(account.ID) {
			selected = append(selected, account)
		}
	}
	return selected
}

// summarize agrega os totais da execução a partir dos resultados por conta.
func summarize(results []domain.AccountResult) domain.RunSummary {
	summary := domain.RunSummary{Accounts: len(results)}

	for i := range results {
		result := &results[i]

		summary.Applied += result.Applied()
		summary.Skipped += result.Skipped()
		summary.Processed += len(result.Decisions) + len(result.EntityErrors)
		summary.Errors += len(result.EntityErrors)

		if result.Error != "" {
			summary.Errors++
		}
	}

	return summary
}
