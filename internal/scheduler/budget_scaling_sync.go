package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/config"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling"
)

// BudgetScalingSyncConfig representa a configuração do agendador de escala de orçamento
type BudgetScalingSyncConfig struct {
	CronSchedule     string
	ThresholdPercent float64
	IncreasePercent  float64
	DryRun           bool
	SyncEnabled      bool
}

// BudgetScalingSyncService gerencia o agendamento e execução da escala de
// orçamento em todas as contas gerenciadas
type BudgetScalingSyncService struct {
	scheduler           *gocron.Scheduler
	config              BudgetScalingSyncConfig
	fleet               *reconciling.Fleet
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
}

// NewBudgetScalingSyncService cria uma nova instância do serviço de escala de orçamento
func NewBudgetScalingSyncService(fleet *reconciling.Fleet, appConfig *config.Config) *BudgetScalingSyncService {
	scalingConfig := BudgetScalingSyncConfig{
		CronSchedule:     appConfig.BudgetScaling.CronSchedule,
		ThresholdPercent: appConfig.BudgetScaling.ThresholdPercent,
		IncreasePercent:  appConfig.BudgetScaling.IncreasePercent,
		DryRun:           appConfig.BudgetScaling.DryRun,
		SyncEnabled:      appConfig.BudgetScaling.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":     scalingConfig.CronSchedule,
		"threshold_percent": scalingConfig.ThresholdPercent,
		"increase_percent":  scalingConfig.IncreasePercent,
		"dry_run":           scalingConfig.DryRun,
		"sync_enabled":      scalingConfig.SyncEnabled,
	}).Info("Configuração do agendador de escala de orçamento carregada")

	return &BudgetScalingSyncService{
		scheduler:   scheduler,
		config:      scalingConfig,
		fleet:       fleet,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *BudgetScalingSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Escala de orçamento agendada desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de escala de orçamento")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllAccounts(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar escala de orçamento: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de escala de orçamento")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllAccounts executa a regra de escala de orçamento em todas as contas
func (s *BudgetScalingSyncService) syncAllAccounts(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Escala de orçamento já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando escala de orçamento para todas as contas gerenciadas")

	req := &domain.RunRequest{
		DryRun: s.config.DryRun,
		Scaling: domain.ScalingParams{
			ThresholdPercent: s.config.ThresholdPercent,
			IncreasePercent:  s.config.IncreasePercent,
		},
	}

	resp, err := s.fleet.Run(ctx, reconciling.RuleBudgetScaling, req)
	if err != nil {
		logrus.WithError(err).Error("Erro na execução agendada da escala de orçamento")
		return
	}

	s.lastRunID = resp.RunID

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"run_id":   resp.RunID,
		"duration": duration.String(),
		"accounts": resp.Summary.Accounts,
		"applied":  resp.Summary.Applied,
		"skipped":  resp.Summary.Skipped,
		"errors":   resp.Summary.Errors,
	}).Info("Escala de orçamento concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma escala de orçamento
func (s *BudgetScalingSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Escala de orçamento já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando escala de orçamento manual")
	go s.syncAllAccounts(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *BudgetScalingSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"threshold_percent":      s.config.ThresholdPercent,
		"increase_percent":       s.config.IncreasePercent,
		"dry_run":                s.config.DryRun,
		"last_run_id":            s.lastRunID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
