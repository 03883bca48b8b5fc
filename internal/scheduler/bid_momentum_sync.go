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

// BidMomentumSyncConfig representa a configuração do agendador de momentum de lance
type BidMomentumSyncConfig struct {
	CronSchedule string
	DryRun       bool
	SyncEnabled  bool
}

// BidMomentumSyncService gerencia o agendamento e execução dos ajustes de
// sazonalidade de lance baseados na variação de taxa de conversão
type BidMomentumSyncService struct {
	scheduler           *gocron.Scheduler
	config              BidMomentumSyncConfig
	fleet               *reconciling.Fleet
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
}

// NewBidMomentumSyncService cria uma nova instância do serviço de momentum de lance
func NewBidMomentumSyncService(fleet *reconciling.Fleet, appConfig *config.Config) *BidMomentumSyncService {
	momentumConfig := BidMomentumSyncConfig{
		CronSchedule: appConfig.BidMomentum.CronSchedule,
		DryRun:       appConfig.BidMomentum.DryRun,
		SyncEnabled:  appConfig.BidMomentum.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": momentumConfig.CronSchedule,
		"dry_run":       momentumConfig.DryRun,
		"sync_enabled":  momentumConfig.SyncEnabled,
	}).Info("Configuração do agendador de momentum de lance carregada")

	return &BidMomentumSyncService{
		scheduler:   scheduler,
		config:      momentumConfig,
		fleet:       fleet,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *BidMomentumSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Momentum de lance agendado desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de momentum de lance")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllAccounts(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar momentum de lance: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de momentum de lance")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllAccounts executa a regra de momentum de lance em todas as contas
func (s *BidMomentumSyncService) syncAllAccounts(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Momentum de lance já em andamento, ignorando")
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

	logrus.Info("Iniciando momentum de lance para todas as contas gerenciadas")

	// Os parâmetros vazios caem nos padrões configurados da regra
	req := &domain.RunRequest{
		DryRun: s.config.DryRun,
	}

	resp, err := s.fleet.Run(ctx, reconciling.RuleBidMomentum, req)
	if err != nil {
		logrus.WithError(err).Error("Erro na execução agendada do momentum de lance")
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
	}).Info("Momentum de lance concluído")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma execução de momentum de lance
func (s *BidMomentumSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Momentum de lance já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando momentum de lance manual")
	go s.syncAllAccounts(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *BidMomentumSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"dry_run":                s.config.DryRun,
		"last_run_id":            s.lastRunID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
