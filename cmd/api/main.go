package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads"
	"github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/adsclient"
	"github.com/vfg2006/ads-automation-api/internal/api"
	"github.com/vfg2006/ads-automation-api/internal/config"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/scheduler"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokenManager := adsclient.NewTokenManager(cfg)
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	adsClient := adsclient.NewClient(cfg, tokenManager)
	adsIntegrator := googleads.New(cfg, adsClient)

	fleet := reconciling.NewFleet(
		reconciling.FleetConfig{
			Accounts:              cfg.Accounts,
			MaxConcurrentAccounts: cfg.Fleet.MaxConcurrentAccounts,
			RunTimeout:            cfg.Fleet.RunTimeout(),
		},
		adsIntegrator,
		adsIntegrator,
		reconciling.NewSaleToggleRule(cfg.ToggleTargets),
		reconciling.NewBudgetScalingRule(),
		reconciling.NewBidMomentumRule(domain.MomentumParams{
			Filters:              cfg.MomentumFilters,
			MinClicksRequired:    cfg.BidMomentum.MinClicksRequired,
			MinChangePercent:     cfg.BidMomentum.MinChangePercent,
			MaxAdjustmentPercent: cfg.BidMomentum.MaxAdjustmentPercent,
		}),
		reconciling.NewSaleCopyRule(),
	)

	// Inicializa os agendadores das regras
	budgetScalingSyncService := scheduler.NewBudgetScalingSyncService(fleet, cfg)
	bidMomentumSyncService := scheduler.NewBidMomentumSyncService(fleet, cfg)

	// Inicia os agendadores em background
	if err := budgetScalingSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de escala de orçamento")
	} else {
		logrus.Info("Agendador de escala de orçamento iniciado com sucesso")
	}

	if err := bidMomentumSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de momentum de lance")
	} else {
		logrus.Info("Agendador de momentum de lance iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		fleet,
		adsIntegrator,
		budgetScalingSyncService,
		bidMomentumSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
