package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/scheduler"
	"github.com/vfg2006/ads-automation-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeBudgetScaling = "budget-scaling"
	CronJobTypeBidMomentum   = "bid-momentum"
	CronJobTypeAll           = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	BudgetScalingSyncService *scheduler.BudgetScalingSyncService
	BidMomentumSyncService   *scheduler.BidMomentumSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypeBudgetScaling:
			if services.BudgetScalingSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de escala de orçamento não disponível", nil)
				return
			}
			services.BudgetScalingSyncService.TriggerManualSync()

		case CronJobTypeBidMomentum:
			if services.BidMomentumSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de momentum de lance não disponível", nil)
				return
			}
			services.BidMomentumSyncService.TriggerManualSync()

		case CronJobTypeAll:
			if services.BudgetScalingSyncService != nil {
				services.BudgetScalingSyncService.TriggerManualSync()
			}
			if services.BidMomentumSyncService != nil {
				services.BidMomentumSyncService.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: budget-scaling, bid-momentum, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{
			"budget-scaling": services.BudgetScalingSyncService.GetStatus(),
			"bid-momentum":   services.BidMomentumSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
