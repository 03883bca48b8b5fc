package handler

import (
	"net/http"

	"github.com/vfg2006/ads-automation-api/internal/api/handler/router"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Automations retorna as rotas de execução das regras de automação. As rotas
// GET existem para compatibilidade com serviços de cron que só fazem GET.
func Automations(fleet *reconciling.Fleet) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/automations/sale-toggle/run",
			Method:  http.MethodGet,
			Handler: RunSaleToggle(fleet),
		},
		{
			Path:    "/v1/automations/sale-toggle/run",
			Method:  http.MethodPost,
			Handler: RunSaleToggle(fleet),
		},
		{
			Path:    "/v1/automations/budget-scaling/run",
			Method:  http.MethodGet,
			Handler: RunBudgetScaling(fleet),
		},
		{
			Path:    "/v1/automations/budget-scaling/run",
			Method:  http.MethodPost,
			Handler: RunBudgetScaling(fleet),
		},
		{
			Path:    "/v1/automations/bid-momentum/run",
			Method:  http.MethodPost,
			Handler: RunBidMomentum(fleet),
		},
		{
			Path:    "/v1/automations/sale-copy/run",
			Method:  http.MethodGet,
			Handler: RunSaleCopy(fleet),
		},
		{
			Path:    "/v1/automations/sale-copy/run",
			Method:  http.MethodPost,
			Handler: RunSaleCopy(fleet),
		},
	}
}

// Attributes retorna as rotas de consulta dos atributos de customizer
func Attributes(reader reconciling.StateReader) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/accounts/:id/attributes",
			Method:  http.MethodGet,
			Handler: ListCustomizerAttributes(reader),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
