package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling"
	"github.com/vfg2006/ads-automation-api/pkg/apiErrors"
	"github.com/vfg2006/ads-automation-api/pkg/log"
)

// RunSaleToggle liga ou pausa as entidades promocionais das contas conforme o
// modo (start/end) informado.
func RunSaleToggle(fleet *reconciling.Fleet) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		mode, err := domain.ParseToggleMode(r.URL.Query().Get("mode"))
		if err != nil {
			logger.WithField("error", err.Error()).Warn("automation: invalid mode parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		req := &domain.RunRequest{
			AccountIDs: parseAccountIDs(r),
			DryRun:     parseDryRun(r, false),
			Mode:       mode,
		}

		runAndRespond(w, r, fleet, reconciling.RuleSaleToggle, req)
	})
}

// RunBudgetScaling aumenta o orçamento das campanhas com utilização acima do
// limiar configurado.
func RunBudgetScaling(fleet *reconciling.Fleet) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		threshold, err := parseFloatParam(r, "threshold", 80)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("automation: invalid threshold parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		increase, err := parseFloatParam(r, "increase", 20)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("automation: invalid increase parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		req := &domain.RunRequest{
			AccountIDs: parseAccountIDs(r),
			DryRun:     parseDryRun(r, false),
			Scaling: domain.ScalingParams{
				ThresholdPercent: threshold,
				IncreasePercent:  increase,
			},
		}

		runAndRespond(w, r, fleet, reconciling.RuleBudgetScaling, req)
	})
}

// RunBidMomentum aplica ajustes de sazonalidade de lance conforme a variação
// da taxa de conversão. Executa em dry-run por padrão; a aplicação real exige
// dry_run=false explícito.
func RunBidMomentum(fleet *reconciling.Fleet) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var momentum domain.MomentumParams
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&momentum); err != nil {
				logger.WithField("error", err.Error()).Warn("automation: invalid momentum payload")
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "payload inválido: "+err.Error(), nil)
				return
			}
		}

		req := &domain.RunRequest{
			AccountIDs: parseAccountIDs(r),
			DryRun:     parseDryRun(r, true),
			Momentum:   momentum,
		}

		runAndRespond(w, r, fleet, reconciling.RuleBidMomentum, req)
	})
}

// RunSaleCopy rotaciona os textos de anúncio das contas conforme a fase da
// sale informada.
func RunSaleCopy(fleet *reconciling.Fleet) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		phase, err := domain.ParseSalePhase(r.URL.Query().Get("phase"))
		if err != nil {
			logger.WithField("error", err.Error()).Warn("automation: invalid phase parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		req := &domain.RunRequest{
			AccountIDs: parseAccountIDs(r),
			DryRun:     parseDryRun(r, false),
			Copy: domain.CopyParams{
				Phase:                phase,
				HeadlineAttribute:    r.URL.Query().Get("headline_attribute"),
				DescriptionAttribute: r.URL.Query().Get("description_attribute"),
			},
		}

		runAndRespond(w, r, fleet, reconciling.RuleSaleCopy, req)
	})
}

// runAndRespond executa a regra na frota e serializa a resposta, traduzindo a
// taxonomia de erros para os códigos da API.
func runAndRespond(w http.ResponseWriter, r *http.Request, fleet *reconciling.Fleet, rule string, req *domain.RunRequest) {
	logger := log.ForContext(r.Context())

	logger.WithFields(log.Fields{
		"rule": rule,
	}).Info("automation: starting fleet run")

	resp, err := fleet.Run(r.Context(), rule, req)
	if err != nil {
		logger.WithFields(log.Fields{
			"rule":  rule,
			"error": err.Error(),
		}).Error("automation: fleet run rejected")

		switch {
		case errors.Is(err, domain.ErrUnknownRule):
			apiErrors.WriteError(w, apiErrors.ErrUnknownRule, err.Error(), nil)
		case errors.Is(err, domain.ErrConfiguration):
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		default:
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
		}
		return
	}

	logger.WithFields(log.Fields{
		"rule":   rule,
		"run_id": resp.RunID,
	}).Info("automation: fleet run finished")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.WithField("error", err.Error()).Error("automation: failed to encode response")
	}
}

// parseAccountIDs lê a seleção de contas da query string (?accounts=a,b,c)
func parseAccountIDs(r *http.Request) []string {
	raw := r.URL.Query().Get("accounts")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	return ids
}

// parseDryRun lê o parâmetro dry_run com o padrão da regra
func parseDryRun(r *http.Request, def bool) bool {
	raw := r.URL.Query().Get("dry_run")
	if raw == "" {
		return def
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}

	return parsed
}

func parseFloatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	return strconv.ParseFloat(raw, 64)
}
