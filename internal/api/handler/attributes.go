package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling"
	"github.com/vfg2006/ads-automation-api/pkg/apiErrors"
	"github.com/vfg2006/ads-automation-api/pkg/log"
)

// ListCustomizerAttributes lista os atributos de customizer ativos de uma
// conta, com o valor atual de cada um quando vinculado.
func ListCustomizerAttributes(reader reconciling.StateReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não especificado", nil)
			return
		}

		logger.WithField("account_id", accountID).Info("attributes: listing customizer attributes")

		attributes, err := reader.ReadEntities(r.Context(), accountID, domain.EntityKindCustomizerAttribute, domain.EntityFilter{})
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("attributes: failed to read customizer attributes")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		customizers, err := reader.ReadEntities(r.Context(), accountID, domain.EntityKindCustomerCustomizer, domain.EntityFilter{})
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("attributes: failed to read customer customizers")
			apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			return
		}

		valueByAttribute := make(map[string]string, len(customizers))
		for _, customizer := range customizers {
			valueByAttribute[customizer.AttributeRef] = customizer.Value
		}

		type attributeItem struct {
			ID           string `json:"id"`
			Name         string `json:"name"`
			ResourceName string `json:"resource_name"`
			Value        string `json:"value,omitempty"`
		}

		items := make([]attributeItem, 0, len(attributes))
		for _, attribute := range attributes {
			items = append(items, attributeItem{
				ID:           attribute.ID,
				Name:         attribute.Name,
				ResourceName: attribute.ResourceName,
				Value:        valueByAttribute[attribute.ResourceName],
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"account_id": accountID,
			"attributes": items,
		}); err != nil {
			logger.WithField("error", err.Error()).Error("attributes: failed to encode response")
		}
	})
}
