package adsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-automation-api/internal/domain"
)

type mutateRequest struct {
	Operations []domain.MutationOperation `json:"operations"`
}

// Mutate aplica um lote de operações num recurso da conta. Todas as operações
// do lote devem pertencer ao recurso informado.
func (c *AdsClient) Mutate(ctx context.Context, customerID string, resource domain.ResourceKind, operations []domain.MutationOperation) error {
	if len(operations) == 0 {
		return nil
	}

	err := c.mutate(ctx, customerID, resource, operations)
	if errors.Is(err, errTokenRefreshed) {
		err = c.mutate(ctx, customerID, resource, operations)
	}

	return err
}

func (c *AdsClient) mutate(ctx context.Context, customerID string, resource domain.ResourceKind, operations []domain.MutationOperation) error {
	url := fmt.Sprintf("%s/customers/%s/%s:mutate", c.Cfg.GoogleAds.URL, customerID, resource)

	payload, err := json.Marshal(mutateRequest{Operations: operations})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return err
	}

	if err := c.setHeaders(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return err
	}
	defer resp.Body.Close()

	if _, err := c.HandleResponse(resp); err != nil {
		return err
	}

	return nil
}
