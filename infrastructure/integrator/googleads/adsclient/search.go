package adsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	adsdomain "github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/domain"
)

type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

// Search executa uma consulta GAQL paginada e acumula todas as linhas.
func (c *AdsClient) Search(ctx context.Context, customerID string, query string) ([]adsdomain.Row, error) {
	rows := []adsdomain.Row{}
	pageToken := ""

	for {
		page, err := c.searchPage(ctx, customerID, query, pageToken)
		if err != nil {
			// Se o token foi renovado, repetir a página uma única vez
			if errors.Is(err, errTokenRefreshed) {
				page, err = c.searchPage(ctx, customerID, query, pageToken)
			}
			if err != nil {
				return nil, err
			}
		}

		rows = append(rows, page.Results...)

		if page.NextPageToken == "" {
			return rows, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *AdsClient) searchPage(ctx context.Context, customerID, query, pageToken string) (*adsdomain.SearchResponse, error) {
	url := fmt.Sprintf("%s/customers/%s/googleAds:search", c.Cfg.GoogleAds.URL, customerID)

	payload, err := json.Marshal(searchRequest{Query: query, PageToken: pageToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}

	if err := c.setHeaders(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		return nil, err
	}

	var response adsdomain.SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return nil, err
	}

	return &response, nil
}
