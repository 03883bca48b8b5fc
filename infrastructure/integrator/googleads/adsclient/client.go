package adsclient

import (
	"context"
	"errors"
	"net/http"

	adsdomain "github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-automation-api/internal/config"
	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// errTokenRefreshed sinaliza que o token expirou, foi renovado e a requisição
// deve ser repetida uma vez
var errTokenRefreshed = errors.New("token expirado e renovado, por favor tente novamente")

type Client interface {
	Search(ctx context.Context, customerID string, query string) ([]adsdomain.Row, error)
	Mutate(ctx context.Context, customerID string, resource domain.ResourceKind, operations []domain.MutationOperation) error
	RefreshToken() error
	HandleResponse(resp *http.Response) ([]byte, error)
}

type AdsClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	httpClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	client := &AdsClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		httpClient:   &http.Client{},
	}
	return client
}

// RefreshToken força a renovação do access token
func (c *AdsClient) RefreshToken() error {
	return c.TokenManager.RefreshToken()
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (c *AdsClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}

// setHeaders adiciona os cabeçalhos exigidos pela API do Google Ads
func (c *AdsClient) setHeaders(req *http.Request) error {
	token, err := c.TokenManager.AccessToken()
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("developer-token", c.Cfg.GoogleAds.DeveloperToken)
	req.Header.Set("login-customer-id", c.Cfg.GoogleAds.MCCID)
	req.Header.Set("Content-Type", "application/json")

	return nil
}
