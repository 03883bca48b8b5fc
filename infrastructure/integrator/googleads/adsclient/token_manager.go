package adsclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	adsdomain "github.com/vfg2006/ads-automation-api/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-automation-api/internal/config"

	"github.com/sirupsen/logrus"
)

// Margem de segurança antes da expiração do access token
const tokenExpiryBuffer = 60 * time.Second

// TokenManager gerencia tokens de acesso da API do Google Ads. O refresh
// token é de longa duração; o access token obtido a partir dele expira em
// cerca de uma hora e é renovado aqui sob demanda.
type TokenManager struct {
	cfg               *config.Config
	TokenRefreshMutex sync.Mutex `mapstructure:"-"`
	stopRefresh       chan struct{}

	accessToken    string
	tokenExpiresAt time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		cfg:               cfg,
		TokenRefreshMutex: sync.Mutex{},
		stopRefresh:       make(chan struct{}),
	}
}

// AccessToken retorna um access token válido, renovando se necessário.
func (tm *TokenManager) AccessToken() (string, error) {
	tm.TokenRefreshMutex.Lock()
	defer tm.TokenRefreshMutex.Unlock()

	if tm.accessToken != "" && time.Until(tm.tokenExpiresAt) > tokenExpiryBuffer {
		return tm.accessToken, nil
	}

	if err := tm.refreshTokenInternal(); err != nil {
		return "", err
	}

	return tm.accessToken, nil
}

// RefreshToken força a obtenção de um novo access token
func (tm *TokenManager) RefreshToken() error {
	tm.TokenRefreshMutex.Lock()
	defer tm.TokenRefreshMutex.Unlock()

	return tm.refreshTokenInternal()
}

// refreshTokenInternal é a implementação interna do refresh de token.
// Pressupõe o mutex já adquirido.
func (tm *TokenManager) refreshTokenInternal() error {
	form := url.Values{}
	form.Set("client_id", tm.cfg.GoogleAds.ClientID)
	form.Set("client_secret", tm.cfg.GoogleAds.ClientSecret)
	form.Set("refresh_token", tm.cfg.GoogleAds.RefreshToken)
	form.Set("grant_type", "refresh_token")

	resp, err := http.PostForm(tm.cfg.GoogleAds.TokenURL, form)
	if err != nil {
		return fmt.Errorf("erro ao requisitar novo access token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("erro ao ler resposta do token: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(body)

		// invalid_grant significa refresh token revogado ou expirado;
		// renovar exige reautorização manual do aplicativo
		if strings.Contains(bodyStr, "invalid_grant") {
			logrus.Error("O refresh token foi revogado ou expirou. É necessário reautorizar")
			return fmt.Errorf("o refresh token expirou e não pode ser renovado automaticamente. "+
				"É necessário reautorizar o aplicativo através do processo de autenticação OAuth: %s", bodyStr)
		}

		return fmt.Errorf("erro na resposta do token. Status: %d, Corpo: %s", resp.StatusCode, bodyStr)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("erro ao decodificar resposta do token: %w", err)
	}

	if token.AccessToken == "" {
		return fmt.Errorf("resposta do token sem access_token")
	}

	oldToken := tm.accessToken
	tm.accessToken = token.AccessToken
	tm.tokenExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	if oldToken != tm.accessToken {
		logrus.Infof("Access token atualizado com sucesso. Expira em: %s",
			tm.tokenExpiresAt.Format(time.RFC3339))
	} else {
		logrus.Info("Token renovado, mas não mudou. Isso pode indicar um problema na API do Google")
	}

	return nil
}

// StartAutoRefresh inicia uma goroutine que atualiza o token periodicamente
func (tm *TokenManager) StartAutoRefresh() {
	if err := tm.RefreshToken(); err != nil {
		logrus.Errorf("Erro ao iniciar o token: %v", err)
	}

	// Renovar antes da expiração típica de uma hora
	refreshInterval := 45 * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("Iniciando renovação periódica do token do Google Ads")
			if err := tm.RefreshToken(); err != nil {
				logrus.Errorf("Erro na renovação periódica do token: %v", err)

				// Se falhar, tente novamente em um intervalo mais curto
				ticker.Reset(5 * time.Minute)
			} else {
				logrus.Info("Renovação periódica do token concluída com sucesso")
				ticker.Reset(refreshInterval)
			}
		case <-tm.stopRefresh:
			logrus.Info("Encerrando goroutine de renovação periódica do token")
			return
		}
	}
}

// StopAutoRefresh para a goroutine de renovação automática
func (tm *TokenManager) StopAutoRefresh() {
	close(tm.stopRefresh)
}

// ParseErrorResponse tenta parsear um erro da API do Google Ads
func ParseErrorResponse(body []byte) (*adsdomain.ErrorResponse, error) {
	var errorResp adsdomain.ErrorResponse
	err := json.Unmarshal(body, &errorResp)
	if err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// HandleResponse manipula a resposta HTTP e verifica erros de token expirado
func (tm *TokenManager) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	return tm.handleErrorResponse(resp.StatusCode, body)
}

// handleErrorResponse processa erros nas respostas da API
func (tm *TokenManager) handleErrorResponse(status int, body []byte) ([]byte, error) {
	errorResp, parseErr := ParseErrorResponse(body)

	// Access token expirado: renova e sinaliza para o chamador repetir
	if status == http.StatusUnauthorized || (parseErr == nil && errorResp.IsTokenExpired()) {
		logrus.Warn("Access token expirado detectado pela API do Google Ads")

		if refreshErr := tm.RefreshToken(); refreshErr != nil {
			if strings.Contains(refreshErr.Error(), "necessário reautorizar") {
				return nil, fmt.Errorf("token expirou permanentemente e requer reautorização manual: %w", refreshErr)
			}
			return nil, fmt.Errorf("erro ao renovar token expirado: %w", refreshErr)
		}

		return nil, errTokenRefreshed
	}

	if parseErr == nil && errorResp.Error.Message != "" {
		return nil, fmt.Errorf("erro na resposta da API. Status: %d (%s): %s",
			status, errorResp.Error.Status, errorResp.Error.Message)
	}

	return nil, fmt.Errorf("erro na resposta da API. Status: %d, Corpo: %s", status, string(body))
}
