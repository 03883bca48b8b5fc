package middleware

import (
	"net/http"
	"strings"

	"github.com/vfg2006/ads-automation-api/internal/config"
)

// AuthMiddleware protege os endpoints de execução com o segredo compartilhado
// do agendador externo. O segredo pode vir via Bearer token ou query string
// (?key=), já que alguns serviços de cron não suportam cabeçalhos.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthcheck" {
				next.ServeHTTP(w, r)
				return
			}

			// Segredo vazio desabilita a checagem (apenas local)
			if cfg.Auth.Secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			secret := r.URL.Query().Get("key")
			if secret == "" {
				authHeader := r.Header.Get("Authorization")
				secret = strings.TrimPrefix(authHeader, "Bearer ")
				if secret == authHeader {
					secret = ""
				}
			}

			if secret == "" {
				http.Error(w, "Authorization is required", http.StatusUnauthorized)
				return
			}

			if secret != cfg.Auth.Secret {
				http.Error(w, "Invalid secret", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
