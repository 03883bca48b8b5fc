package adsdomain

// ErrorResponse representa a estrutura de erro da API da plataforma
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API da plataforma
type ErrorDetails struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// IsTokenExpired verifica se o erro é de credencial expirada ou inválida.
// A API devolve 401/UNAUTHENTICATED quando o access token venceu.
func (e *ErrorResponse) IsTokenExpired() bool {
	return e.Error.Code == 401 || e.Error.Status == "UNAUTHENTICATED"
}
