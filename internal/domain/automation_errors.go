package domain

import (
	"errors"
	"fmt"
)

// Erros base da taxonomia das automações
var (
	// ErrConfiguration indica parâmetros de execução inválidos ou ausentes;
	// rejeitado antes de qualquer pipeline iniciar e falha a execução inteira
	ErrConfiguration = errors.New("configuração de execução inválida")

	// ErrTransport indica falha em uma chamada do State Reader ou do
	// Mutation Writer; limitado a uma conta, não aborta as contas irmãs
	ErrTransport = errors.New("falha de transporte com a plataforma")

	// ErrRuleViolation indica que uma decisão não pôde ser resolvida (ex:
	// uma entidade de referência obrigatória não foi encontrada); limitado
	// a uma entidade dentro de uma conta
	ErrRuleViolation = errors.New("violação de regra")

	// ErrUnknownRule indica uma família de regra não registrada
	ErrUnknownRule = errors.New("família de regra desconhecida")
)

// ConfigurationError é um erro de parâmetro de execução com contexto.
type ConfigurationError struct {
	Param   string
	Details string
}

func (e *ConfigurationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: parâmetro %q: %s", ErrConfiguration.Error(), e.Param, e.Details)
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Details)
}

// Unwrap retorna o erro base
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError cria um erro de configuração para um parâmetro.
func NewConfigurationError(param, details string) *ConfigurationError {
	return &ConfigurationError{Param: param, Details: details}
}

// TransportError é uma falha de chamada remota com contexto da operação e da
// conta envolvida.
type TransportError struct {
	Op        string // "search" ou "mutate"
	AccountID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s, conta %s): %v", ErrTransport.Error(), e.Op, e.AccountID, e.Err)
}

// Unwrap retorna o erro subjacente para errors.Is/As
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrTransport)
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError cria uma falha de transporte com contexto.
func NewTransportError(op, accountID string, err error) *TransportError {
	return &TransportError{Op: op, AccountID: accountID, Err: err}
}

// IsTransportError verifica se o erro é uma falha de transporte.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// RuleViolationError é uma falha limitada a uma entidade.
type RuleViolationError struct {
	EntityName string
	Reason     string
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrRuleViolation.Error(), e.EntityName, e.Reason)
}

// Unwrap retorna o erro base
func (e *RuleViolationError) Unwrap() error {
	return ErrRuleViolation
}

// NewRuleViolationError cria uma violação de regra para uma entidade.
func NewRuleViolationError(entityName, reason string) *RuleViolationError {
	return &RuleViolationError{EntityName: entityName, Reason: reason}
}
