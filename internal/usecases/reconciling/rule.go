package reconciling

import (
	"context"

	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// Nomes das famílias de regra registradas na frota
const (
	RuleSaleToggle    = "sale-toggle"
	RuleBudgetScaling = "budget-scaling"
	RuleBidMomentum   = "bid-momentum"
	RuleSaleCopy      = "sale-copy"
)

// State é o snapshot de estado atual lido para uma conta no estágio
// READ_STATE. Entities são as entidades alvo da regra; Related guarda
// leituras auxiliares (métricas, atributos) indexadas por tipo.
type State struct {
	Entities []domain.EntityRecord
	Related  map[domain.EntityKind][]domain.EntityRecord

	// Datas de referência do snapshot (YYYY-MM-DD), calculadas no fuso
	// operacional da conta no momento da leitura
	Today     string
	Yesterday string
}

// NewState cria um snapshot vazio.
func NewState() *State {
	return &State{Related: make(map[domain.EntityKind][]domain.EntityRecord)}
}

// Rule é uma família de regras de reconciliação. Cada método corresponde a um
// estágio do pipeline da conta, o que permite testar cada estágio
// isoladamente com colaboradores simulados:
//
//   - Validate rejeita parâmetros inválidos antes de qualquer pipeline iniciar
//   - ReadState consulta o estado remoto atual da conta
//   - Evaluate é uma função pura do estado lido para decisões por entidade
//   - Resolve transforma decisões CHANGE em operações de mutação, consultando
//     a existência de recursos quando a identidade é sintetizada (upsert)
//
// Resolve pode reclassificar uma decisão CHANGE como NO_ACTION quando o
// recurso remoto já está no valor desejado, e devolve a lista final de
// decisões.
type Rule interface {
	Name() string

	Validate(req *domain.RunRequest) error

	ReadState(ctx context.Context, reader StateReader, account domain.ManagedAccount, req *domain.RunRequest) (*State, error)

	Evaluate(state *State, account domain.ManagedAccount, req *domain.RunRequest) ([]domain.Decision, []domain.EntityError)

	Resolve(ctx context.Context, reader StateReader, account domain.ManagedAccount, req *domain.RunRequest, decisions []domain.Decision) ([]domain.Decision, []domain.MutationOperation, []domain.EntityError, error)
}
