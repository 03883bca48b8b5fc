package reconciling

import (
	"context"

	"github.com/vfg2006/ads-automation-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// StateReader consulta a plataforma pelos atributos atuais de um conjunto de
// entidades de uma conta. Leitura pura, sem efeitos colaterais. Um resultado
// vazio (zero entidades) não é erro; falhas da chamada remota são devolvidas
// como domain.TransportError e propagam para o pipeline da conta.
type StateReader interface {
	ReadEntities(ctx context.Context, accountID string, kind domain.EntityKind, filter domain.EntityFilter) ([]domain.EntityRecord, error)
}

// MutationWriter submete um lote de operações de create/update contra um
// recurso de uma conta. Deve ser no-op quando o lote é vazio (sem chamada de
// rede). Uma rejeição parcial ou total do lote é reportada como uma única
// falha de transporte; o chamador não tem garantia sobre quais operações do
// lote foram aplicadas.
type MutationWriter interface {
	ApplyMutations(ctx context.Context, accountID string, resource domain.ResourceKind, operations []domain.MutationOperation) error
}
