package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrosDaTaxonomia(t *testing.T) {
	t.Run("ConfigurationError carrega o parâmetro e expõe o erro base", func(t *testing.T) {
		err := NewConfigurationError("mode", "modo inválido")

		assert.True(t, errors.Is(err, ErrConfiguration))
		assert.Contains(t, err.Error(), "mode")
		assert.Contains(t, err.Error(), "modo inválido")
	})

	t.Run("TransportError expõe o erro base e o erro subjacente", func(t *testing.T) {
		cause := errors.New("timeout")
		err := NewTransportError("search", "1234567890", cause)

		assert.True(t, errors.Is(err, ErrTransport))
		assert.True(t, errors.Is(err, cause))
		assert.True(t, IsTransportError(err))
		assert.Contains(t, err.Error(), "1234567890")
	})

	t.Run("TransportError envelopado continua detectável", func(t *testing.T) {
		err := errors.Wrap(NewTransportError("mutate", "1234567890", errors.New("rejected")), "pipeline")

		assert.True(t, IsTransportError(err))
	})

	t.Run("RuleViolationError expõe o erro base", func(t *testing.T) {
		err := NewRuleViolationError("From Brand to SALE", "atributo não encontrado")

		assert.True(t, errors.Is(err, ErrRuleViolation))
		assert.False(t, errors.Is(err, ErrTransport))
		assert.Contains(t, err.Error(), "From Brand to SALE")
	})
}
