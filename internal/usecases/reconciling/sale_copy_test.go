package reconciling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-automation-api/internal/domain"
	"github.com/vfg2006/ads-automation-api/internal/usecases/reconciling/mocks"
	"go.uber.org/mock/gomock"
)

func saleTexts() *domain.SaleTexts {
	return &domain.SaleTexts{
		NormalTitle:    "Socken für jeden Tag",
		NormalDesc:     "Jetzt entdecken",
		SaleTitle:      "SALE: bis zu 50%",
		SaleDesc:       "Nur für kurze Zeit",
		SaleTitle2Days: "Noch 2 Tage SALE",
		SaleDesc2Days:  "Bald vorbei",
		SaleTitleLast:  "Letzter SALE Tag",
		SaleDescLast:   "Heute endet der SALE",
	}
}

func copyAccount() domain.ManagedAccount {
	return domain.ManagedAccount{ID: "1234567890", Country: "DE", Texts: saleTexts()}
}

func copyState(attributes, customizers []domain.EntityRecord) *State {
	state := NewState()
	state.Related[domain.EntityKindCustomizerAttribute] = attributes
	state.Related[domain.EntityKindCustomerCustomizer] = customizers
	return state
}

func copyRequest(phase domain.SalePhase) *domain.RunRequest {
	return &domain.RunRequest{Copy: domain.CopyParams{Phase: phase}}
}

func defaultAttributes() []domain.EntityRecord {
	return []domain.EntityRecord{
		{
			Kind:         domain.EntityKindCustomizerAttribute,
			ID:           "100",
			Name:         DefaultHeadlineAttribute,
			ResourceName: "customers/1234567890/customizerAttributes/100",
		},
		{
			Kind:         domain.EntityKindCustomizerAttribute,
			ID:           "101",
			Name:         DefaultDescriptionAttribute,
			ResourceName: "customers/1234567890/customizerAttributes/101",
		},
	}
}

func TestSaleCopyRule_Validate(t *testing.T) {
	rule := NewSaleCopyRule()

	assert.NoError(t, rule.Validate(copyRequest(domain.SalePhaseStart)))
	assert.NoError(t, rule.Validate(copyRequest(domain.SalePhaseEnd)))

	err := rule.Validate(copyRequest("mid_sale"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSaleCopyRule_Evaluate(t *testing.T) {
	rule := NewSaleCopyRule()

	t.Run("Conta sem textos configurados não produz decisões", func(t *testing.T) {
		account := domain.ManagedAccount{ID: "1234567890"}

		decisions, entityErrors := rule.Evaluate(copyState(defaultAttributes(), nil), account, copyRequest(domain.SalePhaseStart))

		assert.Empty(t, decisions)
		assert.Empty(t, entityErrors)
	})

	t.Run("Sem customizer existente cada slot decide um CREATE", func(t *testing.T) {
		decisions, entityErrors := rule.Evaluate(copyState(defaultAttributes(), nil), copyAccount(), copyRequest(domain.SalePhaseStart))

		assert.Empty(t, entityErrors)
		require.Len(t, decisions, 2)

		assert.Equal(t, domain.DecisionChange, decisions[0].Action)
		assert.Equal(t, "SALE: bis zu 50%", decisions[0].DesiredValue)
		assert.Equal(t, "customers/1234567890/customizerAttributes/100", decisions[0].AttributeRef)
		assert.Empty(t, decisions[0].ResourceName)

		assert.Equal(t, "Nur für kurze Zeit", decisions[1].DesiredValue)
		assert.Equal(t, "customers/1234567890/customizerAttributes/101", decisions[1].AttributeRef)
	})

	t.Run("Valor atual igual ao desejado vira NO_ACTION", func(t *testing.T) {
		customizers := []domain.EntityRecord{
			{
				Kind:         domain.EntityKindCustomerCustomizer,
				ResourceName: "customers/1234567890/customerCustomizers/100",
				AttributeRef: "customers/1234567890/customizerAttributes/100",
				Value:        "SALE: bis zu 50%",
			},
		}

		decisions, entityErrors := rule.Evaluate(copyState(defaultAttributes(), customizers), copyAccount(), copyRequest(domain.SalePhaseStart))

		assert.Empty(t, entityErrors)
		require.Len(t, decisions, 2)
		assert.Equal(t, domain.DecisionNoAction, decisions[0].Action)
		assert.Equal(t, domain.ReasonAlreadyDesired, decisions[0].Reason)
		assert.Equal(t, domain.DecisionChange, decisions[1].Action)
	})

	t.Run("Atributo ausente falha só o seu slot e o outro continua", func(t *testing.T) {
		attributes := defaultAttributes()[:1] // só o título existe

		decisions, entityErrors := rule.Evaluate(copyState(attributes, nil), copyAccount(), copyRequest(domain.SalePhaseStart))

		require.Len(t, entityErrors, 1)
		assert.Equal(t, DefaultDescriptionAttribute, entityErrors[0].EntityName)
		assert.Contains(t, entityErrors[0].Reason, "não encontrado")

		require.Len(t, decisions, 1)
		assert.Equal(t, domain.DecisionChange, decisions[0].Action)
		assert.Equal(t, "SALE: bis zu 50%", decisions[0].DesiredValue)
	})

	t.Run("Nomes de atributo da requisição substituem os padrões", func(t *testing.T) {
		attributes := []domain.EntityRecord{
			{
				Kind:         domain.EntityKindCustomizerAttribute,
				Name:         "Headline Alt",
				ResourceName: "customers/1234567890/customizerAttributes/200",
			},
			{
				Kind:         domain.EntityKindCustomizerAttribute,
				Name:         "Description Alt",
				ResourceName: "customers/1234567890/customizerAttributes/201",
			},
		}

		req := &domain.RunRequest{Copy: domain.CopyParams{
			Phase:                domain.SalePhaseLastDay,
			HeadlineAttribute:    "Headline Alt",
			DescriptionAttribute: "Description Alt",
		}}

		decisions, entityErrors := rule.Evaluate(copyState(attributes, nil), copyAccount(), req)

		assert.Empty(t, entityErrors)
		require.Len(t, decisions, 2)
		assert.Equal(t, "Letzter SALE Tag", decisions[0].DesiredValue)
		assert.Equal(t, "Heute endet der SALE", decisions[1].DesiredValue)
	})
}

func TestSaleCopyRule_Resolve(t *testing.T) {
	rule := NewSaleCopyRule()

	decisions := []domain.Decision{
		{
			Rule:         RuleSaleCopy,
			Kind:         domain.EntityKindCustomerCustomizer,
			EntityName:   DefaultHeadlineAttribute,
			ResourceName: "customers/1234567890/customerCustomizers/100",
			Action:       domain.DecisionChange,
			DesiredValue: "SALE: bis zu 50%",
			AttributeRef: "customers/1234567890/customizerAttributes/100",
		},
		{
			Rule:         RuleSaleCopy,
			Kind:         domain.EntityKindCustomerCustomizer,
			EntityName:   DefaultDescriptionAttribute,
			Action:       domain.DecisionChange,
			DesiredValue: "Nur für kurze Zeit",
			AttributeRef: "customers/1234567890/customizerAttributes/101",
		},
		{
			Rule:   RuleSaleCopy,
			Action: domain.DecisionNoAction,
			Reason: domain.ReasonAlreadyDesired,
		},
	}

	_, operations, entityErrors, err := rule.Resolve(context.Background(), nil, copyAccount(), copyRequest(domain.SalePhaseStart), decisions)

	require.NoError(t, err)
	assert.Empty(t, entityErrors)
	require.Len(t, operations, 2)

	// Customizer existente vira UPDATE do valor
	assert.False(t, operations[0].IsCreate())
	assert.Equal(t, domain.ResourceCustomerCustomizers, operations[0].Resource)
	assert.Equal(t, "value", operations[0].UpdateMask)
	assert.Equal(t, domain.Fields{"stringValue": "SALE: bis zu 50%"}, operations[0].Update["value"])

	// Slot sem customizer vira CREATE referenciando o atributo
	assert.True(t, operations[1].IsCreate())
	assert.Equal(t, "customers/1234567890/customizerAttributes/101", operations[1].Create["customizerAttribute"])
	assert.Equal(t, domain.Fields{"stringValue": "Nur für kurze Zeit"}, operations[1].Create["value"])
}

func TestSaleCopyRule_ReadState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mocks.NewMockStateReader(ctrl)
	rule := NewSaleCopyRule()

	reader.EXPECT().
		ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCustomizerAttribute, domain.EntityFilter{
			Statuses: []string{domain.StatusEnabled},
		}).
		Return(defaultAttributes(), nil)

	reader.EXPECT().
		ReadEntities(gomock.Any(), "1234567890", domain.EntityKindCustomerCustomizer, domain.EntityFilter{
			Statuses: []string{domain.StatusEnabled},
		}).
		Return(nil, nil)

	state, err := rule.ReadState(context.Background(), reader, copyAccount(), copyRequest(domain.SalePhaseStart))

	require.NoError(t, err)
	assert.Len(t, state.Related[domain.EntityKindCustomizerAttribute], 2)
}

func TestTextsForPhase(t *testing.T) {
	texts := saleTexts()

	tests := []struct {
		name        string
		phase       domain.SalePhase
		title, desc string
	}{
		{name: "Início da sale", phase: domain.SalePhaseStart, title: texts.SaleTitle, desc: texts.SaleDesc},
		{name: "Dois dias antes do fim", phase: domain.SalePhaseTwoDays, title: texts.SaleTitle2Days, desc: texts.SaleDesc2Days},
		{name: "Último dia", phase: domain.SalePhaseLastDay, title: texts.SaleTitleLast, desc: texts.SaleDescLast},
		{name: "Fim da sale volta ao texto normal", phase: domain.SalePhaseEnd, title: texts.NormalTitle, desc: texts.NormalDesc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, desc := textsForPhase(texts, tt.phase)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.desc, desc)
		})
	}
}
