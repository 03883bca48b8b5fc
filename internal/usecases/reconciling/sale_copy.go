package reconciling

import (
	"context"
	"fmt"

	"github.com/vfg2006/ads-automation-api/internal/domain"
)

// Nomes padrão dos atributos de customizer usados pela rotação de textos
const (
	DefaultHeadlineAttribute    = "From Brand to SALE"
	DefaultDescriptionAttribute = "From Brand to SALE Description"
)

// SaleCopyRule rotaciona os textos de anúncio da conta conforme a fase da
// sale. O título e a descrição são valores de customizer no nível da conta,
// referenciando atributos nomeados; um atributo obrigatório ausente é uma
// violação de regra limitada àquele texto, e o outro texto continua sendo
// processado.
type SaleCopyRule struct{}

// NewSaleCopyRule cria a regra de rotação de textos.
func NewSaleCopyRule() *SaleCopyRule {
	return &SaleCopyRule{}
}

func (r *SaleCopyRule) Name() string { return RuleSaleCopy }

// Validate exige uma fase de sale válida.
func (r *SaleCopyRule) Validate(req *domain.RunRequest) error {
	_, err := domain.ParseSalePhase(string(req.Copy.Phase))
	return err
}

// ReadState lê os atributos de customizer habilitados e os valores atuais de
// customizer no nível da conta.
func (r *SaleCopyRule) ReadState(ctx context.Context, reader StateReader, account domain.ManagedAccount, _ *domain.RunRequest) (*State, error) {
	state := NewState()

	attributes, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCustomizerAttribute, domain.EntityFilter{
		Statuses: []string{domain.StatusEnabled},
	})
	if err != nil {
		return nil, err
	}

	customizers, err := reader.ReadEntities(ctx, account.ID, domain.EntityKindCustomerCustomizer, domain.EntityFilter{
		Statuses: []string{domain.StatusEnabled},
	})
	if err != nil {
		return nil, err
	}

	state.Related[domain.EntityKindCustomizerAttribute] = attributes
	state.Related[domain.EntityKindCustomerCustomizer] = customizers

	return state, nil
}

// Evaluate decide o texto desejado de cada um dos dois atributos (título e
// descrição) conforme a fase. Contas sem textos configurados não produzem
// decisões.
func (r *SaleCopyRule) Evaluate(state *State, account domain.ManagedAccount, req *domain.RunRequest) ([]domain.Decision, []domain.EntityError) {
	if account.Texts == nil {
		return nil, nil
	}

	headline, description := textsForPhase(account.Texts, req.Copy.Phase)

	headlineAttr := req.Copy.HeadlineAttribute
	if headlineAttr == "" {
		headlineAttr = DefaultHeadlineAttribute
	}

	descriptionAttr := req.Copy.DescriptionAttribute
	if descriptionAttr == "" {
		descriptionAttr = DefaultDescriptionAttribute
	}

	var (
		decisions    []domain.Decision
		entityErrors []domain.EntityError
	)

	slots := []struct {
		attributeName string
		desired       string
	}{
		{headlineAttr, headline},
		{descriptionAttr, description},
	}

	for _, slot := range slots {
		decision, err := r.evaluateSlot(state, slot.attributeName, slot.desired)
		if err != nil {
			entityErrors = append(entityErrors, domain.EntityError{
				EntityName: slot.attributeName,
				Reason:     err.Error(),
			})
			continue
		}

		decisions = append(decisions, decision)
	}

	return decisions, entityErrors
}

// evaluateSlot resolve o atributo nomeado e compara o valor atual com o
// desejado.
func (r *SaleCopyRule) evaluateSlot(state *State, attributeName, desired string) (domain.Decision, error) {
	attribute := findByName(state.Related[domain.EntityKindCustomizerAttribute], attributeName)
	if attribute == nil {
		return domain.Decision{}, domain.NewRuleViolationError(attributeName, fmt.Sprintf("atributo de customizer %q não encontrado na conta", attributeName))
	}

	current := findByAttributeRef(state.Related[domain.EntityKindCustomerCustomizer], attribute.ResourceName)

	if current != nil && current.Value == desired {
		return domain.NoAction(RuleSaleCopy, *current, domain.ReasonAlreadyDesired, &domain.DecisionInputs{
			CurrentValue: current.Value,
		}), nil
	}

	decision := domain.Decision{
		Rule:         RuleSaleCopy,
		Kind:         domain.EntityKindCustomerCustomizer,
		EntityName:   attributeName,
		Action:       domain.DecisionChange,
		DesiredValue: desired,
		AttributeRef: attribute.ResourceName,
	}

	if current != nil {
		decision.EntityID = current.ID
		decision.ResourceName = current.ResourceName
		decision.Inputs = &domain.DecisionInputs{CurrentValue: current.Value}
	}

	return decision, nil
}

// Resolve emite UPDATE quando já existe um customizer para o atributo e
// CREATE quando não existe.
func (r *SaleCopyRule) Resolve(_ context.Context, _ StateReader, _ domain.ManagedAccount, _ *domain.RunRequest, decisions []domain.Decision) ([]domain.Decision, []domain.MutationOperation, []domain.EntityError, error) {
	var operations []domain.MutationOperation

	for _, d := range decisions {
		if !d.IsChange() {
			continue
		}

		if d.ResourceName != "" {
			operations = append(operations, domain.NewUpdate(domain.ResourceCustomerCustomizers, d.ResourceName, "value", domain.Fields{
				"value": domain.Fields{"stringValue": d.DesiredValue},
			}))
			continue
		}

		operations = append(operations, domain.NewCreate(domain.ResourceCustomerCustomizers, domain.Fields{
			"customizerAttribute": d.AttributeRef,
			"value":               domain.Fields{"stringValue": d.DesiredValue},
		}))
	}

	return decisions, operations, nil, nil
}

// textsForPhase escolhe o par título/descrição da fase.
func textsForPhase(texts *domain.SaleTexts, phase domain.SalePhase) (string, string) {
	switch phase {
	case domain.SalePhaseStart:
		return texts.SaleTitle, texts.SaleDesc
	case domain.SalePhaseTwoDays:
		return texts.SaleTitle2Days, texts.SaleDesc2Days
	case domain.SalePhaseLastDay:
		return texts.SaleTitleLast, texts.SaleDescLast
	default:
		return texts.NormalTitle, texts.NormalDesc
	}
}

func findByName(records []domain.EntityRecord, name string) *domain.EntityRecord {
	for i := range records {
		if records[i].Name == name {
			return &records[i]
		}
	}
	return nil
}

func findByAttributeRef(records []domain.EntityRecord, attributeRef string) *domain.EntityRecord {
	for i := range records {
		if records[i].AttributeRef == attributeRef {
			return &records[i]
		}
	}
	return nil
}
