package domain

// Fields é o payload de uma operação de mutação, serializado diretamente no
// corpo enviado à plataforma.
type Fields map[string]any

// MutationOperation é a saída do Resolver: um descritor de mutação pronto
// para o Mutation Writer, já no formato de operação da plataforma (update
// com máscara de campos, ou create).
type MutationOperation struct {
	// Resource indica o recurso de mutação; não é serializado no corpo da
	// operação, apenas direciona o endpoint
	Resource ResourceKind `json:"-"`

	UpdateMask string `json:"updateMask,omitempty"`
	Update     Fields `json:"update,omitempty"`
	Create     Fields `json:"create,omitempty"`
}

// NewUpdate cria uma operação UPDATE sobre um recurso existente.
func NewUpdate(resource ResourceKind, resourceName, mask string, fields Fields) MutationOperation {
	payload := Fields{"resourceName": resourceName}
	for k, v := range fields {
		payload[k] = v
	}

	return MutationOperation{
		Resource:   resource,
		UpdateMask: mask,
		Update:     payload,
	}
}

// NewCreate cria uma operação CREATE de um novo recurso.
func NewCreate(resource ResourceKind, fields Fields) MutationOperation {
	return MutationOperation{
		Resource: resource,
		Create:   fields,
	}
}

// IsCreate informa se a operação cria um novo recurso.
func (op MutationOperation) IsCreate() bool {
	return op.Create != nil
}

// TargetResourceName retorna o resource name alvo de uma operação UPDATE, ou
// vazio para CREATE.
func (op MutationOperation) TargetResourceName() string {
	if op.Update == nil {
		return ""
	}

	name, _ := op.Update["resourceName"].(string)
	return name
}
