package domain

// EntityKind identifica o tipo de objeto remoto lido pelo State Reader.
type EntityKind string

const (
	EntityKindAssetGroup          EntityKind = "asset_group"
	EntityKindCampaign            EntityKind = "campaign"
	EntityKindCampaignMetrics     EntityKind = "campaign_metrics"
	EntityKindBidAdjustment       EntityKind = "bidding_seasonality_adjustment"
	EntityKindCustomizerAttribute EntityKind = "customizer_attribute"
	EntityKindCustomerCustomizer  EntityKind = "customer_customizer"
)

// ResourceKind identifica o recurso de mutação da plataforma. Os valores são
// os segmentos de URL usados pelo endpoint de mutate.
type ResourceKind string

const (
	ResourceAssetGroups         ResourceKind = "assetGroups"
	ResourceCampaigns           ResourceKind = "campaigns"
	ResourceCampaignBudgets     ResourceKind = "campaignBudgets"
	ResourceBidAdjustments      ResourceKind = "biddingSeasonalityAdjustments"
	ResourceCustomerCustomizers ResourceKind = "customerCustomizers"
)

// Status das entidades na plataforma
const (
	StatusEnabled = "ENABLED"
	StatusPaused  = "PAUSED"
)

// EntityMetrics contém as métricas acessórias de uma entidade em uma data.
type EntityMetrics struct {
	Clicks         int64   `json:"clicks"`
	Conversions    float64 `json:"conversions"`
	CostMicros     int64   `json:"cost_micros"`
	ConversionRate float64 `json:"conversion_rate"`
}

// EntityRecord é o snapshot do estado atual de um objeto remoto, retornado
// pelo State Reader. É efêmero: recriado a cada leitura, nunca cacheado
// entre execuções.
type EntityRecord struct {
	Kind         EntityKind `json:"kind"`
	ID           string     `json:"id"`
	ResourceName string     `json:"resource_name"`
	Name         string     `json:"name"`
	Status       string     `json:"status,omitempty"`

	// Campanha dona, quando a entidade é um asset group
	ParentID   string `json:"parent_id,omitempty"`
	ParentName string `json:"parent_name,omitempty"`

	// Orçamento vinculado, quando a entidade é uma campanha
	BudgetResourceName string `json:"budget_resource_name,omitempty"`
	BudgetMicros       int64  `json:"budget_micros,omitempty"`

	// Modificador vigente, quando a entidade é um ajuste de lance sazonal
	Modifier float64 `json:"modifier,omitempty"`

	// Atributo referenciado e valor textual atual, quando a entidade é um
	// customizer de conta
	AttributeRef string `json:"attribute_ref,omitempty"`
	Value        string `json:"value,omitempty"`

	// Data das métricas (YYYY-MM-DD), quando a leitura é segmentada por dia
	Date    string         `json:"date,omitempty"`
	Metrics *EntityMetrics `json:"metrics,omitempty"`
}

// EntityFilter restringe uma leitura do State Reader. Campos vazios não
// filtram.
type EntityFilter struct {
	// Statuses limita os status aceitos (ex: ENABLED, PAUSED)
	Statuses []string
	// ChannelType limita o tipo de canal da campanha (ex: PERFORMANCE_MAX)
	ChannelType string
	// ExcludeRemoved exclui campanhas removidas; mutações sobre elas são
	// rejeitadas pela plataforma
	ExcludeRemoved bool
	// WithBudget inclui os campos de orçamento na leitura de campanhas
	WithBudget bool
	// Date segmenta métricas por data (YYYY-MM-DD, no fuso da conta)
	Date string
	// CampaignID limita a leitura a uma campanha específica
	CampaignID string
	// Name busca por igualdade exata de nome (lookup de upsert)
	Name string
}
