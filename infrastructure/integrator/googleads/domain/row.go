package adsdomain

// Os tipos deste pacote espelham o formato JSON da API REST da plataforma.
// Valores inteiros longos (micros, cliques) chegam como strings.

// SearchResponse é a resposta do endpoint googleAds:search.
type SearchResponse struct {
	Results       []Row  `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}

// Row é uma linha de resultado de uma consulta; apenas os recursos
// selecionados na consulta vêm preenchidos.
type Row struct {
	Campaign                     *Campaign                     `json:"campaign,omitempty"`
	AssetGroup                   *AssetGroup                   `json:"assetGroup,omitempty"`
	CampaignBudget               *CampaignBudget               `json:"campaignBudget,omitempty"`
	Metrics                      *Metrics                      `json:"metrics,omitempty"`
	BiddingSeasonalityAdjustment *BiddingSeasonalityAdjustment `json:"biddingSeasonalityAdjustment,omitempty"`
	CustomizerAttribute          *CustomizerAttribute          `json:"customizerAttribute,omitempty"`
	CustomerCustomizer           *CustomerCustomizer           `json:"customerCustomizer,omitempty"`
	Segments                     *Segments                     `json:"segments,omitempty"`
}

type Campaign struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResourceName string `json:"resourceName"`
}

type AssetGroup struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResourceName string `json:"resourceName"`
}

type CampaignBudget struct {
	ResourceName string `json:"resourceName"`
	AmountMicros string `json:"amountMicros"`
}

type Metrics struct {
	Clicks                          string  `json:"clicks"`
	Conversions                     float64 `json:"conversions"`
	CostMicros                      string  `json:"costMicros"`
	ConversionsFromInteractionsRate float64 `json:"conversionsFromInteractionsRate"`
}

type BiddingSeasonalityAdjustment struct {
	ResourceName           string  `json:"resourceName"`
	Name                   string  `json:"name"`
	ConversionRateModifier float64 `json:"conversionRateModifier"`
}

type CustomizerAttribute struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ResourceName string `json:"resourceName"`
}

type CustomerCustomizer struct {
	ResourceName        string           `json:"resourceName"`
	CustomizerAttribute string           `json:"customizerAttribute"`
	Value               *CustomizerValue `json:"value,omitempty"`
}

type CustomizerValue struct {
	Type        string `json:"type,omitempty"`
	StringValue string `json:"stringValue"`
}

type Segments struct {
	Date string `json:"date"`
}
