package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/ads-automation-api/internal/domain"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	GoogleAds     GoogleAds     `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Fleet         Fleet         `mapstructure:",squash"`
	BudgetScaling BudgetScaling `mapstructure:",squash"`
	BidMomentum   BidMomentum   `mapstructure:",squash"`

	// Contas gerenciadas e padrões das regras: configuração estática,
	// carregada uma única vez na inicialização
	Accounts        []domain.ManagedAccount `mapstructure:"-"`
	ToggleTargets   []domain.ToggleTarget   `mapstructure:"-"`
	MomentumFilters []domain.MomentumFilter `mapstructure:"-"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type GoogleAds struct {
	BaseURL        string `mapstructure:"google_ads_base_url"`
	Version        string `mapstructure:"google_ads_version"`
	URL            string `mapstructure:"-"`
	TokenURL       string `mapstructure:"google_token_url"`
	MCCID          string `mapstructure:"google_mcc_id"`
	DeveloperToken string `mapstructure:"google_developer_token"`
	ClientID       string `mapstructure:"google_client_id"`
	ClientSecret   string `mapstructure:"google_client_secret"`
	RefreshToken   string `mapstructure:"google_refresh_token"`
}

type Auth struct {
	// Secret protege os endpoints de execução; vazio desabilita a checagem
	// (apenas local)
	Secret string `mapstructure:"cron_secret"`
}

type Fleet struct {
	MaxConcurrentAccounts int `mapstructure:"fleet_max_concurrent_accounts"`
	RunTimeoutSeconds     int `mapstructure:"fleet_run_timeout_seconds"`
}

// RunTimeout converte o prazo configurado da frota.
func (f Fleet) RunTimeout() time.Duration {
	return time.Duration(f.RunTimeoutSeconds) * time.Second
}

type BudgetScaling struct {
	CronSchedule     string  `mapstructure:"budget_scaling_cron"`
	Enabled          bool    `mapstructure:"budget_scaling_enabled"`
	DryRun           bool    `mapstructure:"budget_scaling_dry_run"`
	ThresholdPercent float64 `mapstructure:"budget_scaling_threshold_percent"`
	IncreasePercent  float64 `mapstructure:"budget_scaling_increase_percent"`
}

type BidMomentum struct {
	CronSchedule         string  `mapstructure:"bid_momentum_cron"`
	Enabled              bool    `mapstructure:"bid_momentum_enabled"`
	DryRun               bool    `mapstructure:"bid_momentum_dry_run"`
	MinClicksRequired    int64   `mapstructure:"bid_momentum_min_clicks_required"`
	MinChangePercent     float64 `mapstructure:"bid_momentum_min_change_percent"`
	MaxAdjustmentPercent float64 `mapstructure:"bid_momentum_max_adjustment_percent"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_VERSION", "v20")
	viper.SetDefault("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("GOOGLE_MCC_ID", "3963045378")
	viper.SetDefault("GOOGLE_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REFRESH_TOKEN", "")

	viper.SetDefault("CRON_SECRET", "")

	viper.SetDefault("FLEET_MAX_CONCURRENT_ACCOUNTS", 3) // rate limit da plataforma é compartilhado entre as contas
	viper.SetDefault("FLEET_RUN_TIMEOUT_SECONDS", 300)

	// Defaults da escala de orçamento
	viper.SetDefault("BUDGET_SCALING_CRON", "0 * * * *")
	viper.SetDefault("BUDGET_SCALING_ENABLED", false)
	viper.SetDefault("BUDGET_SCALING_DRY_RUN", false)
	viper.SetDefault("BUDGET_SCALING_THRESHOLD_PERCENT", 80)
	viper.SetDefault("BUDGET_SCALING_INCREASE_PERCENT", 20)

	// Defaults do momentum de lance
	viper.SetDefault("BID_MOMENTUM_CRON", "0 12 * * *") // meio-dia, com dados suficientes do dia
	viper.SetDefault("BID_MOMENTUM_ENABLED", false)
	viper.SetDefault("BID_MOMENTUM_DRY_RUN", true)
	viper.SetDefault("BID_MOMENTUM_MIN_CLICKS_REQUIRED", 30)
	viper.SetDefault("BID_MOMENTUM_MIN_CHANGE_PERCENT", 5)
	viper.SetDefault("BID_MOMENTUM_MAX_ADJUSTMENT_PERCENT", 500)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.GoogleAds.URL = fmt.Sprintf("%s/%s", config.GoogleAds.BaseURL, config.GoogleAds.Version)

	config.Accounts = defaultAccounts()
	config.ToggleTargets = defaultToggleTargets()
	config.MomentumFilters = defaultMomentumFilters()

	return config, nil
}

// Validate verifica as credenciais mínimas para falar com a plataforma.
func (c *Config) Validate() error {
	missing := []string{}

	if c.GoogleAds.ClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleAds.ClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.GoogleAds.RefreshToken == "" {
		missing = append(missing, "GOOGLE_REFRESH_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("credenciais OAuth ausentes no ambiente: %v", missing)
	}

	return nil
}

// defaultAccounts é a tabela estática de contas gerenciadas, com os textos de
// anúncio por fase de sale no idioma de cada conta.
func defaultAccounts() []domain.ManagedAccount {
	return []domain.ManagedAccount{
		{
			ID:       "6863838107",
			Country:  "DE",
			Name:     "SNOCKS_DE_AT",
			Timezone: "Europe/Berlin",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS Deine Basics",
				NormalDesc:     "SNOCKS - deine liebsten Basics. Viele Teile aus Bio-Baumwolle",
				SaleTitle:      "SNOCKS - Bis zu 50% reduziert",
				SaleDesc:       "SNOCKS - bis zu 50% Sale auf deine liebsten Basics. Viele Teile aus Bio-Baumwolle",
				SaleTitle2Days: "Nur noch 2 Tage - Bis zu 50%",
				SaleDesc2Days:  "Nur noch 2 Tage - bis zu 50% Sale auf deine liebsten Snocks-Basics aus Bio-Baumwolle",
				SaleTitleLast:  "Nur noch heute - Bis zu 50%",
				SaleDescLast:   "Nur noch heute - bis zu 50% Sale auf deine liebsten Snocks-Basics aus Bio-Baumwolle",
			},
		},
		{
			ID:       "1593605425",
			Country:  "PL",
			Name:     "SNOCKS_PL",
			Timezone: "Europe/Warsaw",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS – Tylko najważniejsze",
				NormalDesc:     "SNOCKS – Tak wygodne, że już ich nie zdejmiesz.",
				SaleTitle:      "Black Friday: do -50 %",
				SaleDesc:       "Tylko teraz: do -50 % na nasze bestsellery Black Friday",
				SaleTitle2Days: "Tylko 2 dni: -50%",
				SaleDesc2Days:  "Tylko 2 dni do końca Black Friday: Zgarnij do -50% rabatu na nasze bestsellery!",
				SaleTitleLast:  "Ostatni dzień: -50%",
				SaleDescLast:   "Ostatni dzień Black Friday: Zgarnij do -50% rabatu na nasze bestsellery",
			},
		},
		{
			ID:       "7052478378",
			Country:  "FR",
			Name:     "SNOCKS_FR",
			Timezone: "Europe/Paris",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS - Juste l'essentiel.",
				NormalDesc:     "SNOCKS - Des essentiels en coton bio que tu ne voudras plus quitter.",
				SaleTitle:      "Jusqu'à -50 % de réduction",
				SaleDesc:       "Découvrez nos basiques en promotion pour le Black Friday avec jusqu'à -50%.",
				SaleTitle2Days: "Plus que 2 jours: -50%",
				SaleDesc2Days:  "Il ne vous reste que 2 jours pour profiter de jusqu'à -50% sur nos basiques Black Friday",
				SaleTitleLast:  "Dernier jour: -50%",
				SaleDescLast:   "Dernier jour : Profitez de jusqu'à -50% sur nos basiques pour Black Friday",
			},
		},
		{
			ID:       "4570652903",
			Country:  "IT",
			Name:     "SNOCKS_IT",
			Timezone: "Europe/Rome",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS - Solo l'essenziale",
				NormalDesc:     "SNOCKS - Talmente comodi che non li toglierai più.",
				SaleTitle:      "Sconti fino al 50% di sconto",
				SaleDesc:       "Approfitta subito degli sconti del Black Friday fino al 50% sui nostri capi basic.",
				SaleTitle2Days: "Mancano 2 giorni: -50%",
				SaleDesc2Days:  "Mancano solo 2 giorni per approfittare degli sconti Black Friday fino al 50% sui nostri capi basic",
				SaleTitleLast:  "Ultimo giorno: -50%",
				SaleDescLast:   "Ultimo giorno: Approfitta degli sconti Black Friday fino al 50% sui nostri capi basic",
			},
		},
		{
			ID:       "7585673823",
			Country:  "NL",
			Name:     "SNOCKS_NL",
			Timezone: "Europe/Amsterdam",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS - Alleen het nodige.",
				NormalDesc:     "SNOCKS - Zó comfy dat je ze altijd aan wilt houden.",
				SaleTitle:      "Tot 50% korting",
				SaleDesc:       "Ontdek onze basics in de uitverkoop voor Black Friday met tot 50% korting.",
				SaleTitle2Days: "Nog 2 dagen: 50% korting",
				SaleDesc2Days:  "Nog 2 dagen om onze basics met tot 50% korting te shoppen tijdens Black Friday",
				SaleTitleLast:  "Laatste dag: 50% korting",
				SaleDescLast:   "Laatste dag: Shop onze basics met tot 50% korting tijdens de Black Friday Sale",
			},
		},
		{
			ID:       "9911532742",
			Country:  "CH",
			Name:     "SNOCKS_CH",
			Timezone: "Europe/Zurich",
			Texts: &domain.SaleTexts{
				NormalTitle:    "SNOCKS Deine Basics",
				NormalDesc:     "SNOCKS - deine liebsten Basics. Viele Teile aus Bio-Baumwolle",
				SaleTitle:      "SNOCKS - Bis zu 50% reduziert",
				SaleDesc:       "SNOCKS - bis zu 50% Sale auf deine liebsten Basics. Viele Teile aus Bio-Baumwolle",
				SaleTitle2Days: "Nur noch 2 Tage - Bis zu 50%",
				SaleDesc2Days:  "Nur noch 2 Tage - bis zu 50% Sale auf deine liebsten Snocks-Basics aus Bio-Baumwolle",
				SaleTitleLast:  "Nur noch heute - Bis zu 50%",
				SaleDescLast:   "Nur noch heute - bis zu 50% Sale auf deine liebsten Snocks-Basics aus Bio-Baumwolle",
			},
		},
		{
			ID:       "1247881370",
			Country:  "DE",
			Name:     "OCEANS_APART_DE_AT",
			Timezone: "Europe/Berlin",
			Texts: &domain.SaleTexts{
				NormalTitle:    "Oceans Apart",
				NormalDesc:     "Oceans Apart - Activewear, die mit dir mitzieht.",
				SaleTitle:      "Oceans Apart - Bis zu 50% Sale",
				SaleDesc:       "Oceans Apart - bis zu 50% Sale auf deine liebsten Styles.",
				SaleTitle2Days: "Nur noch 2 Tage - Bis zu 50%",
				SaleDesc2Days:  "Nur noch 2 Tage - bis zu 50% Sale auf deine liebsten Oceans Apart Styles",
				SaleTitleLast:  "Nur noch heute - Bis zu 50%",
				SaleDescLast:   "Nur noch heute - bis zu 50% Sale auf deine liebsten Oceans Apart Styles",
			},
		},
	}
}

// defaultToggleTargets define o alvo padrão do toggle de sale: entidades com
// "sale" no nome são promocionais. Contas podem substituir por pares
// explícitos via override.
func defaultToggleTargets() []domain.ToggleTarget {
	return []domain.ToggleTarget{
		{
			Name:        "Sale",
			Enabled:     true,
			Promotional: domain.Contains("sale"),
		},
	}
}

// defaultMomentumFilters define as campanhas avaliadas pelo momentum de lance.
func defaultMomentumFilters() []domain.MomentumFilter {
	return []domain.MomentumFilter{
		{Name: "Search_Herren_Socken", Contains: "[Search]_Standard_DE_SO_Herren_Socken_Sneaker_Sport/Lauf_Baumwolle_Anzug", Enabled: true},
		{Name: "Search_Damen_Socken", Contains: "[Search]_Standard_DE_SO_Damen_Socken_Sneaker_Sport/Lauf", Enabled: true},
		{Name: "Search_Socken_Sport", Contains: "[Search]_Standard_DE_SO_Socken_Sneaker_Sport/Lauf", Enabled: true},
		{Name: "Search_Socks_Sneaker", Contains: "[Search]_Standard_DE_SO_Socks_Sneaker", Enabled: true},
		{Name: "PMax_Generic", Contains: "[Performance Max]_Generic_DE_[Socken][Sneaker Socken]", Enabled: true},
		{Name: "Shopping_Eigenschutz", Contains: "[Shopping]_Standard_DE_Eigenschutz_Socken", Enabled: true},
	}
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
