package config

// Config represents the complete Simulor configuration.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Trading defaults shared by backtest and live runs
	Trading TradingConfig `yaml:"trading" mapstructure:"trading"`

	// Longbridge broker credentials. Environment variables take
	// precedence over the config file.
	Longbridge LongbridgeConfig `yaml:"longbridge" mapstructure:"longbridge"`
}

// GlobalConfig holds global application settings.
type GlobalConfig struct {
	// Output format: table, json, plain
	Output string `yaml:"output" mapstructure:"output"`

	// Number of concurrent workers for quote polling
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// TradingConfig holds default run parameters.
type TradingConfig struct {
	// Starting capital for backtests and allocation for live runs
	Capital string `yaml:"capital" mapstructure:"capital"`

	// Fraction of allocated capital kept in cash
	ReservePct float64 `yaml:"reserve_pct" mapstructure:"reserve_pct"`

	// Maximum single-position fraction of equity
	MaxPosition float64 `yaml:"max_position" mapstructure:"max_position"`
}

// LongbridgeConfig holds Longbridge OpenAPI credentials.
type LongbridgeConfig struct {
	AppKey      string `yaml:"app_key" mapstructure:"app_key"`
	AppSecret   string `yaml:"app_secret" mapstructure:"app_secret"`
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			Output:      "table",
			Concurrency: 4,
		},
		Trading: TradingConfig{
			Capital:     "100000",
			ReservePct:  0.05,
			MaxPosition: 0.25,
		},
		Longbridge: LongbridgeConfig{},
	}
}
