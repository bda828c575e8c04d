package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Refdata    RefdataConfig    `yaml:"refdata" mapstructure:"refdata"`
	Evaluation EvaluationConfig `yaml:"evaluation" mapstructure:"evaluation"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RefdataConfig points at reference tables. An empty path uses the tables
// compiled into the binary.
type RefdataConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// EvaluationConfig holds the verdict policy and evaluation defaults. Rates
// are fractions.
type EvaluationConfig struct {
	BuyMinDSCR        float64 `yaml:"buy_min_dscr" mapstructure:"buy_min_dscr"`
	CautionMinDSCR    float64 `yaml:"caution_min_dscr" mapstructure:"caution_min_dscr"`
	TargetIRR         float64 `yaml:"target_irr" mapstructure:"target_irr"`
	DiscountRate      float64 `yaml:"discount_rate" mapstructure:"discount_rate"`
	SellingCostRate   float64 `yaml:"selling_cost_rate" mapstructure:"selling_cost_rate"`
	PriceBand         float64 `yaml:"price_band" mapstructure:"price_band"`
	HorizonYears      int     `yaml:"horizon_years" mapstructure:"horizon_years"`
	MarginalTaxRate   float64 `yaml:"marginal_tax_rate" mapstructure:"marginal_tax_rate"`
	SocialChargesRate float64 `yaml:"social_charges_rate" mapstructure:"social_charges_rate"`
	ForwardLooking    bool    `yaml:"forward_looking" mapstructure:"forward_looking"`
}

// BatchConfig configures batch evaluation.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ExportConfig configures spreadsheet export.
type ExportConfig struct {
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("refdata.path", "")
	v.SetDefault("evaluation.buy_min_dscr", 1.2)
	v.SetDefault("evaluation.caution_min_dscr", 1.0)
	v.SetDefault("evaluation.target_irr", 0.06)
	v.SetDefault("evaluation.discount_rate", 0.05)
	v.SetDefault("evaluation.selling_cost_rate", 0.08)
	v.SetDefault("evaluation.price_band", 0.05)
	v.SetDefault("evaluation.horizon_years", 30)
	v.SetDefault("evaluation.marginal_tax_rate", 0.30)
	v.SetDefault("evaluation.social_charges_rate", 0.172)
	v.SetDefault("evaluation.forward_looking", true)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("export.sheet_name", "Cash Flow")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration needed by a command mode: "evaluate",
// "batch" or "export".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "evaluate", "batch", "export":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	e := c.Evaluation
	if e.CautionMinDSCR < 0 {
		errs = append(errs, "evaluation.caution_min_dscr must be >= 0")
	}
	if e.BuyMinDSCR < e.CautionMinDSCR {
		errs = append(errs, "evaluation.buy_min_dscr must be >= evaluation.caution_min_dscr")
	}
	if e.DiscountRate <= -1 {
		errs = append(errs, "evaluation.discount_rate must be > -1")
	}
	for name, v := range map[string]float64{
		"evaluation.selling_cost_rate":   e.SellingCostRate,
		"evaluation.price_band":          e.PriceBand,
		"evaluation.marginal_tax_rate":   e.MarginalTaxRate,
		"evaluation.social_charges_rate": e.SocialChargesRate,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", name))
		}
	}
	if e.HorizonYears < 1 || e.HorizonYears > 50 {
		errs = append(errs, "evaluation.horizon_years must be between 1 and 50")
	}

	switch mode {
	case "batch":
		if c.Batch.Concurrency < 1 {
			errs = append(errs, "batch.concurrency must be >= 1")
		}
	case "export":
		if strings.TrimSpace(c.Export.SheetName) == "" {
			errs = append(errs, "export.sheet_name is required")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
