package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name inside a project directory.
const FileName = "stmtnorm.yaml"

// Config represents the top-level stmtnorm.yaml configuration.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction" validate:"required"`
	Currency   CurrencyConfig   `yaml:"currency" validate:"required"`
	Processing ProcessingConfig `yaml:"processing" validate:"required"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExtractionConfig controls text mining and keyword tables.
type ExtractionConfig struct {
	DateKeywords         []string `yaml:"date_keywords"`
	AmountKeywords       []string `yaml:"amount_keywords"`
	DescriptionKeywords  []string `yaml:"description_keywords"`
	DebitKeywords        []string `yaml:"debit_keywords" validate:"dive,required"`
	CreditKeywords       []string `yaml:"credit_keywords" validate:"dive,required"`
	MinDescriptionLength int      `yaml:"min_description_length" validate:"gte=0"`
	ExtractFromText      bool     `yaml:"extract_from_text"`
	ContextRadius        int      `yaml:"context_radius" validate:"gte=0,lte=10"`
}

// CurrencyConfig sets the fallback currency.
type CurrencyConfig struct {
	Default string `yaml:"default" validate:"required,len=3,uppercase"`
}

// ProcessingConfig controls the batch worker pool.
type ProcessingConfig struct {
	Workers       int    `yaml:"workers" validate:"gte=1,lte=256"`
	SourceAccount string `yaml:"source_account" validate:"required"`
}

// LoggingConfig sets the log level ("debug", "info", ...).
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads a stmtnorm.yaml file from disk. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is given.
// Keyword tables target Russian/Kazakh statements.
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			DateKeywords: []string{"дата", "date", "число", "когда", "время"},
			AmountKeywords: []string{
				"сумма", "amount", "деньги", "тенге", "рубль", "доллар", "евро",
				"оплата", "платеж", "перевод", "покупка", "расход", "доход",
			},
			DescriptionKeywords: []string{
				"описание", "комментарий", "назначение", "за что", "детали",
				"магазин", "услуга", "товар", "покупка",
			},
			DebitKeywords: []string{
				"оплата", "покупка", "расход", "списание", "перевод", "платеж",
				"оплачено", "потрачено", "снято", "дебет", "трата",
			},
			CreditKeywords: []string{
				"поступление", "доход", "зачисление", "получено", "кредит",
				"зарплата", "возврат", "пополнение", "приход",
			},
			MinDescriptionLength: 3,
			ExtractFromText:      true,
			ContextRadius:        2,
		},
		Currency: CurrencyConfig{
			Default: "KZT",
		},
		Processing: ProcessingConfig{
			Workers:       4,
			SourceAccount: "Unknown",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
