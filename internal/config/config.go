package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Quiz       QuizConfig       `mapstructure:"quiz"`
	Documents  DocumentsConfig  `mapstructure:"documents"`
	Outputs    OutputsConfig    `mapstructure:"outputs"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// ExtractionConfig tunes how the answer key section is located.
type ExtractionConfig struct {
	MinSplitOffset   int `mapstructure:"min_split_offset" validate:"gt=0"`
	DensityWindow    int `mapstructure:"density_window" validate:"gt=0"`
	DensityStep      int `mapstructure:"density_step" validate:"gt=0"`
	DensityThreshold int `mapstructure:"density_threshold" validate:"gt=0"`
}

type QuizConfig struct {
	StartQuestion int `mapstructure:"start_question" validate:"gte=1"`
	QuestionCount int `mapstructure:"question_count" validate:"gte=1"`
}

type DocumentsConfig struct {
	PDFToTextPath string `mapstructure:"pdftotext_path"`
}

type OutputsConfig struct {
	BankDirectory   string `mapstructure:"bank_directory"`
	ReportDirectory string `mapstructure:"report_directory"`
}

type TemplatesConfig struct {
	ReviewTemplate string `mapstructure:"review_template" validate:"omitempty,file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/exambank")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("extraction.min_split_offset", 5000)
	v.SetDefault("extraction.density_window", 2000)
	v.SetDefault("extraction.density_step", 1000)
	v.SetDefault("extraction.density_threshold", 15)
	v.SetDefault("quiz.start_question", 1)
	v.SetDefault("quiz.question_count", 100)
	v.SetDefault("documents.pdftotext_path", "pdftotext")
	v.SetDefault("outputs.bank_directory", filepath.Join("outputs", "banks"))
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.review_template", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("documents.pdftotext_path", "PDFTOTEXT_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind PDFTOTEXT_PATH environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
