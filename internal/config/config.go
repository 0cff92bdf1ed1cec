package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/wind-turbine-etl/internal/domain"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	Dataset        domain.DatasetKey
	DatasetBaseURL string        `validate:"required,url"`
	DatasetTimeout time.Duration `validate:"gt=0"`
	DataFile       string
	CacheDir       string

	OutputDir     string `validate:"required"`
	MapBackground string
	XLSXPath      string

	KafkaBrokers []string
	KafkaTopic   string

	PushgatewayURL string `validate:"omitempty,url"`
	LogLevel       string `validate:"oneof=debug info warn error"`
	LogFormat      string `validate:"oneof=json text"`

	Animation domain.AnimationConfig
}

// envNames maps validated struct fields back to the variables that set them.
var envNames = map[string]string{
	"DatasetBaseURL": "DATASET_BASE_URL",
	"DatasetTimeout": "DATASET_TIMEOUT",
	"OutputDir":      "OUTPUT_DIR",
	"PushgatewayURL": "PUSHGATEWAY_URL",
	"LogLevel":       "LOG_LEVEL",
	"LogFormat":      "LOG_FORMAT",
	"Frames":         "ANIMATION_FRAMES",
	"Duration":       "ANIMATION_DURATION",
	"StartPause":     "ANIMATION_START_PAUSE",
	"EndPause":       "ANIMATION_END_PAUSE",
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	year, err := envInt("DATASET_YEAR", domain.DefaultDatasetKey.Year)
	if err != nil {
		return nil, err
	}
	week, err := envInt("DATASET_WEEK", domain.DefaultDatasetKey.Week)
	if err != nil {
		return nil, err
	}
	if week < 1 || week > 53 {
		return nil, errors.New("invalid DATASET_WEEK: must be between 1 and 53")
	}
	timeout, err := envDuration("DATASET_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	anim, err := loadAnimation()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		Dataset: domain.DatasetKey{
			Name: sharedcfg.EnvOrDefault("DATASET_NAME", domain.DefaultDatasetKey.Name),
			Year: year,
			Week: week,
		},
		DatasetBaseURL: sharedcfg.EnvOrDefault("DATASET_BASE_URL", "https://raw.githubusercontent.com/rfordatascience/tidytuesday/master/data"),
		DatasetTimeout: timeout,
		DataFile:       os.Getenv("DATA_FILE"),
		CacheDir:       os.Getenv("CACHE_DIR"),
		OutputDir:      sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		MapBackground:  os.Getenv("MAP_BACKGROUND"),
		XLSXPath:       os.Getenv("XLSX_PATH"),
		KafkaBrokers:   brokers,
		KafkaTopic:     sharedcfg.EnvOrDefault("KAFKA_TOPIC", "wind-projects"),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		LogLevel:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "json")),
		Animation:      anim,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if moving := anim.Frames - anim.StartPause - anim.EndPause; moving < 1 {
		return nil, fmt.Errorf("invalid ANIMATION_FRAMES: %d frames leave no room for pauses of %d and %d",
			anim.Frames, anim.StartPause, anim.EndPause)
	}

	return cfg, nil
}

// KafkaEnabled reports whether project summaries should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func loadAnimation() (domain.AnimationConfig, error) {
	anim := domain.DefaultAnimationConfig()
	var err error
	if anim.Frames, err = envInt("ANIMATION_FRAMES", anim.Frames); err != nil {
		return anim, err
	}
	if anim.Duration, err = envDuration("ANIMATION_DURATION", anim.Duration); err != nil {
		return anim, err
	}
	if anim.StartPause, err = envInt("ANIMATION_START_PAUSE", anim.StartPause); err != nil {
		return anim, err
	}
	if anim.EndPause, err = envInt("ANIMATION_END_PAUSE", anim.EndPause); err != nil {
		return anim, err
	}
	return anim, nil
}

// describe turns validator errors into messages naming the environment variable.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := envNames[fe.Field()]
		if !ok {
			name = fe.Namespace()
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s (%s)", name, fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
