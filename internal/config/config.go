package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFile    = "data/config.yaml"
	configFileEnv = "CONFIG_FILE"
)

type config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Postgres PostgresConfig `yaml:"postgres"`
	Cache    CacheConfig    `yaml:"cache"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Telegram TelegramConfig `yaml:"telegram"`
	Jaeger   JaegerConfig   `yaml:"jaeger"`
}

type Service struct {
	config config
}

// New reads the yaml config, then applies overrides from the environment
// (an optional .env file is loaded first).
func New() (*Service, error) {
	_ = godotenv.Load()

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = configFile
	}

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{config: defaults()}

	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}
	s.applyEnv()

	return s, nil
}

func defaults() config {
	return config{
		App: AppConfig{
			ServiceName:  "earnings-tracker",
			LocationName: "UTC",
			WarmOnChange: true,
		},
		HTTP: HTTPConfig{
			Address:          ":8080",
			RequestsPerSec:   10,
			Burst:            20,
			TimeoutSec:       10,
			AllowedOriginSet: []string{"*"},
		},
		Auth: AuthConfig{
			TokenIssuer:   "EarningTrackerApi",
			TokenAudience: "EarningTrackerApp",
			TTLMinutes:    60,
		},
		Postgres: PostgresConfig{
			Hostname: "localhost",
			PortNum:  5432,
			SSL:      "disable",
		},
		Cache: CacheConfig{
			BackendName: CacheMemory,
			TTLSeconds:  300,
		},
		Kafka: KafkaConfig{
			Consumer: "earnings-tracker-reporter",
			RecTopic: "records-changed",
		},
	}
}

func (s *Service) applyEnv() {
	overrides := map[string]*string{
		"POSTGRES_PASSWORD": &s.config.Postgres.Pswd,
		"POSTGRES_HOST":     &s.config.Postgres.Hostname,
		"JWT_SECRET":        &s.config.Auth.Secret,
		"TELEGRAM_TOKEN":    &s.config.Telegram.ApiToken,
		"REDIS_ADDR":        &s.config.Cache.Redis.Address,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}

func (s *Service) HTTP() *HTTPConfig {
	return &s.config.HTTP
}

func (s *Service) Auth() *AuthConfig {
	return &s.config.Auth
}

func (s *Service) Postgres() *PostgresConfig {
	return &s.config.Postgres
}

func (s *Service) Cache() *CacheConfig {
	return &s.config.Cache
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Jaeger() *JaegerConfig {
	return &s.config.Jaeger
}
