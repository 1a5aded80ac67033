package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type LinkConfig struct {
	Env               string `yaml:"env"`
	HTTPServer        `yaml:"http_server"`
	LinkDB            `yaml:"link_db"`
	LogConfig         `yaml:"log_config"`
	KafkaService      `yaml:"kafka-service"`
	GeoIPService      `yaml:"geoip-service"`
	ReputationService `yaml:"reputation-service"`
	Lifecycle         `yaml:"lifecycle"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LinkDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"link-events"`
}

type GeoIPService struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms" env-default:"1500"`
}

type ReputationService struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms" env-default:"2000"`
}

type Lifecycle struct {
	StaleClickHours int `yaml:"stale_click_hours" env-default:"24"`

	// generation batching
	ChunkSize    int `yaml:"chunk_size" env-default:"25"`
	ChunkDelayMs int `yaml:"chunk_delay_ms" env-default:"100"`
}

func MustLoad() *LinkConfig {

	// Processing env config variable and file
	configPath := os.Getenv("LINK_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("LINK_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg LinkConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
