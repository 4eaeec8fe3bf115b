// Package config loads service configuration from the environment
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Config holds everything the fern CLI reads from the environment. Flags on
// individual commands override the corresponding fields. The dataset path
// defaults mirror the classic Zagat/Fodor's layout.
type Config struct {
	AppName    string `env:"APP_NAME" env-default:"fern"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Input files
	DatasetAName       string `env:"DATASET_A_NAME" env-default:"zagat"`
	DatasetBName       string `env:"DATASET_B_NAME" env-default:"fodors"`
	DatasetAPath       string `env:"DATASET_A_PATH" env-default:"data/zagat.csv"`
	DatasetBPath       string `env:"DATASET_B_PATH" env-default:"data/fodors.csv"`
	KnownMatchesPath   string `env:"KNOWN_MATCHES_PATH" env-default:"data/known_links.csv"`
	KnownUnmatchesPath string `env:"KNOWN_UNMATCHES_PATH" env-default:"data/unmatch_pairs.csv"`
	OutputPath         string `env:"OUTPUT_PATH" env-default:"output/labeled_pairs.csv"`

	// Linkage parameters
	Mu          float64 `env:"LINK_MU" env-default:"0.005"`
	Lambda      float64 `env:"LINK_LAMBDA" env-default:"0.005"`
	BlockOnCity bool    `env:"LINK_BLOCK_ON_CITY" env-default:"false"`
	CityField   string  `env:"LINK_CITY_FIELD" env-default:"city"`

	// Processing
	LinkWorkerCount int `env:"LINK_WORKER_COUNT" env-default:"4"`

	// SQLite staging store
	DatabasePath        string `env:"DB_PATH" env-default:"fern.db"`
	MigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/sqlite"`

	// Tracing
	TracingExporter string `env:"TRACING_EXPORTER" env-default:"console"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol    string `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure    bool   `env:"OTLP_INSECURE" env-default:"true"`
}

// Load binds the environment onto the tagged Config struct. Any variable that
// fails to parse for its field type is an error, not a silent default.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment config")
	}
	return &cfg, nil
}
