// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads application settings from a YAML file and the
// environment.
package config

import (
	"time"

	"github.com/poiesic/digitalpulse/ai"
)

// Store backends.
const (
	BackendFlatfile = "flatfile"
	BackendBadger   = "badger"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "./digitalpulse.yaml"

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	AI       AIConfig       `yaml:"ai"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects and locates the record store.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"DP_STORE_BACKEND" env-default:"flatfile"`
	Path    string `yaml:"path"    env:"DP_STORE_PATH"    env-default:"./data"`
}

// AIConfig holds embedding and generation settings.
type AIConfig struct {
	EmbeddingProvider   string  `yaml:"embedding_provider"   env:"DP_EMBEDDING_PROVIDER"   env-default:"openai"`
	EmbeddingHost       string  `yaml:"embedding_host"       env:"DP_EMBEDDING_HOST"       env-default:"http://localhost:11434/v1"`
	EmbeddingModel      string  `yaml:"embedding_model"      env:"DP_EMBEDDING_MODEL"`
	EmbeddingDimensions int     `yaml:"embedding_dimensions" env:"DP_EMBEDDING_DIMENSIONS" env-default:"384"`
	GeneratorProvider   string  `yaml:"generator_provider"   env:"DP_GENERATOR_PROVIDER"   env-default:"openai"`
	GeneratorHost       string  `yaml:"generator_host"       env:"DP_GENERATOR_HOST"       env-default:"http://localhost:11434/v1"`
	GeneratorModel      string  `yaml:"generator_model"      env:"DP_GENERATOR_MODEL"`
	APIKey              string  `yaml:"api_key"              env:"DP_API_KEY"`
	Temperature         float64 `yaml:"temperature"          env:"DP_TEMPERATURE"          env-default:"0"`
}

// AnalysisConfig holds matching and pacing parameters. Zero is a valid
// threshold and pace, so their defaults come from Default rather than
// env-default tags.
type AnalysisConfig struct {
	Threshold float64       `yaml:"threshold" env:"DP_THRESHOLD"`
	TopK      int           `yaml:"top_k"     env:"DP_TOP_K"`
	Pace      time.Duration `yaml:"pace"      env:"DP_PACE"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"DP_SERVER_ADDR"             env-default:":8080"`
	CORSOrigins     []string      `yaml:"cors_origins"     env:"DP_CORS_ORIGINS"            env-default:"*"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"DP_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"DP_SERVER_WRITE_TIMEOUT"    env-default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DP_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DP_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"DP_LOG_FORMAT" env-default:"text"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Backend: BackendFlatfile, Path: "./data"},
		AI: AIConfig{
			EmbeddingProvider:   ai.ProviderOpenAI,
			EmbeddingHost:       "http://localhost:11434/v1",
			EmbeddingDimensions: ai.DefaultLocalDimensions,
			GeneratorProvider:   ai.ProviderOpenAI,
			GeneratorHost:       "http://localhost:11434/v1",
		},
		Analysis: AnalysisConfig{Threshold: 0.85, TopK: 7, Pace: time.Second},
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Provider converts the AI section into an ai.Config.
func (c AIConfig) Provider() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingProvider(c.EmbeddingProvider),
		ai.WithEmbeddingHost(c.EmbeddingHost),
		ai.WithEmbeddingModel(c.EmbeddingModel),
		ai.WithEmbeddingDimensions(c.EmbeddingDimensions),
		ai.WithGeneratorProvider(c.GeneratorProvider),
		ai.WithGeneratorHost(c.GeneratorHost),
		ai.WithGeneratorModel(c.GeneratorModel),
		ai.WithAPIKey(c.APIKey),
		ai.WithTemperature(c.Temperature),
	)
}
