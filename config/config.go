package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	SourceDir           string              `mapstructure:"source_dir"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	Search              SearchConfig        `mapstructure:"search"`
	// Indexes maps every served index to its namespaces. It seeds the
	// handle registry used by the search API.
	Indexes map[string][]string `mapstructure:"indexes"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
	// Embedding is computed by the index itself; these pick the module,
	// model and the record field fed into it.
	Vectorizer     string `mapstructure:"vectorizer"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	TextField      string `mapstructure:"text_field"`
	Reranker       string `mapstructure:"reranker"`
}

type SearchConfig struct {
	DefaultIndex     string `mapstructure:"default_index"`
	DefaultNamespace string `mapstructure:"default_namespace"`
	DefaultTopK      int    `mapstructure:"default_top_k"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("WEAVIATE_APIKEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Search.DefaultTopK == 0 {
		config.Search.DefaultTopK = 10
	}
	if config.WeaviateStoreConfig.TextField == "" {
		config.WeaviateStoreConfig.TextField = "text"
	}

	return &config, nil
}
