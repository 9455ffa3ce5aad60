package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-screener/internal/screening"
)

const (
	app       = "cv-screener"
	envPrefix = "CV_SCREENER"
)

type Config struct {
	Store   *StoreConfig   `mapstructure:"store"`
	Server  *ServerConfig  `mapstructure:"server"`
	Batch   *BatchConfig   `mapstructure:"batch"`
	Filters *FiltersConfig `mapstructure:"filters"`
	AI      *AIConfig      `mapstructure:"ai"`
	// Catalog overrides the built-in term lists. It is decoded separately so
	// that unknown keys are reported.
	Catalog map[string]any `mapstructure:"catalog"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type FiltersConfig struct {
	MinimumScore    int      `mapstructure:"minimum-score"`
	Recommendations []string `mapstructure:"recommendations"`
	ExcludeFile     string   `mapstructure:"exclude-file"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	DropUnfit       bool          `mapstructure:"drop-unfit"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-screener scores résumés against a job description and keeps a screening history",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("store", "", "path to the sqlite history database. Empty disables the history.")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))

	setDefaults()
}

// setDefaults registers every key so that CV_SCREENER_* variables are picked
// up by Unmarshal even without a config file.
func setDefaults() {
	viper.SetDefault("store.path", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("batch.workers", 4)
	viper.SetDefault("filters.minimum-score", 0)
	viper.SetDefault("filters.recommendations", []string{})
	viper.SetDefault("filters.exclude-file", "")
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.minimum-fit-score", 0.5)
	viper.SetDefault("ai.drop-unfit", false)
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 2000)
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Batch == nil {
		config.Batch = &BatchConfig{}
	}
	if config.Filters == nil {
		config.Filters = &FiltersConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

// catalog returns the built-in catalog with the configured lists applied on
// top of it.
func (c *Config) catalog() (screening.Catalog, error) {
	base := screening.DefaultCatalog()
	if len(c.Catalog) == 0 {
		return base, nil
	}

	var override screening.Catalog
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &override,
	})
	if err != nil {
		return base, err
	}
	if err := decoder.Decode(c.Catalog); err != nil {
		return base, fmt.Errorf("decode catalog: %w", err)
	}

	return base.Merge(override), nil
}
