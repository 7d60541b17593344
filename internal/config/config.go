package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SearchConf bounds a single bot decision.
type SearchConf struct {
	Samples        int    `mapstructure:"samples"`
	Workers        int    `mapstructure:"workers"`
	MaxDepth       int    `mapstructure:"maxDepth"`
	NodeBudget     int    `mapstructure:"nodeBudget"`
	TopK           int    `mapstructure:"topK"`
	PruneThreshold int    `mapstructure:"pruneThreshold"`
	TimeBudgetMs   int    `mapstructure:"timeBudgetMs"`
	Aggregation    string `mapstructure:"aggregation"`
}

// SelfplayConf shapes a batch of self-play matches.
type SelfplayConf struct {
	Matches     int   `mapstructure:"matches"`
	TargetScore int   `mapstructure:"targetScore"`
	MaxRounds   int   `mapstructure:"maxRounds"`
	Seed        int64 `mapstructure:"seed"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type Configuration struct {
	Search   SearchConf   `mapstructure:"search"`
	Selfplay SelfplayConf `mapstructure:"selfplay"`
	Log      LogConf      `mapstructure:"log"`
}

// Load reads the configuration file, layering it over defaults and
// TICHU_-prefixed environment variables. An empty path returns defaults.
func Load(configFile string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("tichu")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.samples", 8)
	v.SetDefault("search.workers", 0)
	v.SetDefault("search.maxDepth", 6)
	v.SetDefault("search.nodeBudget", 200000)
	v.SetDefault("search.topK", 12)
	v.SetDefault("search.pruneThreshold", 16)
	v.SetDefault("search.timeBudgetMs", 500)
	v.SetDefault("search.aggregation", "mean")
	v.SetDefault("selfplay.matches", 1)
	v.SetDefault("selfplay.targetScore", 1000)
	v.SetDefault("selfplay.maxRounds", 50)
	v.SetDefault("selfplay.seed", 1)
	v.SetDefault("log.level", "info")
}

func (c *Configuration) validate() error {
	if c.Search.Samples <= 0 {
		return fmt.Errorf("search.samples must be positive, got %d", c.Search.Samples)
	}
	if c.Search.MaxDepth <= 0 {
		return fmt.Errorf("search.maxDepth must be positive, got %d", c.Search.MaxDepth)
	}
	switch c.Search.Aggregation {
	case "mean", "minimum":
	default:
		return fmt.Errorf("search.aggregation must be mean or minimum, got %q", c.Search.Aggregation)
	}
	if c.Selfplay.TargetScore <= 0 {
		return fmt.Errorf("selfplay.targetScore must be positive, got %d", c.Selfplay.TargetScore)
	}
	return nil
}
