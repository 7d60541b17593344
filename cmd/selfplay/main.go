package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tichu/internal/bot"
	"tichu/internal/config"
	"tichu/internal/log"
	"tichu/internal/selfplay"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Run self-play matches between four search agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		log.Init("selfplay", cfg.Log.Level)
		return run(cmd.Context(), cfg)
	},
}

func run(ctx context.Context, cfg *config.Configuration) error {
	botCfg := bot.Config{
		Samples:        cfg.Search.Samples,
		Workers:        cfg.Search.Workers,
		MaxDepth:       cfg.Search.MaxDepth,
		NodeBudget:     cfg.Search.NodeBudget,
		TopK:           cfg.Search.TopK,
		PruneThreshold: cfg.Search.PruneThreshold,
		TimeBudget:     time.Duration(cfg.Search.TimeBudgetMs) * time.Millisecond,
		Aggregation:    bot.Aggregation(cfg.Search.Aggregation),
	}

	wins := [2]int{}
	for i := 0; i < cfg.Selfplay.Matches; i++ {
		seed := cfg.Selfplay.Seed + int64(i)

		var agents [4]selfplay.Agent
		for seat := 0; seat < 4; seat++ {
			seatCfg := botCfg
			seatCfg.Seed = seed*4 + int64(seat)
			agents[seat] = bot.New(seatCfg, nil, nil)
		}

		driver := selfplay.New(agents, cfg.Selfplay.TargetScore, cfg.Selfplay.MaxRounds, seed)
		result, err := driver.Run(ctx)
		if err != nil {
			return err
		}
		if result.Winner >= 0 {
			wins[result.Winner]++
		}
	}

	log.Info("batch finished", "matches", cfg.Selfplay.Matches, "wins", wins)
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "path to the configuration file")
	if err := rootCmd.Execute(); err != nil {
		log.Error("selfplay failed", "err", err)
		os.Exit(1)
	}
}
