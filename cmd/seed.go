package main

import (
	"context"

	"github.com/spf13/cobra"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/pkg/generator"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with demo records",
	Long: `Populate the store with realistic demo records for every
entity kind: farmers, farms, crops, crop cycles, growth records,
inventory, suppliers, equipment, market prices, weather records,
soil analyses and task schedules.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	registerDBFlags(seedCmd, "seed")
}

func runSeed(_ *cobra.Command, _ []string) error {
	logger := GetLogger()
	logger.Info("seeding demo data")

	db, err := store.NewDB(dbConfigFromViper("seed", logger))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if err := store.CloseDB(db, logger); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	repos := store.NewRepositories(db, logger)
	seeder := generator.NewSeeder(repos, logger)

	if err := seeder.Seed(context.Background()); err != nil {
		logger.Error("seeding failed", "error", err)
		return err
	}

	logger.Info("seeding completed")
	return nil
}
