package main

import (
	"fmt"
	"math/rand"

	"investportal/internal/seed"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Submit generated applications to the backend",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of applications to submit",
			Value:   10,
		},
		&cli.Int64Flag{
			Name:  "rand-seed",
			Usage: "Seed for the fixture generator; 0 picks one from the clock",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(cfg)
		client := newAPIClient(cfg, logger)

		var rng *rand.Rand
		if s := c.Int64("rand-seed"); s != 0 {
			rng = rand.New(rand.NewSource(s))
		}

		logger.WithField("count", c.Int("count")).Info("seeding applications...")
		if _, err := seed.SeedFakeApplications(c.Context, client, logger, rng, c.Int("count")); err != nil {
			return fmt.Errorf("failed to seed applications: %w", err)
		}

		return nil
	},
}
