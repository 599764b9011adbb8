package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-referee/internal/config"
	"github.com/lox/holdem-referee/internal/simulator"
	"github.com/lox/holdem-referee/internal/store"
)

// SimulateCmd runs the tables from a config file
type SimulateCmd struct {
	Config string `arg:"" optional:"" default:"holdem.hcl" help:"HCL config file; built-in tables are used when it does not exist" type:"path"`
	Hands  int    `short:"n" help:"Hands per table; overrides the config file"`
	Seed   *int64 `help:"Deterministic RNG seed; overrides the config file"`
	DB     string `name:"db" help:"SQLite file to record the run in; overrides the config file" type:"path"`
}

func (c *SimulateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Hands > 0 {
		cfg.Simulation.Hands = c.Hands
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.DB != "" {
		cfg.Simulation.Database = c.DB
	}

	logger, err := newLogger(cli.LogLevel, cfg.Simulation.LogLevel)
	if err != nil {
		return err
	}

	sim, err := simulator.New(cfg, simulator.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation",
		"config", c.Config,
		"tables", len(cfg.Tables),
		"bots", len(cfg.Bots),
		"hands", cfg.Simulation.Hands,
		"seed", cfg.Simulation.Seed)

	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	for _, t := range res.Tables {
		fmt.Println(renderTableResult(t))
	}
	fmt.Println(titleStyle.Render(" Strategies "))
	fmt.Println(renderStrategies(res.ByStrategy()))
	fmt.Println(infoStyle.Render(fmt.Sprintf("%d hands in %s", res.Hands(), res.Elapsed.Round(time.Millisecond))))

	if cfg.Simulation.Database != "" {
		db, err := store.Open(cfg.Simulation.Database, store.WithLogger(logger))
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.SaveResult(ctx, c.Config, cfg.Simulation.Seed, res)
		if err != nil {
			return err
		}
		logger.Info("Saved run", "id", run.ID, "database", cfg.Simulation.Database)
	}

	if !res.Conserved() {
		return fmt.Errorf("chip conservation failed")
	}
	return nil
}
