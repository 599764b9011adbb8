package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lox/holdem-referee/internal/store"
)

// HistoryCmd lists runs recorded by simulate
type HistoryCmd struct {
	DB    string `arg:"" optional:"" default:"holdem.db" help:"SQLite file written by simulate" type:"existingfile"`
	Limit int    `short:"n" default:"10" help:"Number of runs to show"`
	ID    string `name:"run" help:"Show the tables of one run"`
}

func (c *HistoryCmd) Run(cli *CLI) error {
	logger, err := newLogger(cli.LogLevel)
	if err != nil {
		return err
	}
	db, err := store.Open(c.DB, store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if c.ID != "" {
		run, err := db.Run(ctx, c.ID)
		if err != nil {
			return err
		}
		fmt.Println(renderRun(*run))
		return nil
	}

	runs, err := db.RecentRuns(ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, infoStyle.Render("no runs recorded in "+c.DB))
		return nil
	}
	totals, err := db.StrategyTotals(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(" Runs "))
	fmt.Println(renderRuns(runs))
	fmt.Println(titleStyle.Render(" All-time strategies "))
	fmt.Println(renderStrategyTotals(totals))
	return nil
}
