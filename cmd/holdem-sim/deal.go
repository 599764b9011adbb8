package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/holdem-referee/internal/bot"
	"github.com/lox/holdem-referee/internal/config"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/internal/phh"
	"github.com/lox/holdem-referee/internal/randutil"
)

// DealCmd plays one hand at a configured table and narrates it
type DealCmd struct {
	Config string `arg:"" optional:"" default:"holdem.hcl" help:"HCL config file; built-in tables are used when it does not exist" type:"path"`
	Table  string `short:"t" help:"Table to deal at (defaults to the first)"`
	Seed   *int64 `help:"Deterministic RNG seed; overrides the config file"`
	PHH    string `name:"phh" help:"Write the hand history to this file in PHH format" type:"path"`
}

func (c *DealCmd) Run(cli *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cli.LogLevel, cfg.Simulation.LogLevel)
	if err != nil {
		return err
	}

	tc := &cfg.Tables[0]
	if c.Table != "" {
		if tc = cfg.TableByName(c.Table); tc == nil {
			return fmt.Errorf("unknown table %q", c.Table)
		}
	}
	timeout, _ := cfg.DecisionTimeout()

	rng := randutil.ForSeed(cfg.Simulation.Seed)
	eng, err := game.New(
		game.Config{SmallBlind: tc.SmallBlind, BigBlind: tc.BigBlind, MaxSeats: tc.MaxPlayers},
		game.WithLogger(logger.WithPrefix(tc.Name)),
		game.WithRandSource(rng),
		game.WithDecisionTimeout(timeout),
		game.WithObserver(narrator()),
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	for i, b := range cfg.BotsForTable(tc.Name) {
		if err := eng.AddPlayer(b.Name, b.Name, cfg.StackFor(b, tc)); err != nil {
			return err
		}
		agent, err := bot.New(b.Strategy, randutil.ForSeed(botSeed(cfg.Simulation.Seed, i)), logger)
		if err != nil {
			return err
		}
		if err := eng.SetAgent(b.Name, agent); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render(fmt.Sprintf(" ♠ ♥ %s %d/%d ♦ ♣ ", tc.Name, tc.SmallBlind, tc.BigBlind)))
	winners, err := eng.PlayHand(ctx)
	if err != nil {
		return err
	}

	// The referee view reveals every hand once it is over
	final := eng.Snapshot()
	fmt.Println()
	for _, p := range final.Players {
		fmt.Printf("  %-12s %s  %d chips\n", p.Name, renderCards(p.HoleCards), p.Chips)
	}
	fmt.Printf("  %-12s %s\n\n", "board", renderCards(final.CommunityCards))
	for _, w := range winners {
		fmt.Println(winStyle.Render(fmt.Sprintf("%s wins %d (%s)", w.Name, w.Amount, w.HandDescription)))
	}

	if c.PHH == "" {
		return nil
	}
	hist, err := phh.FromHand(tc.Name, final, eng.ActionLog())
	if err != nil {
		return err
	}
	if err := phh.WriteFile(c.PHH, hist); err != nil {
		return err
	}
	logger.Info("Hand history written", "path", c.PHH, "hand", hist.HandID)
	return nil
}

// narrator prints each action and street as the hand is played
func narrator() game.Observer {
	var board int
	return game.ObserverFuncs{
		StateChange: func(s game.Snapshot) {
			if len(s.CommunityCards) > board {
				board = len(s.CommunityCards)
				fmt.Printf("%s %s\n", phaseStyle.Render(fmt.Sprintf("%-8s", street(board))), renderCards(s.CommunityCards))
			}
		},
		PlayerAction: func(p game.PlayerSnapshot, a game.Action, amount int) {
			line := fmt.Sprintf("  %-12s %-6s", p.Name, a)
			if amount > 0 {
				line += fmt.Sprintf(" %d", amount)
			}
			fmt.Println(line + infoStyle.Render(fmt.Sprintf("  (%d behind)", p.Chips)))
		},
		Showdown: func([]game.WinnerReport) {
			fmt.Println(phaseStyle.Render("showdown"))
		},
	}
}

func street(board int) string {
	switch board {
	case 3:
		return "flop"
	case 4:
		return "turn"
	default:
		return "river"
	}
}

// botSeed keeps bots on separate streams; zero stays unseeded
func botSeed(seed int64, seat int) int64 {
	if seed == 0 {
		return 0
	}
	return seed + int64(seat) + 1
}
