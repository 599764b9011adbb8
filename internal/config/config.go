// Package config loads simulation settings, tables and seated bots from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdem-referee/internal/bot"
)

// Config represents the complete simulation configuration
type Config struct {
	Simulation Settings      `hcl:"simulation,block"`
	Tables     []TableConfig `hcl:"table,block"`
	Bots       []BotConfig   `hcl:"bot,block"`
}

// Settings contains run-level configuration
type Settings struct {
	Hands           int    `hcl:"hands,optional"`
	Seed            int64  `hcl:"seed,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	RestartDelay    string `hcl:"restart_delay,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	Database        string `hcl:"database,optional"` // SQLite file for run results, empty to skip
}

// TableConfig defines a poker table
type TableConfig struct {
	Name       string `hcl:"name,label"`
	SmallBlind int    `hcl:"small_blind"`
	BigBlind   int    `hcl:"big_blind"`
	MaxPlayers int    `hcl:"max_players,optional"`
	BuyIn      int    `hcl:"buy_in,optional"`
}

// BotConfig defines a bot and the tables it sits at
type BotConfig struct {
	Name     string   `hcl:"name,label"`
	Strategy string   `hcl:"strategy"`
	Tables   []string `hcl:"tables,optional"`
	BuyIn    int      `hcl:"buy_in,optional"`
}

// Default returns a single six-handed table of mixed bots
func Default() *Config {
	cfg := &Config{
		Simulation: Settings{Hands: 100},
		Tables: []TableConfig{
			{Name: "main", SmallBlind: 5, BigBlind: 10},
		},
	}
	for i, strategy := range []string{"chart", "tag", "call", "maniac", "random", "chart"} {
		cfg.Bots = append(cfg.Bots, BotConfig{
			Name:     fmt.Sprintf("%s-%d", strategy, i+1),
			Strategy: strategy,
		})
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from an HCL file, returning Default if it does not exist
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = 100
	}
	if c.Simulation.LogLevel == "" {
		c.Simulation.LogLevel = "info"
	}

	for i := range c.Tables {
		if c.Tables[i].MaxPlayers == 0 {
			c.Tables[i].MaxPlayers = 6
		}
		if c.Tables[i].BuyIn == 0 {
			c.Tables[i].BuyIn = c.Tables[i].BigBlind * 100 // 100 big blinds
		}
	}

	for i := range c.Bots {
		if len(c.Bots[i].Tables) == 0 {
			// If no tables specified, sit at all tables
			for _, table := range c.Tables {
				c.Bots[i].Tables = append(c.Bots[i].Tables, table.Name)
			}
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Simulation.Hands < 1 {
		return fmt.Errorf("hands must be positive, got %d", c.Simulation.Hands)
	}
	if _, err := log.ParseLevel(c.Simulation.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := c.RestartDelay(); err != nil {
		return err
	}
	if _, err := c.DecisionTimeout(); err != nil {
		return err
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, table := range c.Tables {
		if seen[table.Name] {
			return fmt.Errorf("table %s: defined twice", table.Name)
		}
		seen[table.Name] = true

		if table.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", table.Name)
		}
		if table.BigBlind < table.SmallBlind {
			return fmt.Errorf("table %s: big blind must be at least the small blind", table.Name)
		}
		if table.MaxPlayers < 2 || table.MaxPlayers > 10 {
			return fmt.Errorf("table %s: max players must be between 2 and 10", table.Name)
		}
		if table.BuyIn < table.BigBlind {
			return fmt.Errorf("table %s: buy-in must cover the big blind", table.Name)
		}
		if n := len(c.BotsForTable(table.Name)); n > table.MaxPlayers {
			return fmt.Errorf("table %s: %d bots for %d seats", table.Name, n, table.MaxPlayers)
		}
	}

	for _, b := range c.Bots {
		if !bot.Known(b.Strategy) {
			return fmt.Errorf("bot %s: invalid strategy %s", b.Name, b.Strategy)
		}
		if b.BuyIn < 0 {
			return fmt.Errorf("bot %s: buy-in must not be negative", b.Name)
		}
		for _, name := range b.Tables {
			if c.TableByName(name) == nil {
				return fmt.Errorf("bot %s: unknown table %s", b.Name, name)
			}
		}
	}

	return nil
}

// RestartDelay parses the inter-hand pause; zero when unset
func (c *Config) RestartDelay() (time.Duration, error) {
	return parseDuration("restart_delay", c.Simulation.RestartDelay)
}

// DecisionTimeout parses the per-decision limit; zero when unset
func (c *Config) DecisionTimeout() (time.Duration, error) {
	return parseDuration("decision_timeout", c.Simulation.DecisionTimeout)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

// TableByName returns a table configuration by name
func (c *Config) TableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// BotsForTable returns all bots configured for a specific table
func (c *Config) BotsForTable(tableName string) []BotConfig {
	var bots []BotConfig
	for _, b := range c.Bots {
		for _, table := range b.Tables {
			if table == tableName {
				bots = append(bots, b)
				break
			}
		}
	}
	return bots
}

// StackFor returns the buy-in a bot brings to a table
func (c *Config) StackFor(b BotConfig, table *TableConfig) int {
	if b.BuyIn > 0 {
		return b.BuyIn
	}
	return table.BuyIn
}
