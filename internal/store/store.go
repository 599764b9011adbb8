// Package store persists simulation results to SQLite so runs can be
// compared over time.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/holdem-referee/internal/simulator"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// DB wraps the GORM connection
type DB struct {
	*gorm.DB
}

// Option configures Open
type Option func(*gorm.Config)

// WithLogger routes slow queries and errors to a charm logger
func WithLogger(l *log.Logger) Option {
	return func(cfg *gorm.Config) {
		if l == nil {
			return
		}
		cfg.Logger = logger.New(l.WithPrefix("store"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
}

// Open connects to the SQLite database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string, opts ...Option) (*DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Discard,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}, &TableRun{}, &SeatRun{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DB{db}, nil
}

// Close releases the connection
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveResult stores a finished simulation with its tables and seats
func (d *DB) SaveResult(ctx context.Context, source string, seed int64, res *simulator.Result) (*Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	run := &Run{
		ID:        id.String(),
		Config:    source,
		Seed:      seed,
		Hands:     res.Hands(),
		ElapsedMS: res.Elapsed.Milliseconds(),
		Conserved: res.Conserved(),
	}
	for _, t := range res.Tables {
		tr := TableRun{
			Name:      t.Name,
			BigBlind:  t.BigBlind,
			Hands:     t.Hands,
			Showdowns: t.Showdowns,
			ChipsIn:   t.ChipsIn,
			ChipsOut:  t.ChipsOut,
			Stopped:   t.Stopped,
		}
		for _, seat := range t.Seats {
			s := seat.Stats
			tr.Seats = append(tr.Seats, SeatRun{
				BotID:           seat.ID,
				Strategy:        seat.Strategy,
				StartChips:      seat.StartChips,
				EndChips:        seat.EndChips,
				Hands:           s.Hands,
				NetBB:           s.SumBB,
				StdDevBB:        s.StdDev(),
				ShowdownWins:    s.ShowdownWins,
				NonShowdownWins: s.NonShowdownWins,
			})
		}
		run.Tables = append(run.Tables, tr)
	}

	if err := d.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// Run loads one run with its tables and seats
func (d *DB) Run(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := d.WithContext(ctx).
		Preload("Tables.Seats").
		Where("id = ?", id).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := d.WithContext(ctx).
		Preload("Tables.Seats").
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// StrategyTotals aggregates every stored seat by strategy, best first
func (d *DB) StrategyTotals(ctx context.Context) ([]StrategyTotal, error) {
	var totals []StrategyTotal
	err := d.WithContext(ctx).
		Model(&SeatRun{}).
		Select("strategy, count(*) as seats, sum(hands) as hands, sum(net_bb) as net_bb").
		Group("strategy").
		Order("net_bb desc").
		Order("strategy").
		Scan(&totals).Error
	return totals, err
}
