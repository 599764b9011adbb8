package store

import "time"

// Run is one simulator invocation
type Run struct {
	ID        string     `gorm:"column:id;type:varchar(36);primaryKey"`
	Config    string     `gorm:"column:config"`
	Seed      int64      `gorm:"column:seed"`
	Hands     int        `gorm:"column:hands;not null"`
	ElapsedMS int64      `gorm:"column:elapsed_ms"`
	Conserved bool       `gorm:"column:conserved"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index"`
	Tables    []TableRun `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Run
func (Run) TableName() string {
	return "runs"
}

// TableRun is one poker table within a run
type TableRun struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;type:varchar(36);not null;index"`
	Name      string    `gorm:"column:name;not null"`
	BigBlind  int       `gorm:"column:big_blind;not null"`
	Hands     int       `gorm:"column:hands"`
	Showdowns int       `gorm:"column:showdowns"`
	ChipsIn   int       `gorm:"column:chips_in"`
	ChipsOut  int       `gorm:"column:chips_out"`
	Stopped   string    `gorm:"column:stopped"`
	Seats     []SeatRun `gorm:"foreignKey:TableRunID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for TableRun
func (TableRun) TableName() string {
	return "run_tables"
}

// SeatRun is one bot's result at one table
type SeatRun struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	TableRunID      int64   `gorm:"column:table_run_id;not null;index"`
	BotID           string  `gorm:"column:bot_id;not null"`
	Strategy        string  `gorm:"column:strategy;not null;index"`
	StartChips      int     `gorm:"column:start_chips"`
	EndChips        int     `gorm:"column:end_chips"`
	Hands           int     `gorm:"column:hands"`
	NetBB           float64 `gorm:"column:net_bb"`
	StdDevBB        float64 `gorm:"column:std_dev_bb"`
	ShowdownWins    int     `gorm:"column:showdown_wins"`
	NonShowdownWins int     `gorm:"column:non_showdown_wins"`
}

// TableName specifies the table name for SeatRun
func (SeatRun) TableName() string {
	return "run_seats"
}

// MeanBB is the seat's result in big blinds per hand
func (s SeatRun) MeanBB() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.NetBB / float64(s.Hands)
}

// StrategyTotal aggregates stored seats by strategy
type StrategyTotal struct {
	Strategy string  `gorm:"column:strategy"`
	Seats    int     `gorm:"column:seats"`
	Hands    int     `gorm:"column:hands"`
	NetBB    float64 `gorm:"column:net_bb"`
}

// MeanBB is the strategy's result in big blinds per hand
func (s StrategyTotal) MeanBB() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.NetBB / float64(s.Hands)
}
