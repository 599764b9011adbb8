package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/internal/simulator"
	"github.com/lox/holdem-referee/internal/store"
	"github.com/lox/holdem-referee/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func renderCard(c poker.Card) string {
	if c.Suit.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func renderCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return infoStyle.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = renderCard(c)
	}
	return strings.Join(parts, " ")
}

func renderBB(bb float64) string {
	s := fmt.Sprintf("%+.3f", bb)
	switch {
	case bb > 0:
		return winStyle.Render(s)
	case bb < 0:
		return lossStyle.Render(s)
	default:
		return s
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(infoStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderTableResult(t simulator.TableResult) string {
	var b strings.Builder

	conserved := winStyle.Render("conserved")
	if !t.Conserved() {
		conserved = errorStyle.Render(fmt.Sprintf("LEAKED %d", t.ChipsIn-t.ChipsOut))
	}
	fmt.Fprintf(&b, "%s  %d hands, %d showdowns, chips %s\n",
		titleStyle.Render(t.Name), t.Hands, t.Showdowns, conserved)
	if t.Stopped != "" {
		fmt.Fprintf(&b, "%s\n", infoStyle.Render("stopped early: "+t.Stopped))
	}

	tbl := newTable("Seat", "Strategy", "Hands", "Start", "End", "bb/hand", "Showdown bb", "Non-showdown bb")
	for _, seat := range t.Seats {
		s := seat.Stats
		tbl.Row(
			seat.ID,
			seat.Strategy,
			fmt.Sprint(s.Hands),
			fmt.Sprint(seat.StartChips),
			fmt.Sprint(seat.EndChips),
			renderBB(s.Mean()),
			fmt.Sprintf("%.1f", s.ShowdownBB),
			fmt.Sprintf("%.1f", s.NonShowdownBB),
		)
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")
	return b.String()
}

func renderStrategies(results []simulator.StrategyResult) string {
	tbl := newTable("Strategy", "Seats", "Hands", "bb/hand", "95% CI", "Median", "Max pot bb", "Showdowns")
	for _, sr := range results {
		s := sr.Stats
		low, high := s.ConfidenceInterval95()
		tbl.Row(
			sr.Strategy,
			fmt.Sprint(sr.Seats),
			fmt.Sprint(s.Hands),
			renderBB(s.Mean()),
			fmt.Sprintf("[%.2f, %.2f]", low, high),
			fmt.Sprintf("%.2f", s.Median()),
			fmt.Sprintf("%.1f", s.MaxPotBB),
			fmt.Sprint(s.Streets[game.PhaseShowdown]),
		)
	}
	return tbl.String() + "\n"
}

func renderConserved(ok bool) string {
	if ok {
		return winStyle.Render("yes")
	}
	return errorStyle.Render("NO")
}

func renderRuns(runs []store.Run) string {
	tbl := newTable("Run", "When", "Config", "Seed", "Tables", "Hands", "Elapsed", "Conserved")
	for _, r := range runs {
		tbl.Row(
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Config,
			fmt.Sprint(r.Seed),
			fmt.Sprint(len(r.Tables)),
			fmt.Sprint(r.Hands),
			(time.Duration(r.ElapsedMS) * time.Millisecond).String(),
			renderConserved(r.Conserved),
		)
	}
	return tbl.String() + "\n"
}

func renderRun(r store.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s seed %d, %d hands\n", titleStyle.Render(r.ID), r.Config, r.Seed, r.Hands)
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "%s  %d hands, %d showdowns, conserved %s\n",
			headerStyle.Render(t.Name), t.Hands, t.Showdowns, renderConserved(t.ChipsIn == t.ChipsOut))
		if t.Stopped != "" {
			fmt.Fprintf(&b, "%s\n", infoStyle.Render("stopped early: "+t.Stopped))
		}
		tbl := newTable("Seat", "Strategy", "Hands", "Start", "End", "bb/hand", "Std dev")
		for _, s := range t.Seats {
			tbl.Row(
				s.BotID,
				s.Strategy,
				fmt.Sprint(s.Hands),
				fmt.Sprint(s.StartChips),
				fmt.Sprint(s.EndChips),
				renderBB(s.MeanBB()),
				fmt.Sprintf("%.2f", s.StdDevBB),
			)
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}
	return b.String()
}

func renderStrategyTotals(totals []store.StrategyTotal) string {
	tbl := newTable("Strategy", "Seats", "Hands", "Net bb", "bb/hand")
	for _, st := range totals {
		tbl.Row(
			st.Strategy,
			fmt.Sprint(st.Seats),
			fmt.Sprint(st.Hands),
			fmt.Sprintf("%.1f", st.NetBB),
			renderBB(st.MeanBB()),
		)
	}
	return tbl.String() + "\n"
}
