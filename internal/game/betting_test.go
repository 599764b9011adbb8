package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRoundComplete(t *testing.T) {
	t.Parallel()

	setup := func() (*TableState, *BettingEngine) {
		table, b := testTable(PhaseFlop, 1000, 1000, 1000)
		table.CurrentBet = 50
		for _, p := range table.Players {
			p.CurrentBet = 50
			p.LastAction = actionPtr(Call)
		}
		return table, b
	}

	t.Run("everyone matched and acted", func(t *testing.T) {
		_, b := setup()
		assert.True(t, b.IsRoundComplete())
	})

	t.Run("one player yet to act", func(t *testing.T) {
		table, b := setup()
		table.Players[1].LastAction = nil
		assert.False(t, b.IsRoundComplete())
	})

	t.Run("one player behind the bet", func(t *testing.T) {
		table, b := setup()
		table.Players[2].CurrentBet = 20
		assert.False(t, b.IsRoundComplete())
	})

	t.Run("nobody can act", func(t *testing.T) {
		table, b := setup()
		for _, p := range table.Players {
			p.Status = StatusAllIn
		}
		assert.True(t, b.IsRoundComplete())
	})

	t.Run("last actor owes nothing", func(t *testing.T) {
		table, b := setup()
		table.Players[0].Status = StatusAllIn
		table.Players[1].Status = StatusAllIn
		table.Players[2].LastAction = nil
		assert.True(t, b.IsRoundComplete())
	})

	t.Run("last actor facing an all-in", func(t *testing.T) {
		table, b := setup()
		table.Players[0].Status = StatusAllIn
		table.Players[0].CurrentBet = 200
		table.Players[1].Status = StatusFolded
		table.CurrentBet = 200
		assert.False(t, b.IsRoundComplete())
	})
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhasePreflop, 1000, 1000, 1000)
	table.BigBlindPosition = 2
	table.CurrentBet = 10
	for _, p := range table.Players {
		p.CurrentBet = 10
	}
	table.Players[0].LastAction = actionPtr(Call)
	table.Players[1].LastAction = actionPtr(Call)

	assert.False(t, b.IsRoundComplete(), "big blind has not used the option")

	_, err := b.Execute(table.Players[2], Check, 0)
	require.NoError(t, err)
	assert.True(t, b.IsRoundComplete())
}

func TestBetOrRaiseMarksRound(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000, 1000)

	_, err := b.Execute(table.Players[0], Check, 0)
	require.NoError(t, err)
	assert.False(t, table.raiseOccurred)

	_, err = b.Execute(table.Players[1], Bet, 50)
	require.NoError(t, err)
	assert.True(t, table.raiseOccurred, "an opening bet counts")

	table.raiseOccurred = false
	_, err = b.Execute(table.Players[2], Call, 0)
	require.NoError(t, err)
	assert.False(t, table.raiseOccurred)

	_, err = b.Execute(table.Players[0], Raise, 150)
	require.NoError(t, err)
	assert.True(t, table.raiseOccurred)
}

func TestCalculatePotOdds(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000)
	table.Pot.Main = 100
	table.CurrentBet = 50

	assert.InDelta(t, 33.33, b.CalculatePotOdds(table.Players[0]), 0.01)

	table.Players[0].CurrentBet = 50
	assert.Equal(t, 100.0, b.CalculatePotOdds(table.Players[0]))
}

func TestCallAllInForLess(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 30)
	_, err := b.Execute(table.Players[0], Bet, 50)
	require.NoError(t, err)

	short := table.Players[1]
	moved, err := b.Execute(short, Call, 0)
	require.NoError(t, err)

	assert.Equal(t, 30, moved)
	assert.Equal(t, 0, short.Chips)
	assert.Equal(t, StatusAllIn, short.Status)
	assert.Equal(t, 80, table.Pot.Total())
	assert.Equal(t, 50, table.CurrentBet, "a short call does not change the bet")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		currentBet int
		minRaise   int
		action     Action
		amount     int
		chips      int
		wantErr    error
		validation bool
	}{
		{name: "check with nothing to call", action: Check},
		{name: "check facing a bet", currentBet: 20, minRaise: 20, action: Check, validation: true},
		{name: "call with nothing to call", action: Call, validation: true},
		{name: "bet minimum", action: Bet, amount: 10},
		{name: "bet below big blind", action: Bet, amount: 5, validation: true},
		{name: "bet short stack all-in", action: Bet, amount: 8, chips: 8},
		{name: "bet more than stack", action: Bet, amount: 2000, wantErr: ErrInsufficientChips},
		{name: "bet into a bet", currentBet: 20, minRaise: 20, action: Bet, amount: 40, validation: true},
		{name: "raise with no bet", action: Raise, amount: 40, validation: true},
		{name: "raise minimum", currentBet: 20, minRaise: 20, action: Raise, amount: 40},
		{name: "raise below minimum", currentBet: 20, minRaise: 20, action: Raise, amount: 30, validation: true},
		{name: "raise all-in below minimum", currentBet: 20, minRaise: 20, action: Raise, amount: 30, chips: 30},
		{name: "raise beyond stack", currentBet: 20, minRaise: 20, action: Raise, amount: 500, chips: 100, wantErr: ErrInsufficientChips},
		{name: "all-in", currentBet: 20, minRaise: 20, action: AllIn},
		{name: "fold", currentBet: 20, minRaise: 20, action: Fold},
		{name: "blind is not a player action", action: PostBigBlind, validation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chips := tt.chips
			if chips == 0 {
				chips = 1000
			}
			table, b := testTable(PhaseFlop, chips, 1000)
			table.CurrentBet = tt.currentBet
			if tt.minRaise > 0 {
				table.MinimumRaise = tt.minRaise
			}

			err := b.Validate(table.Players[0], tt.action, tt.amount)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.validation:
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.action, verr.Action)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateFoldedPlayer(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000)
	table.Players[0].Fold()
	require.ErrorIs(t, b.Validate(table.Players[0], Check, 0), ErrPlayerCannotAct)
}

func TestRaiseUpdatesMinimum(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000, 1000)

	_, err := b.Execute(table.Players[0], Bet, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, table.CurrentBet)
	assert.Equal(t, 100, table.MinimumRaise)

	_, err = b.Execute(table.Players[1], Raise, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, table.CurrentBet)
	assert.Equal(t, 200, table.MinimumRaise)

	// Next raise must be to at least 500
	require.Error(t, b.Validate(table.Players[2], Raise, 450))
	require.NoError(t, b.Validate(table.Players[2], Raise, 500))

	// The original bettor faces a full raise and may re-raise
	legal := b.LegalActions(table.Players[0])
	raise, ok := FindLegal(legal, Raise)
	require.True(t, ok)
	assert.Equal(t, 500, raise.Min)
	assert.Equal(t, 1000, raise.Max)
}

func TestShortAllInDoesNotReopenBetting(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000, 130)
	a, bb, short := table.Players[0], table.Players[1], table.Players[2]

	_, err := b.Execute(a, Bet, 100)
	require.NoError(t, err)
	_, err = b.Execute(bb, Call, 0)
	require.NoError(t, err)

	// 30 more is less than the 100 minimum raise
	moved, err := b.Execute(short, AllIn, 0)
	require.NoError(t, err)
	assert.Equal(t, 130, moved)
	assert.Equal(t, 130, table.CurrentBet)
	assert.Equal(t, 100, table.MinimumRaise)

	for _, p := range []*Player{a, bb} {
		var verr *ValidationError
		require.ErrorAs(t, b.Validate(p, Raise, 230), &verr, p.ID)
		require.ErrorAs(t, b.Validate(p, AllIn, 0), &verr, p.ID)
		require.NoError(t, b.Validate(p, Call, 0))

		legal := b.LegalActions(p)
		_, canRaise := FindLegal(legal, Raise)
		assert.False(t, canRaise)
		call, ok := FindLegal(legal, Call)
		require.True(t, ok)
		assert.Equal(t, 30, call.Min)
	}

	assert.False(t, b.IsRoundComplete())
	_, err = b.Execute(a, Call, 0)
	require.NoError(t, err)
	_, err = b.Execute(bb, Call, 0)
	require.NoError(t, err)
	assert.True(t, b.IsRoundComplete())
}

func TestLegalActions(t *testing.T) {
	t.Parallel()

	t.Run("unopened pot", func(t *testing.T) {
		table, b := testTable(PhaseFlop, 1000, 1000)
		legal := b.LegalActions(table.Players[0])
		assert.Equal(t, []LegalAction{
			{Action: Fold},
			{Action: Check},
			{Action: Bet, Min: 10, Max: 1000},
			{Action: AllIn, Min: 1000, Max: 1000},
		}, legal)
	})

	t.Run("facing a bet", func(t *testing.T) {
		table, b := testTable(PhaseFlop, 1000, 1000)
		_, err := b.Execute(table.Players[0], Bet, 40)
		require.NoError(t, err)

		legal := b.LegalActions(table.Players[1])
		assert.Equal(t, []LegalAction{
			{Action: Fold},
			{Action: Call, Min: 40, Max: 40},
			{Action: Raise, Min: 80, Max: 1000},
			{Action: AllIn, Min: 1000, Max: 1000},
		}, legal)
	})

	t.Run("stack covers only a call", func(t *testing.T) {
		table, b := testTable(PhaseFlop, 1000, 25)
		_, err := b.Execute(table.Players[0], Bet, 40)
		require.NoError(t, err)

		legal := b.LegalActions(table.Players[1])
		assert.Equal(t, []LegalAction{
			{Action: Fold},
			{Action: Call, Min: 25, Max: 25},
			{Action: AllIn, Min: 25, Max: 25},
		}, legal)
	})

	t.Run("cannot act", func(t *testing.T) {
		table, b := testTable(PhaseFlop, 1000, 1000)
		table.Players[0].Fold()
		assert.Nil(t, b.LegalActions(table.Players[0]))
	})
}

func TestExecuteLogsActions(t *testing.T) {
	t.Parallel()

	table, b := testTable(PhaseFlop, 1000, 1000)
	_, err := b.Execute(table.Players[0], Bet, 40)
	require.NoError(t, err)
	_, err = b.Execute(table.Players[1], Call, 0)
	require.NoError(t, err)

	require.Len(t, table.ActionLog, 2)
	assert.Equal(t, ActionLogEntry{
		PlayerID:  "p1",
		Action:    Call,
		Amount:    40,
		PotAfter:  80,
		Phase:     PhaseFlop,
		Timestamp: table.ActionLog[1].Timestamp,
	}, table.ActionLog[1])
	assert.False(t, table.ActionLog[0].Timestamp.IsZero())
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	for a := Fold; a <= PostBigBlind; a++ {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := ParseAction("all-in")
	require.NoError(t, err)
	assert.Equal(t, AllIn, got)

	_, err = ParseAction("shove")
	require.Error(t, err)
}
