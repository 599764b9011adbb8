package game

import "context"

// Decision is an agent's chosen action. Amount follows ExecutePlayerAction:
// the raise-to total for Bet and Raise, ignored otherwise.
type Decision struct {
	Action    Action
	Amount    int
	Reasoning string
}

// Agent makes decisions for one seat. The engine only asks, never trusts:
// an illegal decision is rejected like any other player action.
type Agent interface {
	Decide(ctx context.Context, state Snapshot, legal []LegalAction) Decision
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(ctx context.Context, state Snapshot, legal []LegalAction) Decision

func (f AgentFunc) Decide(ctx context.Context, state Snapshot, legal []LegalAction) Decision {
	return f(ctx, state, legal)
}

// FindLegal returns the legal action of the given kind
func FindLegal(legal []LegalAction, action Action) (LegalAction, bool) {
	for _, la := range legal {
		if la.Action == action {
			return la, true
		}
	}
	return LegalAction{}, false
}

// fallbackDecision is used when an agent times out or proposes an illegal action
func fallbackDecision(legal []LegalAction, reason string) Decision {
	if _, ok := FindLegal(legal, Check); ok {
		return Decision{Action: Check, Reasoning: reason}
	}
	return Decision{Action: Fold, Reasoning: reason}
}
