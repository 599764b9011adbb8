package poker

// HoleCardCategory is a coarse preflop strength bucket
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards buckets a starting hand:
//
//	Premium  JJ+ and AK
//	Strong   TT, AQ and AJ
//	Medium   77-99 and suited cards ten or better
//	Weak     22-66 and suited cards at most two ranks apart
//	Trash    everything else
func CategorizeHoleCards(a, b Card) HoleCardCategory {
	if !a.Valid() || !b.Valid() {
		return CategoryUnknown
	}

	high, low := a.Rank, b.Rank
	if low > high {
		high, low = low, high
	}
	if high == low {
		return pairCategory(high)
	}

	suited := a.Suit == b.Suit
	switch {
	case high == Ace && low == King:
		return CategoryPremium
	case high == Ace && low >= Jack:
		return CategoryStrong
	case suited && low >= Ten:
		return CategoryMedium
	case suited && high-low <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}

func pairCategory(r Rank) HoleCardCategory {
	switch {
	case r >= Jack:
		return CategoryPremium
	case r == Ten:
		return CategoryStrong
	case r >= Seven:
		return CategoryMedium
	default:
		return CategoryWeak
	}
}

// CategorizeCodes categorizes two cards written as codes, e.g. "AsKd".
// Anything other than two valid, distinct cards is CategoryUnknown.
func CategorizeCodes(codes string) HoleCardCategory {
	cards, err := ParseCards(codes)
	if err != nil || len(cards) != 2 || cards[0] == cards[1] {
		return CategoryUnknown
	}
	return CategorizeHoleCards(cards[0], cards[1])
}
