package etf

// lot is one purchase of fund units. Basis is what the units cost,
// including any step-up from an earlier sell-and-rebuy.
type lot struct {
	Month  int
	Amount float64
	Units  float64
	Basis  float64
}

// ledger tracks lots oldest first against a unit price that starts at 1.
type ledger struct {
	lots  []lot
	price float64
}

func newLedger() *ledger {
	return &ledger{price: 1}
}

func (l *ledger) grow(rate float64) {
	l.price *= 1 + rate
}

func (l *ledger) buy(month int, amount float64) {
	if amount == 0 {
		return
	}
	l.lots = append(l.lots, lot{
		Month:  month,
		Amount: amount,
		Units:  amount / l.price,
		Basis:  amount,
	})
}

func (l *ledger) basis() float64 {
	total := 0.0
	for _, lt := range l.lots {
		total += lt.Basis
	}
	return total
}

// harvest sells units FIFO until target gain is realized and buys them back
// immediately at the current price. It returns the gain actually realized.
func (l *ledger) harvest(month int, target float64) float64 {
	if target <= 0 {
		return 0
	}

	remaining := target
	var rebought []lot
	kept := make([]lot, 0, len(l.lots))

	for i, lt := range l.lots {
		if remaining <= 0 {
			kept = append(kept, l.lots[i:]...)
			break
		}
		value := lt.Units * l.price
		gain := value - lt.Basis
		if gain <= 0 {
			kept = append(kept, lt)
			continue
		}

		if gain <= remaining {
			remaining -= gain
			rebought = append(rebought, lot{Month: month, Amount: value, Units: lt.Units, Basis: value})
			continue
		}

		fraction := remaining / gain
		soldUnits := lt.Units * fraction
		soldValue := soldUnits * l.price
		lt.Units -= soldUnits
		lt.Basis -= lt.Basis * fraction
		kept = append(kept, lt)
		rebought = append(rebought, lot{Month: month, Amount: soldValue, Units: soldUnits, Basis: soldValue})
		remaining = 0
	}

	l.lots = append(kept, rebought...)
	return target - remaining
}
