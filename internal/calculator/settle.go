package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/evenup/evenup/internal/money"
)

// ErrLedgerInconsistency signals a ledger whose net positions do not
// sum to zero. That can only come from a bug or corrupted storage, so
// it is fatal: balances must never be silently rounded back into shape.
var ErrLedgerInconsistency = errors.New("ledger inconsistency")

// Transfer is one settling payment: From pays To the given amount.
type Transfer struct {
	From   int64       `json:"from"`
	To     int64       `json:"to"`
	Amount money.Money `json:"amount"`
}

// party is one side of the matching: a member and the magnitude of
// their outstanding debt or credit.
type party struct {
	id  int64
	amt money.Money
}

// Simplify reduces net positions to a minimal list of direct payments.
//
// Greedy matching: repeatedly pair the debtor owing the most with the
// creditor owed the most (ties broken by ascending member ID) and move
// min(debt, credit) between them. Each round fully retires at least one
// party, so the result has at most debtors+creditors-1 transfers.
// Transfers are returned in the order they were generated.
func Simplify(net map[int64]money.Money) ([]Transfer, error) {
	var sum money.Money
	var debtors, creditors []party
	for id, amt := range net {
		sum = sum.Add(amt)
		switch {
		case amt.IsPositive():
			creditors = append(creditors, party{id: id, amt: amt})
		case !amt.IsZero():
			debtors = append(debtors, party{id: id, amt: amt.Neg()})
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: net positions sum to %s, want 0.00", ErrLedgerInconsistency, sum)
	}

	// Descending magnitude, ascending ID on ties. Magnitudes only ever
	// shrink, so re-sorting inside the loop is unnecessary except for
	// the party just decremented; a full selection scan keeps it simple.
	sortParties(debtors)
	sortParties(creditors)

	transfers := []Transfer{}
	for len(debtors) > 0 && len(creditors) > 0 {
		d := largest(debtors)
		c := largest(creditors)

		amt := debtors[d].amt
		if creditors[c].amt < amt {
			amt = creditors[c].amt
		}

		transfers = append(transfers, Transfer{
			From:   debtors[d].id,
			To:     creditors[c].id,
			Amount: amt,
		})

		debtors[d].amt = debtors[d].amt.Sub(amt)
		creditors[c].amt = creditors[c].amt.Sub(amt)
		if debtors[d].amt.IsZero() {
			debtors = append(debtors[:d], debtors[d+1:]...)
		}
		if creditors[c].amt.IsZero() {
			creditors = append(creditors[:c], creditors[c+1:]...)
		}
	}

	return transfers, nil
}

func sortParties(ps []party) {
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].amt != ps[b].amt {
			return ps[a].amt > ps[b].amt
		}
		return ps[a].id < ps[b].id
	})
}

// largest returns the index of the party with the biggest outstanding
// magnitude, lowest ID on ties.
func largest(ps []party) int {
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].amt > ps[best].amt ||
			(ps[i].amt == ps[best].amt && ps[i].id < ps[best].id) {
			best = i
		}
	}
	return best
}
