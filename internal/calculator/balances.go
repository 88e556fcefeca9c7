package calculator

import (
	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
)

// NetPositions folds a group's full ledger into one net value per
// member: positive means the member is owed money overall, negative
// means they owe. Single pass, O(total splits).
//
// For each expense the payer's position rises by the full amount and
// every split target's position falls by their share (the payer's own
// share cancels against their payment, so no self-debt can arise).
// A recorded settlement moves the payer up and the receiver down,
// since the payer has handed over real money.
func NetPositions(expenses []models.Expense, settlements []models.Settlement) map[int64]money.Money {
	net := make(map[int64]money.Money)

	for _, exp := range expenses {
		net[exp.PaidBy] = net[exp.PaidBy].Add(exp.Amount)
		for _, split := range exp.Splits {
			net[split.MemberID] = net[split.MemberID].Sub(split.Amount)
		}
	}

	for _, s := range settlements {
		net[s.FromMemberID] = net[s.FromMemberID].Add(s.Amount)
		net[s.ToMemberID] = net[s.ToMemberID].Sub(s.Amount)
	}

	return net
}
