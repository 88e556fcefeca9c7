package calculator

import (
	"testing"

	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
)

func expense(paidBy int64, amount int64, shares map[int64]int64) models.Expense {
	exp := models.Expense{PaidBy: paidBy, Amount: money.FromCents(amount)}
	for id, c := range shares {
		exp.Splits = append(exp.Splits, models.Split{MemberID: id, Amount: money.FromCents(c)})
	}
	return exp
}

func TestNetPositions(t *testing.T) {
	tests := []struct {
		name        string
		expenses    []models.Expense
		settlements []models.Settlement
		want        map[int64]int64
	}{
		{
			name: "single expense equal split",
			expenses: []models.Expense{
				// 100.00 paid by 1, split 33.34/33.33/33.33.
				expense(1, 10000, map[int64]int64{1: 3334, 2: 3333, 3: 3333}),
			},
			want: map[int64]int64{1: 6666, 2: -3333, 3: -3333},
		},
		{
			name: "payer outside split owes nothing",
			expenses: []models.Expense{
				expense(1, 5000, map[int64]int64{2: 2500, 3: 2500}),
			},
			want: map[int64]int64{1: 5000, 2: -2500, 3: -2500},
		},
		{
			name: "opposing expenses cancel",
			expenses: []models.Expense{
				expense(1, 4000, map[int64]int64{1: 2000, 2: 2000}),
				expense(2, 4000, map[int64]int64{1: 2000, 2: 2000}),
			},
			want: map[int64]int64{1: 0, 2: 0},
		},
		{
			name: "settlement moves debtor toward zero",
			expenses: []models.Expense{
				expense(1, 10000, map[int64]int64{1: 5000, 2: 5000}),
			},
			settlements: []models.Settlement{
				{FromMemberID: 2, ToMemberID: 1, Amount: money.FromCents(3000)},
			},
			want: map[int64]int64{1: 2000, 2: -2000},
		},
		{
			name: "empty ledger",
			want: map[int64]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := NetPositions(tt.expenses, tt.settlements)
			if len(net) != len(tt.want) {
				t.Fatalf("got %d positions, want %d: %v", len(net), len(tt.want), net)
			}
			var sum int64
			for id, want := range tt.want {
				if got := net[id].Cents(); got != want {
					t.Errorf("member %d net = %d, want %d", id, got, want)
				}
			}
			for _, amt := range net {
				sum += amt.Cents()
			}
			if sum != 0 {
				t.Errorf("net positions sum to %d, want 0", sum)
			}
		})
	}
}
