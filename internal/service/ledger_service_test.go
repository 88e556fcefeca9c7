package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evenup/evenup/internal/calculator"
	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
	"github.com/evenup/evenup/internal/storage"
	"github.com/evenup/evenup/internal/storage/sqlite"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLedgerService(store)
}

func cents(c int64) money.Money { return money.FromCents(c) }

func TestCreateGroup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"Alice", "Bob", "Charlie"})
	require.NoError(t, err)
	assert.Equal(t, "Trip", group.Name)
	require.Len(t, group.Members, 3)

	_, err = svc.CreateGroup(ctx, "Trip", []string{"Dave"})
	require.ErrorIs(t, err, storage.ErrDuplicateGroup)

	_, err = svc.CreateGroup(ctx, "  ", []string{"Dave"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateGroup(ctx, "Empty", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CreateGroup(ctx, "Blank member", []string{"Dave", " "})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddExpenseValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Flat", []string{"Alice", "Bob"})
	require.NoError(t, err)
	alice, bob := group.Members[0].ID, group.Members[1].ID

	equalOver := func(ids ...int64) []calculator.SplitInput {
		inputs := make([]calculator.SplitInput, len(ids))
		for i, id := range ids {
			inputs[i] = calculator.SplitInput{MemberID: id}
		}
		return inputs
	}

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, 9999, ExpenseInput{
			Amount: cents(100), PaidBy: alice, SplitType: models.SplitEqual,
			Splits: equalOver(alice),
		})
		require.ErrorIs(t, err, storage.ErrGroupNotFound)
	})

	t.Run("payer outside group", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, group.ID, ExpenseInput{
			Amount: cents(100), PaidBy: 777, SplitType: models.SplitEqual,
			Splits: equalOver(alice, bob),
		})
		require.ErrorIs(t, err, storage.ErrMemberNotFound)
	})

	t.Run("split target outside group", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, group.ID, ExpenseInput{
			Amount: cents(100), PaidBy: alice, SplitType: models.SplitEqual,
			Splits: equalOver(alice, 777),
		})
		require.ErrorIs(t, err, storage.ErrMemberNotFound)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, group.ID, ExpenseInput{
			Amount: cents(0), PaidBy: alice, SplitType: models.SplitEqual,
			Splits: equalOver(alice, bob),
		})
		require.ErrorIs(t, err, calculator.ErrInvalidSplit)
	})

	t.Run("bad percentages leave log untouched", func(t *testing.T) {
		p1, p2 := 60.0, 39.99
		_, err := svc.AddExpense(ctx, group.ID, ExpenseInput{
			Amount: cents(10000), PaidBy: alice, SplitType: models.SplitPercentage,
			Splits: []calculator.SplitInput{
				{MemberID: alice, Percentage: &p1},
				{MemberID: bob, Percentage: &p2},
			},
		})
		require.ErrorIs(t, err, calculator.ErrInvalidSplit)

		expenses, err := svc.ListExpenses(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})
}

// The dinner scenario: group "Trip" with Alice, Bob, Charlie. One
// 100.00 expense paid by Alice split equally. Alice absorbs the extra
// cent (lowest member ID), so Bob and Charlie each owe 33.33.
func TestEndToEndDinner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Trip", []string{"Alice", "Bob", "Charlie"})
	require.NoError(t, err)
	alice, bob, charlie := group.Members[0].ID, group.Members[1].ID, group.Members[2].ID

	exp, err := svc.AddExpense(ctx, group.ID, ExpenseInput{
		Description: "Dinner",
		Amount:      cents(10000),
		PaidBy:      alice,
		SplitType:   models.SplitEqual,
		Splits: []calculator.SplitInput{
			{MemberID: alice}, {MemberID: bob}, {MemberID: charlie},
		},
	})
	require.NoError(t, err)
	require.Len(t, exp.Splits, 3)
	assert.Equal(t, int64(3334), exp.Splits[0].Amount.Cents())
	assert.Equal(t, int64(3333), exp.Splits[1].Amount.Cents())
	assert.Equal(t, int64(3333), exp.Splits[2].Amount.Cents())

	transfers, err := svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, calculator.Transfer{From: bob, To: alice, Amount: cents(3333)}, transfers[0])
	assert.Equal(t, calculator.Transfer{From: charlie, To: alice, Amount: cents(3333)}, transfers[1])

	// Idempotent: querying again without new expenses gives the same list.
	again, err := svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, transfers, again)
}

// Two expenses in opposite directions between the same members must net
// to a single smaller transfer, not two.
func TestOpposingExpensesNet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Pair", []string{"Alice", "Bob"})
	require.NoError(t, err)
	alice, bob := group.Members[0].ID, group.Members[1].ID

	both := []calculator.SplitInput{{MemberID: alice}, {MemberID: bob}}

	_, err = svc.AddExpense(ctx, group.ID, ExpenseInput{
		Description: "Lunch", Amount: cents(4000), PaidBy: alice,
		SplitType: models.SplitEqual, Splits: both,
	})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, group.ID, ExpenseInput{
		Description: "Taxi", Amount: cents(1000), PaidBy: bob,
		SplitType: models.SplitEqual, Splits: both,
	})
	require.NoError(t, err)

	transfers, err := svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	// Alice is owed 2000-500 = 1500 net.
	assert.Equal(t, calculator.Transfer{From: bob, To: alice, Amount: cents(1500)}, transfers[0])
}

func TestSettlementsReduceDebt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Flatmates", []string{"Alice", "Bob"})
	require.NoError(t, err)
	alice, bob := group.Members[0].ID, group.Members[1].ID

	_, err = svc.AddExpense(ctx, group.ID, ExpenseInput{
		Description: "Rent", Amount: cents(10000), PaidBy: alice,
		SplitType: models.SplitEqual,
		Splits:    []calculator.SplitInput{{MemberID: alice}, {MemberID: bob}},
	})
	require.NoError(t, err)

	_, err = svc.RecordSettlement(ctx, group.ID, bob, alice, cents(3000), "partial")
	require.NoError(t, err)

	transfers, err := svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, calculator.Transfer{From: bob, To: alice, Amount: cents(2000)}, transfers[0])

	// Settling the rest zeroes the group out.
	_, err = svc.RecordSettlement(ctx, group.ID, bob, alice, cents(2000), "")
	require.NoError(t, err)
	transfers, err = svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestRecordSettlementValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Pair", []string{"Alice", "Bob"})
	require.NoError(t, err)
	alice, bob := group.Members[0].ID, group.Members[1].ID

	_, err = svc.RecordSettlement(ctx, group.ID, alice, alice, cents(100), "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.RecordSettlement(ctx, group.ID, alice, bob, cents(0), "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.RecordSettlement(ctx, group.ID, alice, 777, cents(100), "")
	require.ErrorIs(t, err, storage.ErrMemberNotFound)

	_, err = svc.RecordSettlement(ctx, 9999, alice, bob, cents(100), "")
	require.ErrorIs(t, err, storage.ErrGroupNotFound)
}

// Concurrent writers on one group must serialize without losing
// entries, and the ledger must still balance afterwards.
func TestConcurrentAddExpense(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Busy", []string{"Alice", "Bob", "Charlie"})
	require.NoError(t, err)
	ids := []int64{group.Members[0].ID, group.Members[1].ID, group.Members[2].ID}

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddExpense(ctx, group.ID, ExpenseInput{
				Description: "Round",
				Amount:      cents(oddAmount(i)),
				PaidBy:      ids[i%3],
				SplitType:   models.SplitEqual,
				Splits: []calculator.SplitInput{
					{MemberID: ids[0]}, {MemberID: ids[1]}, {MemberID: ids[2]},
				},
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	expenses, err := svc.ListExpenses(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, writers)

	// The fold still balances: Simplify would reject a corrupted log.
	_, err = svc.GetBalances(ctx, group.ID)
	require.NoError(t, err)
}

// oddAmount gives each concurrent writer a distinct awkward amount.
func oddAmount(i int) int64 { return int64(1000 + i*7 + 1) }
