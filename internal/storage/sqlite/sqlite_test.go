package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
	"github.com/evenup/evenup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup assigns ids in input order", func(t *testing.T) {
		group := &models.Group{
			Name:    "Trip",
			Members: []models.Member{{Name: "Alice"}, {Name: "Bob"}, {Name: "Charlie"}},
		}
		require.NoError(t, store.CreateGroup(ctx, group))

		assert.NotZero(t, group.ID)
		assert.NotZero(t, group.CreatedAt)
		require.Len(t, group.Members, 3)
		assert.Less(t, group.Members[0].ID, group.Members[1].ID)
		assert.Less(t, group.Members[1].ID, group.Members[2].ID)
	})

	t.Run("CreateGroup rejects duplicate name", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []models.Member{{Name: "Dave"}}}
		err := store.CreateGroup(ctx, group)
		require.ErrorIs(t, err, storage.ErrDuplicateGroup)
	})

	t.Run("GetGroup returns members in insertion order", func(t *testing.T) {
		created := &models.Group{
			Name:    "Flat",
			Members: []models.Member{{Name: "Zoe"}, {Name: "Anna"}},
		}
		require.NoError(t, store.CreateGroup(ctx, created))

		got, err := store.GetGroup(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat", got.Name)
		require.Len(t, got.Members, 2)
		// Insertion order, not alphabetical.
		assert.Equal(t, "Zoe", got.Members[0].Name)
		assert.Equal(t, "Anna", got.Members[1].Name)
	})

	t.Run("GetGroup unknown id", func(t *testing.T) {
		_, err := store.GetGroup(ctx, 99999)
		require.ErrorIs(t, err, storage.ErrGroupNotFound)
	})

	t.Run("ListGroups returns every group", func(t *testing.T) {
		groups, err := store.ListGroups(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(groups), 2)
		for _, g := range groups {
			assert.NotEmpty(t, g.Members)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Dinner club",
		Members: []models.Member{{Name: "Alice"}, {Name: "Bob"}},
	}
	require.NoError(t, store.CreateGroup(ctx, group))
	alice, bob := group.Members[0].ID, group.Members[1].ID

	t.Run("AppendExpense persists splits exactly", func(t *testing.T) {
		pct := 60.0
		exp := &models.Expense{
			GroupID:     group.ID,
			Description: "Dinner",
			Amount:      money.FromCents(10001),
			PaidBy:      alice,
			SplitType:   models.SplitPercentage,
			Splits: []models.Split{
				{MemberID: alice, Amount: money.FromCents(6001), Percentage: &pct},
				{MemberID: bob, Amount: money.FromCents(4000)},
			},
		}
		require.NoError(t, store.AppendExpense(ctx, exp))
		assert.NotZero(t, exp.ID)

		listed, err := store.ListExpenses(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		got := listed[0]
		assert.Equal(t, "Dinner", got.Description)
		assert.Equal(t, int64(10001), got.Amount.Cents())
		assert.Equal(t, models.SplitPercentage, got.SplitType)
		require.Len(t, got.Splits, 2)
		assert.Equal(t, int64(6001), got.Splits[0].Amount.Cents())
		require.NotNil(t, got.Splits[0].Percentage)
		assert.InDelta(t, 60.0, *got.Splits[0].Percentage, 1e-9)
		assert.Nil(t, got.Splits[1].Percentage)
	})

	t.Run("ListExpenses keeps recording order", func(t *testing.T) {
		for _, desc := range []string{"Taxi", "Groceries", "Coffee"} {
			exp := &models.Expense{
				GroupID:     group.ID,
				Description: desc,
				Amount:      money.FromCents(500),
				PaidBy:      bob,
				SplitType:   models.SplitEqual,
				Splits: []models.Split{
					{MemberID: alice, Amount: money.FromCents(250)},
					{MemberID: bob, Amount: money.FromCents(250)},
				},
			}
			require.NoError(t, store.AppendExpense(ctx, exp))
		}

		listed, err := store.ListExpenses(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, listed, 4)
		assert.Equal(t, "Dinner", listed[0].Description)
		assert.Equal(t, "Taxi", listed[1].Description)
		assert.Equal(t, "Groceries", listed[2].Description)
		assert.Equal(t, "Coffee", listed[3].Description)
	})

	t.Run("AppendExpense unknown group", func(t *testing.T) {
		exp := &models.Expense{GroupID: 42424, Amount: money.FromCents(100), PaidBy: alice}
		require.ErrorIs(t, store.AppendExpense(ctx, exp), storage.ErrGroupNotFound)
	})

	t.Run("ListExpenses unknown group", func(t *testing.T) {
		_, err := store.ListExpenses(ctx, 42424)
		require.ErrorIs(t, err, storage.ErrGroupNotFound)
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:    "Road trip",
		Members: []models.Member{{Name: "Alice"}, {Name: "Bob"}},
	}
	require.NoError(t, store.CreateGroup(ctx, group))

	st := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: group.Members[1].ID,
		ToMemberID:   group.Members[0].ID,
		Amount:       money.FromCents(2500),
		Note:         "venmo",
	}
	require.NoError(t, store.AppendSettlement(ctx, st))
	assert.NotZero(t, st.ID)

	listed, err := store.ListSettlements(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2500), listed[0].Amount.Cents())
	assert.Equal(t, "venmo", listed[0].Note)

	// Empty note round-trips as empty, backed by NULL.
	st2 := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: group.Members[0].ID,
		ToMemberID:   group.Members[1].ID,
		Amount:       money.FromCents(100),
	}
	require.NoError(t, store.AppendSettlement(ctx, st2))
	listed, err = store.ListSettlements(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Empty(t, listed[1].Note)

	_, err = store.ListSettlements(ctx, 31337)
	require.ErrorIs(t, err, storage.ErrGroupNotFound)
}
