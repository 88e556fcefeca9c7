package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
)

// AppendExpense appends an expense and its splits to the group's log in
// one transaction. The autoincrement ID fixes the recording order.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.groupExists(ctx, expense.GroupID); err != nil {
		return err
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (group_id, description, amount_cents, paid_by, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.GroupID, expense.Description, expense.Amount.Cents(),
		expense.PaidBy, string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	expense.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO splits (expense_id, member_id, amount_cents, percentage, position) VALUES (?, ?, ?, ?, ?)",
			expense.ID, split.MemberID, split.Amount.Cents(), split.Percentage, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a group's expenses in recording order, splits
// included.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	if err := s.groupExists(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount_cents, paid_by, split_type, created_at
		 FROM expenses WHERE group_id = ? ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp := &models.Expense{}
		var amountCents int64
		var splitType string
		if err := rows.Scan(&exp.ID, &exp.GroupID, &exp.Description, &amountCents,
			&exp.PaidBy, &splitType, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Amount = money.FromCents(amountCents)
		exp.SplitType = models.SplitType(splitType)
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, exp := range expenses {
		splits, err := s.expenseSplits(ctx, exp.ID)
		if err != nil {
			return nil, err
		}
		exp.Splits = splits
	}
	return expenses, nil
}

func (s *SQLiteStore) expenseSplits(ctx context.Context, expenseID int64) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount_cents, percentage FROM splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		var amountCents int64
		if err := rows.Scan(&split.MemberID, &amountCents, &split.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Amount = money.FromCents(amountCents)
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}
