package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
)

// AppendSettlement appends a settle-up payment to the group's log.
func (s *SQLiteStore) AppendSettlement(ctx context.Context, settlement *models.Settlement) error {
	if err := s.groupExists(ctx, settlement.GroupID); err != nil {
		return err
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note interface{}
	if settlement.Note != "" {
		note = settlement.Note
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (group_id, from_member, to_member, amount_cents, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		settlement.GroupID, settlement.FromMemberID, settlement.ToMemberID,
		settlement.Amount.Cents(), note, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	settlement.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read settlement id: %w", err)
	}
	return nil
}

// ListSettlements returns a group's settlements in recording order.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID int64) ([]*models.Settlement, error) {
	if err := s.groupExists(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_member, to_member, amount_cents, note, created_at
		 FROM settlements WHERE group_id = ? ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st := &models.Settlement{}
		var amountCents int64
		var note sql.NullString
		if err := rows.Scan(&st.ID, &st.GroupID, &st.FromMemberID, &st.ToMemberID,
			&amountCents, &note, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		st.Amount = money.FromCents(amountCents)
		if note.Valid {
			st.Note = note.String
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
