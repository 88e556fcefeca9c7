// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/evenup/evenup/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrGroupNotFound is returned when a group ID does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrDuplicateGroup is returned when a group name is already taken.
	// Group names are unique by policy.
	ErrDuplicateGroup = errors.New("group name already exists")

	// ErrMemberNotFound is returned when a member ID does not belong to
	// the group in question (or is flagged removed).
	ErrMemberNotFound = errors.New("member not found in group")
)

// Store defines the interface for ledger storage operations. The
// expense and settlement logs are append-only: there is deliberately no
// update or delete, so recorded entries are immutable and balances can
// always be replayed from the log. This abstraction allows swapping
// storage backends (SQLite, PostgreSQL, etc.) without changing the
// service layer.
type Store interface {
	// CreateGroup persists a new group with its members. Group and
	// member IDs are populated by the store; member IDs follow the
	// input order. Returns ErrDuplicateGroup on a name collision.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its members (insertion order).
	// Returns ErrGroupNotFound if the ID does not exist.
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)

	// ListGroups retrieves all groups with their members.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AppendExpense appends an expense (with its splits) to the group's
	// log. The expense ID and CreatedAt are populated by the store; the
	// assigned ID orders the expense after all previously recorded
	// expenses. Returns ErrGroupNotFound for an unknown group.
	AppendExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a group's expenses in recording order,
	// splits included. Returns ErrGroupNotFound for an unknown group.
	ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error)

	// AppendSettlement appends a settle-up payment to the group's log.
	// ID and CreatedAt are populated by the store.
	AppendSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns a group's settlements in recording order.
	// Returns ErrGroupNotFound for an unknown group.
	ListSettlements(ctx context.Context, groupID int64) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
