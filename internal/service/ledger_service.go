// Package service implements the ledger operations behind the HTTP
// API: group creation, expense recording, balance computation, and
// settlement recording. All validation happens here, before any write
// reaches the store, so a failed request never leaves a partial entry.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/evenup/evenup/internal/calculator"
	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
	"github.com/evenup/evenup/internal/storage"
)

// ErrInvalidArgument is returned for malformed requests that are not
// split-rule problems: empty group name, blank member names, missing
// payer, self-settlements, non-positive settlement amounts.
var ErrInvalidArgument = errors.New("invalid argument")

// ExpenseInput carries the caller's description of a new expense.
type ExpenseInput struct {
	Description string
	Amount      money.Money
	PaidBy      int64
	SplitType   models.SplitType
	Splits      []calculator.SplitInput
}

// LedgerService owns the ledger store and serializes writes per group.
// Reads run concurrently; each sees a committed prefix of the log.
type LedgerService struct {
	store storage.Store

	// mu guards locks. Each group gets its own mutex held across
	// validate+append so two concurrent writes to one group cannot
	// interleave. Writes to different groups stay fully independent.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewLedgerService creates a LedgerService on the given store.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{
		store: store,
		locks: make(map[int64]*sync.Mutex),
	}
}

func (s *LedgerService) groupLock(groupID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[groupID] = lock
	}
	return lock
}

// CreateGroup creates a group with the given member names. Member IDs
// are assigned in input order. The membership is fixed for the group's
// lifetime.
func (s *LedgerService) CreateGroup(ctx context.Context, name string, memberNames []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalidArgument)
	}
	if len(memberNames) == 0 {
		return nil, fmt.Errorf("%w: at least one member required", ErrInvalidArgument)
	}

	members := make([]models.Member, len(memberNames))
	for i, mn := range memberNames {
		mn = strings.TrimSpace(mn)
		if mn == "" {
			return nil, fmt.Errorf("%w: member name required", ErrInvalidArgument)
		}
		members[i] = models.Member{Name: mn}
	}

	group := &models.Group{Name: name, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("group created", "group_id", group.ID, "name", group.Name, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group with its members.
func (s *LedgerService) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// AddExpense validates and appends one expense to the group's log.
// The split engine computes the per-member shares before anything is
// written; on any validation failure the log is untouched.
func (s *LedgerService) AddExpense(ctx context.Context, groupID int64, in ExpenseInput) (*models.Expense, error) {
	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	active := activeMembers(group)
	if err := requireMember(active, groupID, in.PaidBy); err != nil {
		return nil, err
	}
	for _, split := range in.Splits {
		if err := requireMember(active, groupID, split.MemberID); err != nil {
			return nil, err
		}
	}

	splits, err := calculator.ComputeSplits(in.Amount, in.SplitType, in.Splits)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: in.Description,
		Amount:      in.Amount,
		PaidBy:      in.PaidBy,
		SplitType:   in.SplitType,
		Splits:      splits,
	}
	if err := s.store.AppendExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("expense recorded",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"paid_by", expense.PaidBy,
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// ListExpenses returns the group's expense log in recording order.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx, groupID)
}

// GetBalances folds the group's full log into net positions and
// reduces them to the minimal settlement list. Balances are recomputed
// from the log on every call, never cached, so they cannot drift.
// A non-zero position sum is surfaced as calculator.ErrLedgerInconsistency
// rather than producing a best-effort answer.
func (s *LedgerService) GetBalances(ctx context.Context, groupID int64) ([]calculator.Transfer, error) {
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, err
	}

	derefExpenses := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		derefExpenses[i] = *e
	}
	derefSettlements := make([]models.Settlement, len(settlements))
	for i, st := range settlements {
		derefSettlements[i] = *st
	}

	net := calculator.NetPositions(derefExpenses, derefSettlements)
	transfers, err := calculator.Simplify(net)
	if err != nil {
		slog.Error("balance computation aborted", "group_id", groupID, "error", err)
		return nil, err
	}
	return transfers, nil
}

// RecordSettlement appends a settle-up payment between two members.
func (s *LedgerService) RecordSettlement(ctx context.Context, groupID int64, from, to int64, amount money.Money, note string) (*models.Settlement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrInvalidArgument)
	}
	if from == to {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidArgument)
	}

	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	active := activeMembers(group)
	if err := requireMember(active, groupID, from); err != nil {
		return nil, err
	}
	if err := requireMember(active, groupID, to); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID:      groupID,
		FromMemberID: from,
		ToMemberID:   to,
		Amount:       amount,
		Note:         note,
	}
	if err := s.store.AppendSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	slog.Info("settlement recorded",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return settlement, nil
}

// ListSettlements returns the group's settlement log in recording order.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID int64) ([]*models.Settlement, error) {
	return s.store.ListSettlements(ctx, groupID)
}

// activeMembers indexes a group's non-removed member IDs.
func activeMembers(group *models.Group) map[int64]bool {
	active := make(map[int64]bool, len(group.Members))
	for _, m := range group.Members {
		if !m.Removed {
			active[m.ID] = true
		}
	}
	return active
}

func requireMember(active map[int64]bool, groupID, memberID int64) error {
	if !active[memberID] {
		return fmt.Errorf("%w: member %d in group %d", storage.ErrMemberNotFound, memberID, groupID)
	}
	return nil
}
