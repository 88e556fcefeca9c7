// Package calculator implements the pure ledger math: expense
// splitting, net-position aggregation, and settlement simplification.
// Nothing in this package touches storage, so every function is a pure
// function of its inputs and can be tested in isolation.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/evenup/evenup/internal/models"
	"github.com/evenup/evenup/internal/money"
)

// ErrInvalidSplit is returned when a split rule cannot produce a valid
// set of obligations: empty split set, duplicate members, percentages
// that do not sum to 100, negative percentages, or percentage fields
// that do not match the split type.
var ErrInvalidSplit = errors.New("invalid split")

// percentTolerance is how far the percentage sum may drift from 100
// before the split is rejected. 99.99 and 100.01 are out; 99.995 is in.
const percentTolerance = 0.01

// SplitInput names one member's participation in an expense. Percentage
// is required for percentage splits and must be absent for equal splits.
type SplitInput struct {
	MemberID   int64
	Percentage *float64
}

// ComputeSplits converts one expense amount plus a split rule into
// per-member obligations that sum to the amount exactly. The returned
// splits are in input order; rounding remainders are assigned per the
// deterministic rule documented on each split type.
func ComputeSplits(amount money.Money, splitType models.SplitType, inputs []SplitInput) ([]models.Split, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSplit, amount)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one member required", ErrInvalidSplit)
	}
	seen := make(map[int64]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.MemberID] {
			return nil, fmt.Errorf("%w: member %d listed twice", ErrInvalidSplit, in.MemberID)
		}
		seen[in.MemberID] = true
	}

	switch splitType {
	case models.SplitEqual:
		return equalSplits(amount, inputs)
	case models.SplitPercentage:
		return percentageSplits(amount, inputs)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, splitType)
	}
}

// equalSplits divides amount evenly. The remainder goes one cent at a
// time to the lowest member IDs: 100.00 over members {1,2,3} yields
// 33.34, 33.33, 33.33.
func equalSplits(amount money.Money, inputs []SplitInput) ([]models.Split, error) {
	for _, in := range inputs {
		if in.Percentage != nil {
			return nil, fmt.Errorf("%w: percentage given for equal split (member %d)", ErrInvalidSplit, in.MemberID)
		}
	}

	n := int64(len(inputs))
	base := amount.Cents() / n
	shares := make([]int64, len(inputs))
	for i := range shares {
		shares[i] = base
	}
	distributeRemainder(amount.Cents()-base*n, shares, equalOrder(inputs))

	splits := make([]models.Split, len(inputs))
	for i, in := range inputs {
		splits[i] = models.Split{MemberID: in.MemberID, Amount: money.FromCents(shares[i])}
	}
	return splits, nil
}

// percentageSplits divides amount by explicit percentages. Shares are
// floored at cent precision and the residue is absorbed by the largest
// fractional remainders first, ties broken by ascending member ID, so
// the total always matches the amount exactly.
func percentageSplits(amount money.Money, inputs []SplitInput) ([]models.Split, error) {
	total := 0.0
	for _, in := range inputs {
		if in.Percentage == nil {
			return nil, fmt.Errorf("%w: percentage missing for member %d", ErrInvalidSplit, in.MemberID)
		}
		if *in.Percentage < 0 {
			return nil, fmt.Errorf("%w: negative percentage for member %d", ErrInvalidSplit, in.MemberID)
		}
		total += *in.Percentage
	}
	if diff := math.Abs(total - 100.0); diff >= percentTolerance-1e-9 {
		return nil, fmt.Errorf("%w: percentages sum to %.2f, want 100", ErrInvalidSplit, total)
	}

	// Work in basis points so the shares come out of integer math.
	shares := make([]int64, len(inputs))
	fracs := make([]int64, len(inputs))
	for i, in := range inputs {
		bps := int64(math.Round(*in.Percentage * 100))
		num := amount.Cents() * bps
		shares[i] = num / 10000
		fracs[i] = num % 10000
	}
	var allocated int64
	for _, s := range shares {
		allocated += s
	}
	distributeRemainder(amount.Cents()-allocated, shares, remainderOrder(inputs, fracs))

	splits := make([]models.Split, len(inputs))
	for i, in := range inputs {
		pct := *in.Percentage
		splits[i] = models.Split{MemberID: in.MemberID, Amount: money.FromCents(shares[i]), Percentage: &pct}
	}
	return splits, nil
}

// distributeRemainder adjusts shares in place until they absorb rem,
// one cent per member per pass over the given priority order. rem is
// normally in [0, len(shares)) but percentage drift within tolerance
// can push it outside that range in either direction; cycling keeps the
// result exact and deterministic regardless.
func distributeRemainder(rem int64, shares []int64, order []int) {
	n := int64(len(order))
	for i := int64(0); i < rem; i++ {
		shares[order[i%n]]++
	}
	// Negative residue: take cents back starting from the members that
	// were rounded down the least.
	for i := int64(0); i < -rem; i++ {
		shares[order[n-1-i%n]]--
	}
}

// equalOrder ranks input positions by ascending member ID.
func equalOrder(inputs []SplitInput) []int {
	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return inputs[order[a]].MemberID < inputs[order[b]].MemberID
	})
	return order
}

// remainderOrder ranks input positions by descending fractional
// remainder, ties by ascending member ID.
func remainderOrder(inputs []SplitInput, fracs []int64) []int {
	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		fa, fb := fracs[order[a]], fracs[order[b]]
		if fa != fb {
			return fa > fb
		}
		return inputs[order[a]].MemberID < inputs[order[b]].MemberID
	})
	return order
}
