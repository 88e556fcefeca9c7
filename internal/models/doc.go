// Package models defines the core domain models for Evenup.
//
// The ledger is append-only: groups and their members are fixed at
// creation time, and expenses are immutable once recorded. Corrections
// are new entries (a reversing expense or a settlement), never edits,
// so the expense log stays auditable and balances can always be
// recomputed from scratch.
//
// Monetary fields use money.Money (integer cents) throughout; float64
// never carries an amount.
package models
