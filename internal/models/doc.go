// Package models defines the core domain models for the Loveeee ledger.
//
// # Models
//
//   - User: a registered account, referenced by couples and expenses
//   - Couple: the pairing of exactly two users, the scope of every expense
//   - Expense: a single spending event owned by a couple
//
// # Design Principles
//
//  1. Relationships use ID strings instead of pointers
//  2. Amounts are decimal.Decimal, never float64
//  3. Timestamps that the store manages are Unix seconds; user-facing dates are time.Time
//  4. Enriched read models (CoupleDetail, ExpenseDetail) embed the stored model
package models
