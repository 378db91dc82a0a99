// Package beantab provides the types and functions behind an editable grid
// of ledger balances: one row per account and currency, one column per date.
//
// The balances belong to a Fava server running the BeanTab extension. Edits
// stay local until saved, and a save is only trusted once the server shows
// that the ledger changed.
//
// The core functionalities include:
//   - Cell codec: Encode and Decode turn a value and its balance type into
//     the text typed in a cell ("100", "50~", "12F~") and back.
//   - Edit buffer: EditBuffer keeps the pending edits with the value each
//     cell had before its first edit, and persists them in a Storage.
//   - Pivot: BuildGrid is a pure function from balances, edits, an account
//     filter and GridOptions to a Grid.
//   - Save: Reconciler submits the edits and polls the ledger change marker
//     until it moves past the value read before submitting.
//   - Session: ties a Backend, an EditBuffer and the user preferences
//     together for a user interface.
//
// This package serves as the foundational logic for the `btab` command-line
// tool.
package beantab
