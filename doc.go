// Package wallet keeps the ledger of a personal trading account: portfolios
// with their capital, the trades opened and closed with that capital, the
// financial goals each portfolio should reach, and an account-wide savings
// balance fed by withdrawals and spent by expenses.
//
// The core functionalities include:
//   - Ledger: every mutation (capital adjustment, trade lifecycle, withdrawal,
//     expense) is validated, applied to a copy of the state and persisted
//     before it becomes visible, so that a failed write leaves nothing behind.
//   - Valuation: trades are sized by the capital committed rather than by a
//     share count; quantities, close proceeds and profits derive from it.
//   - Goals: goals are re-evaluated after every capital change, with a
//     notification the first time each goal is reached.
//   - Reports: per currency summaries, portfolio comparison, performance
//     statistics and capital history.
//   - Snapshots: the whole account can be exported to and imported from a
//     single JSON document.
//
// This package serves as the foundational logic for the `wlt` command-line
// tool and its HTTP API.
package wallet
