// Package models defines the core domain models for Circles.
//
// # Models
//
//   - User: Registered account. Clients only ever see the UID.
//   - Circle: A group of users sharing bills and budgets.
//   - CircleMembership: A user's membership row in a circle.
//   - Bill / BillCategory: Expenses recorded inside a circle.
//   - Budget: A spending target for a date window inside a circle.
//
// # Design Principles
//
//  1. **Internal vs external ids**: Users carry a numeric ID used in storage
//     and a UUID (UID) handed out to clients.
//  2. **Circle scope**: Bills, budgets and memberships reference their circle by
//     ID; visibility is decided by membership rows, never by the model itself.
//  3. **Plain records**: No behavior beyond small helpers. The `db` tags are
//     read by the storage layer.
//  4. **Dates as strings**: Bill and budget dates are `YYYY-MM-DD` strings so
//     that ordering is lexical on every backend.
package models

// DateLayout is the layout used for bill and budget dates.
const DateLayout = "2006-01-02"
