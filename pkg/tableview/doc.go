// Package tableview computes the visible page of a record collection from
// a search text, per-field filters, an optional sort and a page position.
//
// Compute is pure and may be called on every render. View wraps a Config
// with the operations a list screen issues (SetSearch, SetFilter,
// ToggleSort, SetPage) and keeps the page clamped to the data it last saw.
package tableview
