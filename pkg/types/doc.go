// Package types defines the record capability, the ERP entity types, the
// Cupboard and Table storage interfaces, configuration, and the standard
// error values shared by every Buxgalter package.
//
// Entities are plain values. Generic code reads them through Record.Field
// and changes them through Mutable.Apply, so the view engine and the
// optimistic list never need to know the concrete shape of a row.
package types
