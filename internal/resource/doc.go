// Package resource implements the list-resource controller shared by every
// admin screen.
//
// A screen owns one Controller per backend collection. The Controller keeps
// a Store holding the last successfully fetched snapshot; the Store is only
// ever replaced wholesale by a fetch, never patched locally. Every successful
// write is followed by a full refetch:
//
//	mount ──→ FetchAll ──→ Store.Replace
//	submit ─→ Create/Update/Remove ──→ FetchAll
//
// Failed fetches keep the previous items visible and record the error, so a
// transient read failure never flashes the view to empty.
//
// Derive projects a snapshot into the page the operator sees: filter by a
// case-insensitive search term, stable sort by a (key, direction) pair, then
// clamp the page number and slice the window.
//
// Session tracks the modal overlay of a screen (create/edit form, delete
// confirmation, nested add-member form, detail view) and the in-flight flag
// that blocks double submission.
package resource
