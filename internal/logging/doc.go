// Package logging implements brand-scoped log emission over a syslog-style
// sink, with per-goroutine task labels and display names woven into every
// line.
//
// All shared state lives on a Hub constructed by the composition root: the
// sink, the facility setting, the console echo toggle, the hostname cache,
// the goroutine bookkeeping tables, the per-brand suppression set, and the
// backtrace registry. Each concern is guarded by its own lock and locks are
// never nested, so tests can build a fresh Hub without global teardown.
//
// Prefer Hub.NewEmitter over hand-rolled formatting so every subsystem emits
// lines with the same shape and routing guarantees.
package logging
