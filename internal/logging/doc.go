// Package logging provides the structured logger shared by the collector,
// the store and the command line. Components depend on the small Logger
// interface so tests can swap in a buffer-backed or no-op implementation.
package logging
