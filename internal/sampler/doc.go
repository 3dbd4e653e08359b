// Package sampler turns pairs of counter snapshots into utilization
// percentages.
//
// The arithmetic lives in two pure functions, DeltaPercent and
// ProcessPercent, which take explicit snapshots and never wait. Sampler wraps
// them with the snapshot-wait-snapshot sequence against a sysmon.Source and an
// injected clock, so tests can drive it without real delays.
package sampler
