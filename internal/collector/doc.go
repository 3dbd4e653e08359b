// Package collector runs the sampling loop: at a fixed cadence it takes one
// system sample and one sample per running process and appends the resulting
// rows to a Store. Presentation and metrics are decoupled through the
// CycleReporter and Recorder interfaces.
package collector
