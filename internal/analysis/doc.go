// Package analysis examines stored samples after the fact: it classifies
// system rows as idle or active, finds usage spikes against a rolling mean,
// correlates system CPU with the sum of per-process CPU and names the
// processes that dominate CPU spikes.
//
// Unavailable measurements (record.Sentinel) never take part in a mean, a
// spike or a correlation.
package analysis
