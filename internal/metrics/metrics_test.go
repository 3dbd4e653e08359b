package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/sysoptimizer/internal/record"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()
	m := New()

	m.CycleCompleted(300 * time.Millisecond)
	m.CycleCompleted(200 * time.Millisecond)
	m.RowWritten(record.SystemTable)
	m.RowWritten(record.ProcessTable)
	m.RowWritten(record.ProcessTable)
	m.ProcessSkipped("open")
	m.InsertFailed(record.ProcessTable)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsWritten.WithLabelValues(record.SystemTable)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsWritten.WithLabelValues(record.ProcessTable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.insertFailed.WithLabelValues(record.ProcessTable)))
}

func TestMetrics_SystemSampled(t *testing.T) {
	t.Parallel()
	m := New()

	m.SystemSampled(record.SystemSample{CPUUsage: 40, MemoryUsage: 73, DiskUsage: 55})
	m.SystemSampled(record.SystemSample{CPUUsage: record.Sentinel, MemoryUsage: 74, DiskUsage: 55})

	assert.Equal(t, 40.0, testutil.ToFloat64(m.usage.WithLabelValues("cpu")), "unavailable keeps the last value")
	assert.Equal(t, 74.0, testutil.ToFloat64(m.usage.WithLabelValues("memory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unavailable.WithLabelValues("cpu")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()
	m := New()
	m.CycleCompleted(time.Second)

	path := filepath.Join(t.TempDir(), "sysoptimizer.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.Contains(body, "sysoptimizer_cycles_total 1"), body)
	assert.True(t, strings.Contains(body, "go_goroutines"), "runtime metrics should be included")
}
