package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.CycleDone("unpack", nil, 3*time.Second)
	m.CycleDone("unpack", errors.New("boom"), time.Second)
	m.CycleDone("import", nil, time.Minute)
	m.ToolRun("extract", nil)
	m.ImportPoll()
	m.ImportPoll()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("unpack", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("unpack", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("import", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolRuns.WithLabelValues("extract", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.importPolls))
	assert.Equal(t, 2, testutil.CollectAndCount(m.cycleDuration))

	pth := filepath.Join(t.TempDir(), "solsync.prom")
	require.NoError(t, prometheus.WriteToTextfile(pth, m.Registry()))
	content, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Contains(t, string(content), "solsync_cycles_total")
	assert.Contains(t, string(content), "solsync_import_polls_total 2")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CycleDone("unpack", nil, time.Second)
		m.ToolRun("pack", nil)
		m.ImportPoll()
		assert.Nil(t, m.Registry())
	})
}
