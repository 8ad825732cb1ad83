package observability_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()

	hooks.OnRescan(&domain.RescanEvent{Reason: "attach"})
	hooks.OnBlockDirty(&domain.BlockEvent{})
	hooks.OnRegenerate(&domain.BlockEvent{Outcome: domain.OutcomeReplaced, FailedHunks: 2, Duration: time.Millisecond})
	hooks.OnRegenerate(&domain.BlockEvent{Outcome: domain.OutcomeUnchanged})
	hooks.OnDamaged(&domain.BlockEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rescans.WithLabelValues("attach")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dirty))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Regenerations.WithLabelValues("replaced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Regenerations.WithLabelValues("unchanged")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DroppedHunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Damaged))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestMetrics_EngineIntegration(t *testing.T) {
	m := observability.NewMetrics()
	buf := memory.NewBuffer("//` Foo(int x)\n")
	engine, err := runtime.NewEngine(buf, runtime.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	defer engine.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rescans.WithLabelValues("attach")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Regenerations.WithLabelValues("inserted")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `graft_regenerations_total{outcome="inserted"} 1`)
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnRescan: func(*domain.RescanEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnRescan:  func(*domain.RescanEvent) { calls = append(calls, "b") },
		OnDamaged: func(*domain.BlockEvent) { calls = append(calls, "damaged") },
	}

	hooks := observability.Chain(a, domain.LifecycleHooks{}, b)
	hooks.OnRescan(&domain.RescanEvent{})
	hooks.OnDamaged(&domain.BlockEvent{})

	assert.Equal(t, []string{"a", "b", "damaged"}, calls)
	assert.Nil(t, hooks.OnBlockDirty)
}

func TestLogHooks(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	hooks := observability.LogHooks(logger)
	hooks.OnRegenerate(&domain.BlockEvent{
		EventBase: domain.EventBase{DocumentID: "doc"},
		Block:     3,
		Outcome:   domain.OutcomeInserted,
	})
	hooks.OnBlockDirty(&domain.BlockEvent{Block: 1})

	line := out.String()
	assert.Contains(t, line, "msg=regenerate")
	assert.Contains(t, line, "document=doc")
	assert.Contains(t, line, "outcome=inserted")
	assert.False(t, strings.Contains(line, "block_dirty"), "debug is below the default level")
}
