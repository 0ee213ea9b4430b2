package scheduling

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateSummary_MinStartMaxEnd(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary()))
	s.add(task("a", child("phase"), dated("2026-01-01", "2026-01-05")))
	s.add(task("b", child("phase"), dated("2026-01-10", "2026-01-20")))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	requireDates(t, s, "phase", "2026-01-01", "2026-01-20")
}

func TestRecalculateSummary_WeightedProgress(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary()))
	s.add(task("a", child("phase"), progress(100, pd(10))))
	s.add(task("b", child("phase"), progress(0, pd(30))))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	assert.Equal(t, 25, s.tasks["phase"].Progress)
}

func TestRecalculateSummary_DefaultWeightAndRounding(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary()))
	s.add(task("a", child("phase"), progress(50, nil)))
	s.add(task("b", child("phase"), progress(0, nil)))
	s.add(task("c", child("phase"), progress(100, pd(1))))
	// (50 + 0 + 100) / 3 = 50
	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	assert.Equal(t, 50, s.tasks["phase"].Progress)

	s.tasks["c"].Progress = 1
	// (50 + 0 + 1) / 3 = 17
	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	assert.Equal(t, 17, s.tasks["phase"].Progress)
}

func TestRecalculateSummary_ZeroWeightChildren(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary(), progress(40, nil)))
	s.add(task("a", child("phase"), progress(80, pd(0))))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	assert.Equal(t, 0, s.tasks["phase"].Progress)
}

func TestRecalculateSummary_NoChildrenIsNoop(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary(), dated("2026-03-01", "2026-03-31"), progress(60, nil)))
	s.add(task("gone", child("phase"), dated("2026-05-01", "2026-05-02"), deleted()))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	requireDates(t, s, "phase", "2026-03-01", "2026-03-31")
	assert.Equal(t, 60, s.tasks["phase"].Progress)
	assert.Zero(t, s.writes)
}

func TestRecalculateSummary_NotASummaryIsNoop(t *testing.T) {
	s := newMemStore()
	s.add(task("leaf", dated("2026-03-01", "2026-03-02")))
	s.add(task("a", child("leaf"), dated("2026-01-01", "2026-01-05")))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "leaf"))
	requireDates(t, s, "leaf", "2026-03-01", "2026-03-02")
	assert.Zero(t, s.writes)
}

func TestRecalculateSummary_PartialDates(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary(), dated("2025-01-01", "2025-12-31")))
	s.add(task("a", child("phase"), dated("2026-02-01", "")))
	s.add(task("b", child("phase")))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	requireDates(t, s, "phase", "2026-02-01", "")
}

func TestRecalculateSummary_WalksAncestors(t *testing.T) {
	s := newMemStore()
	s.add(task("root", summary()))
	s.add(task("phase", summary(), child("root")))
	s.add(task("sibling", child("root"), dated("2026-01-02", "2026-01-03"), progress(0, nil)))
	s.add(task("leaf", child("phase"), dated("2026-01-10", "2026-01-15"), progress(100, nil)))

	require.NoError(t, NewEngine(s).RecalculateSummary(context.Background(), "phase"))
	requireDates(t, s, "phase", "2026-01-10", "2026-01-15")
	requireDates(t, s, "root", "2026-01-02", "2026-01-15")
	assert.Equal(t, 50, s.tasks["root"].Progress)
}

func TestRecalculateSummary_ExcludesDeletedChild(t *testing.T) {
	s := newMemStore()
	s.add(task("phase", summary()))
	s.add(task("a", child("phase"), dated("2026-01-01", "2026-01-05"), progress(100, nil)))
	s.add(task("b", child("phase"), dated("2026-01-10", "2026-01-20"), progress(0, nil)))

	e := NewEngine(s)
	require.NoError(t, e.RecalculateSummary(context.Background(), "phase"))
	assert.Equal(t, 50, s.tasks["phase"].Progress)

	s.tasks["b"].DeletedAt = day("2026-01-01")
	require.NoError(t, e.RecalculateSummary(context.Background(), "phase"))
	requireDates(t, s, "phase", "2026-01-01", "2026-01-05")
	assert.Equal(t, 100, s.tasks["phase"].Progress)
}

func TestRecalculateProject_BottomUp(t *testing.T) {
	s := newMemStore()
	s.add(task("root", summary()))
	s.add(task("mid", summary(), child("root")))
	s.add(task("deep", summary(), child("mid")))
	s.add(task("leaf", child("deep"), dated("2026-04-01", "2026-04-09"), progress(30, nil)))

	require.NoError(t, NewEngine(s).RecalculateProject(context.Background(), "p1"))
	for _, id := range []string{"deep", "mid", "root"} {
		requireDates(t, s, id, "2026-04-01", "2026-04-09")
		assert.Equal(t, 30, s.tasks[id].Progress, id)
	}
}

func TestAggregate_SkipsDeleted(t *testing.T) {
	r, ok := Aggregate(nil)
	assert.False(t, ok)
	assert.Nil(t, r.StartDate)

	_, ok = Aggregate([]*domain.Task{task("x", deleted())})
	assert.False(t, ok)
}
