package procgui

import (
	"math"
	"testing"

	"github.com/golly-go/lsys/drawing"
	"github.com/golly-go/lsys/lsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) (*LSystemView, *lsys.LSystem, *drawing.Parameters) {
	t.Helper()

	l := lsys.New("F", lsys.Rules{'F': "F+F"})
	p := drawing.NewParameters(drawing.Snapshot{Step: 1, DeltaAngle: math.Pi / 2, Iterations: 1})

	v, err := NewLSystemView(l, p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })

	return v, l, p
}

func TestNewLSystemView_InitialState(t *testing.T) {
	v, l, p := newTestView(t)

	assert.True(t, v.Bound())
	assert.Equal(t, 1, v.Recomputes())
	assert.Len(t, v.Segments(), 2)
	assert.Equal(t, []RuleRow{{Predecessor: "F", Successor: "F+F", Valid: true}}, v.Rules())
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, p.Len())
}

func TestNewLSystemView_InvalidTargets(t *testing.T) {
	p := drawing.NewParameters(drawing.Snapshot{})
	_, err := NewLSystemView(nil, p)
	assert.Error(t, err)
	assert.Equal(t, 0, p.Len())

	l := lsys.New("F", nil)
	_, err = NewLSystemView(l, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, l.Len(), "grammar watcher released when the second watch fails")
}

func TestLSystemView_RecomputesOnModelChanges(t *testing.T) {
	v, l, p := newTestView(t)

	p.SetIterations(2)
	assert.Equal(t, 2, v.Recomputes())
	assert.Len(t, v.Segments(), 4)

	l.SetAxiom("FF")
	assert.Equal(t, 3, v.Recomputes())
	assert.Len(t, v.Segments(), 8)
}

func TestLSystemView_CloseStopsUpdates(t *testing.T) {
	v, l, p := newTestView(t)

	require.NoError(t, v.Close())
	assert.False(t, v.Bound())
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, p.Len())

	p.SetIterations(3)
	l.SetAxiom("FFF")
	assert.Equal(t, 1, v.Recomputes())
}

func TestLSystemView_ExternalRuleChangeReloadsBuffer(t *testing.T) {
	v, l, _ := newTestView(t)

	l.AddRule('G', "GG")
	assert.Equal(t, []RuleRow{
		{Predecessor: "F", Successor: "F+F", Valid: true},
		{Predecessor: "G", Successor: "GG", Valid: true},
	}, v.Rules())
}

func TestLSystemView_EditRules(t *testing.T) {
	v, l, _ := newTestView(t)

	row := v.AddRow()
	assert.Equal(t, 1, row)

	ok, err := v.SetPredecessor(row, "F")
	require.NoError(t, err)
	assert.False(t, ok, "duplicate predecessor")
	assert.Equal(t, lsys.Rules{'F': "F+F"}, l.Rules())

	ok, err = v.SetPredecessor(row, "G")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, v.SetSuccessor(row, "F-G"))
	assert.Equal(t, lsys.Rules{'F': "F+F", 'G': "F-G"}, l.Rules())

	// the empty row added next survives our own sync
	empty := v.AddRow()
	require.NoError(t, v.SetSuccessor(0, "FF"))
	assert.Len(t, v.Rules(), 3)
	assert.Equal(t, "", v.Rules()[empty].Predecessor)
	assert.Equal(t, lsys.Rules{'F': "FF", 'G': "F-G"}, l.Rules())

	require.NoError(t, v.RemoveRow(0))
	assert.Equal(t, lsys.Rules{'G': "F-G"}, l.Rules())
}

func TestLSystemView_RemovingDuplicateRevalidates(t *testing.T) {
	v, l, _ := newTestView(t)

	row := v.AddRow()
	_, err := v.SetPredecessor(row, "F")
	require.NoError(t, err)
	require.NoError(t, v.SetSuccessor(row, "FFF"))
	assert.Equal(t, lsys.Rules{'F': "F+F"}, l.Rules())

	require.NoError(t, v.RemoveRow(0))
	assert.Equal(t, []RuleRow{{Predecessor: "F", Successor: "FFF", Valid: true}}, v.Rules())
	assert.Equal(t, lsys.Rules{'F': "FFF"}, l.Rules())
}

func TestLSystemView_RowErrors(t *testing.T) {
	v, _, _ := newTestView(t)

	_, err := v.SetPredecessor(5, "F")
	assert.Error(t, err)

	_, err = v.SetPredecessor(0, "FG")
	assert.Error(t, err)

	assert.Error(t, v.SetSuccessor(-1, "F"))
	assert.Error(t, v.RemoveRow(3))
}

func TestLSystemView_TwoViewsShareModels(t *testing.T) {
	a, l, p := newTestView(t)

	b, err := NewLSystemView(l, p)
	require.NoError(t, err)

	require.NoError(t, b.Close())

	p.SetStep(2)
	assert.Equal(t, 2, a.Recomputes())
	assert.Equal(t, 1, b.Recomputes())
	assert.Equal(t, 1, l.Len())
}
