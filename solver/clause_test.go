package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLitEncoding(t *testing.T) {
	pos := NewLit(3, true)
	neg := NewLit(3, false)
	assert.Equal(t, Var(3), pos.Var())
	assert.Equal(t, Var(3), neg.Var())
	assert.True(t, pos.IsPositive())
	assert.False(t, neg.IsPositive())
	assert.Equal(t, neg, pos.Negation())
	assert.Equal(t, pos, neg.Negation())
	assert.Equal(t, 3, pos.Int())
	assert.Equal(t, -3, neg.Int())
	assert.Equal(t, pos, IntToLit(3))
	assert.Equal(t, neg, IntToLit(-3))
}

func TestClauseCNF(t *testing.T) {
	c := NewClause(IntToLit(1), IntToLit(-2), IntToLit(3))
	require.Equal(t, "1 -2 3 0", c.CNF())
}

func TestClauseStringMarksWatches(t *testing.T) {
	c := NewClause(IntToLit(1), IntToLit(-2), IntToLit(3))
	c.watched = [2]int{0, 2}
	require.Equal(t, "{1*, -2, 3*}", c.String())
}

func TestRemoveDuplicates(t *testing.T) {
	t.Run("equal polarities collapse", func(t *testing.T) {
		c := NewClause(IntToLit(1), IntToLit(2), IntToLit(1), IntToLit(3), IntToLit(2))
		require.True(t, c.removeDuplicates())
		require.Equal(t, []Lit{IntToLit(1), IntToLit(2), IntToLit(3)}, c.lits)
	})
	t.Run("opposite polarities are a tautology", func(t *testing.T) {
		c := NewClause(IntToLit(1), IntToLit(2), IntToLit(-1))
		require.False(t, c.removeDuplicates())
	})
	t.Run("no duplicates is untouched", func(t *testing.T) {
		c := NewClause(IntToLit(1), IntToLit(-2))
		require.True(t, c.removeDuplicates())
		require.Equal(t, []Lit{IntToLit(1), IntToLit(-2)}, c.lits)
	})
}

// After a successful initial propagation over free variables, both watches
// must sit on the two leftmost literals.
func TestInitialWatchSelection(t *testing.T) {
	s := New()
	vars := s.AddVars(3)
	clause := s.AddClause(NewLit(vars[0], true), NewLit(vars[1], true), NewLit(vars[2], true))
	s.resetWatches()
	status := clause.initialPropagate(propagation{solver: s, clause: 0})
	require.Equal(t, Indet, status)
	require.Equal(t, [2]int{0, 1}, clause.watched)
}

// A falsified first literal pushes the watch to the next free position.
func TestInitialWatchSkipsFalsified(t *testing.T) {
	s := New()
	v := s.AddVarDomain(FalseDomain)
	w := s.AddVar()
	x := s.AddVar()
	clause := s.AddClause(NewLit(v, true), NewLit(w, true), NewLit(x, true))
	s.resetWatches()
	status := clause.initialPropagate(propagation{solver: s, clause: 0})
	require.Equal(t, Indet, status)
	require.Equal(t, [2]int{1, 2}, clause.watched)
}
