package intvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-veksler/solver/solver"
)

func TestDomainBounds(t *testing.T) {
	_, err := NewDomain(1, 300)
	require.Error(t, err)
	require.Contains(t, err.Error(), "value 300 out of the domain bounds")

	var d Domain
	require.Error(t, d.Insert(-1))
	require.NoError(t, d.Insert(MaxValue))
	require.True(t, d.Contains(MaxValue))
}

func TestDomainQueries(t *testing.T) {
	d, err := NewDomain(3, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, 1, d.Min())
	assert.Equal(t, 7, d.Max())
	assert.Equal(t, []int{1, 3, 7}, d.Values())
	assert.True(t, d.Contains(3))
	assert.False(t, d.Contains(2))
	assert.False(t, d.IsEmpty())
	assert.False(t, d.IsSingleton())
	assert.Equal(t, "{1, 3, 7}", d.String())

	d.Erase(3)
	assert.Equal(t, []int{1, 7}, d.Values())

	assert.True(t, UniversalDomain().IsUniversal())
	assert.Equal(t, "{*}", UniversalDomain().String())
	assert.True(t, Domain{}.IsEmpty())
}

func TestEmptyDomainIsUnsat(t *testing.T) {
	s := solver.New()
	enc := NewEncoder(s)
	enc.AddVar(Domain{})
	status, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.Unsat, status)
}

func TestSingleValueDomain(t *testing.T) {
	for _, value := range []int{MinValue, MaxValue, 1, 2, 3, 4, 5, 6, 7, 8, 9} {
		s := solver.New()
		enc := NewEncoder(s)
		domain, err := NewDomain(value)
		require.NoError(t, err)
		v := enc.AddVar(domain)
		status, err := s.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.Sat, status)
		got, err := enc.Value(v)
		require.NoError(t, err)
		require.Equal(t, value, got)
	}
}

func TestMultiValueDomainDefaultStrategy(t *testing.T) {
	s := solver.New()
	enc := NewEncoder(s)
	domain, err := NewDomain(0, 1, 2, 10, 11, MaxValue)
	require.NoError(t, err)
	v := enc.AddVar(domain)
	status, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.Sat, status)
	value, err := enc.Value(v)
	require.NoError(t, err)
	require.True(t, domain.Contains(value))
	require.True(t, enc.CurrentDomain(v).IsSingleton())
	require.True(t, enc.CurrentDomain(v).Contains(value))
}

// With a seeded random strategy branching on the one-hot variables, every
// value of the domain must be reachable across seeds.
func TestMultiValueDomainRandomStrategy(t *testing.T) {
	domain, err := NewDomain(0, 1, 2, 10, 11, MaxValue)
	require.NoError(t, err)
	counts := map[int]int{}
	const numSamples = 120
	for seed := int64(1); seed <= numSamples; seed++ {
		s := solver.New()
		enc := NewEncoder(s)
		v := enc.AddVar(domain)
		isFree := func(tested solver.Var) bool {
			return s.CurrentDomain(tested).IsUniversal()
		}
		s.SetStrategy(solver.NewRandomStrategy(seed, enc.OneHotVariables(), isFree))
		status, err := s.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.Sat, status, "seed %d", seed)
		value, err := enc.Value(v)
		require.NoError(t, err)
		require.True(t, domain.Contains(value), "seed %d chose %d", seed, value)
		counts[value]++
	}
	for _, value := range domain.Values() {
		require.Positive(t, counts[value], "value %d never chosen", value)
	}
}

func TestTwoVariablesDistinct(t *testing.T) {
	s := solver.New()
	enc := NewEncoder(s)
	domain, err := NewDomain(1, 2)
	require.NoError(t, err)
	left := enc.AddVar(domain)
	right := enc.AddVar(domain)
	// Forbid equal values: the one-hot vars of the same value cannot both
	// be true.
	leftHot, rightHot := enc.OneHotVars(left), enc.OneHotVars(right)
	for i := range leftHot {
		s.AddClause(solver.NewLit(leftHot[i], false), solver.NewLit(rightHot[i], false))
	}
	status, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.Sat, status)
	leftValue, err := enc.Value(left)
	require.NoError(t, err)
	rightValue, err := enc.Value(right)
	require.NoError(t, err)
	require.NotEqual(t, leftValue, rightValue)
}

func TestOneHotVariablesCoverAllValues(t *testing.T) {
	s := solver.New()
	enc := NewEncoder(s)
	first, err := NewDomain(1, 2, 3)
	require.NoError(t, err)
	second, err := NewDomain(4, 5)
	require.NoError(t, err)
	a := enc.AddVar(first)
	b := enc.AddVar(second)
	require.Len(t, enc.OneHotVars(a), 3)
	require.Len(t, enc.OneHotVars(b), 2)
	require.Len(t, enc.OneHotVariables(), 5)
}
