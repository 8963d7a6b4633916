package solver

import "math/rand"

// A Strategy directs the search: where to start looking for the next
// decision variable and which value to try first. Implementations must be
// deterministic for a given construction to keep solves reproducible.
type Strategy interface {
	// FirstVarToChoose returns the handle to start the free-variable scan
	// from. prev is the most recent decision variable, or 0 when no
	// decision was made yet.
	FirstVarToChoose(prev Var) Var
	// ChooseValue returns the value to assign to the chosen variable.
	// The domain is never empty.
	ChooseValue(domain BoolDomain) bool
}

// defaultStrategy scans from the handle after the latest decision, wrapping
// around, and always tries false first.
type defaultStrategy struct{}

func (defaultStrategy) FirstVarToChoose(prev Var) Var {
	return prev + 1
}

func (defaultStrategy) ChooseValue(domain BoolDomain) bool {
	return domain.Min()
}

// RandomStrategy branches on a random variable from a designated
// "important" subset for as long as one of them is free; once none is, the
// free-variable scan starts from handle 1. Used to shape branching in
// encoder tests.
type RandomStrategy struct {
	rng       *rand.Rand
	important []Var
	isFree    func(Var) bool
}

// NewRandomStrategy returns a strategy seeded for reproducibility.
// isFree reports whether a variable can still be branched on.
func NewRandomStrategy(seed int64, important []Var, isFree func(Var) bool) *RandomStrategy {
	return &RandomStrategy{
		rng:       rand.New(rand.NewSource(seed)),
		important: append([]Var(nil), important...),
		isFree:    isFree,
	}
}

func (st *RandomStrategy) FirstVarToChoose(prev Var) Var {
	numImportant := len(st.important)
	for numImportant > 0 {
		i := st.rng.Intn(numImportant)
		candidate := st.important[i]
		if st.isFree(candidate) {
			return candidate
		}
		numImportant--
		st.important[i], st.important[numImportant] = st.important[numImportant], st.important[i]
	}
	return 1
}

func (st *RandomStrategy) ChooseValue(domain BoolDomain) bool {
	if domain.IsEmpty() {
		panic("Bug: choosing a value from an empty domain")
	}
	if domain.IsSingleton() {
		return domain.Min()
	}
	return st.rng.Intn(2) == 1
}
