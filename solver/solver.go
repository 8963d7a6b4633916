package solver

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// defaultMaxBacktracks bounds the search before giving up with Unknown.
const defaultMaxBacktracks = uint64(1) << 32

// A Solver is a Conflict-Driven Clause-Learning SAT solver. Variables and
// clauses are added up front; Solve may then be called repeatedly, but never
// concurrently: a Solve call owns all mutable state for its duration.
type Solver struct {
	// MaxBacktracks is the number of backjumps after which Solve returns
	// Unknown instead of an answer.
	MaxBacktracks uint64
	// Debug enables the trace log on Logger.
	Debug bool
	// Logger receives the trace when Debug is set.
	Logger *logrus.Logger

	strategy Strategy

	// Domains of the variables; index 0 is reserved so that signed
	// literals can never be ambiguous.
	domains      []BoolDomain
	implications []implication
	watches      [2][][]int
	dirtyVars    []Var
	clauses      []*Clause
	impliedVars  []Var
	chosenVars   []Var
	insideSolve  bool
}

// New returns a solver with no variables and no clauses.
func New() *Solver {
	return &Solver{
		MaxBacktracks: defaultMaxBacktracks,
		Logger:        logrus.StandardLogger(),
		strategy:      defaultStrategy{},
		domains:       []BoolDomain{EmptyDomain},
		implications:  []implication{{}},
	}
}

// SetStrategy replaces the branching strategy. A nil strategy restores the
// deterministic default.
func (s *Solver) SetStrategy(strategy Strategy) {
	if strategy == nil {
		strategy = defaultStrategy{}
	}
	s.strategy = strategy
}

// AddVar adds a variable with a universal domain and returns its handle.
func (s *Solver) AddVar() Var {
	return s.AddVarDomain(Universal)
}

// AddVarDomain adds a variable with the given initial domain.
func (s *Solver) AddVarDomain(domain BoolDomain) Var {
	s.domains = append(s.domains, domain)
	s.implications = append(s.implications, implication{})
	return Var(len(s.domains) - 1)
}

// AddVars adds count universal variables and returns their handles.
func (s *Solver) AddVars(count int) []Var {
	vars := make([]Var, count)
	for i := range vars {
		vars[i] = s.AddVar()
	}
	return vars
}

// AddClause appends a clause over the given literals and returns it, so
// callers may keep adding literals before the first Solve.
func (s *Solver) AddClause(lits ...Lit) *Clause {
	clause := NewClause(lits...)
	s.clauses = append(s.clauses, clause)
	return clause
}

// NumVars returns the number of variables.
func (s *Solver) NumVars() int {
	return len(s.domains) - 1
}

// NumClauses returns the number of clauses, learned ones included.
func (s *Solver) NumClauses() int {
	return len(s.clauses)
}

// CurrentDomain returns the current domain of the variable.
func (s *Solver) CurrentDomain(v Var) BoolDomain {
	return s.domains[v]
}

// Value returns the value of a variable after a Sat solve.
func (s *Solver) Value(v Var) bool {
	return s.domains[v].Value()
}

// Model returns the assignment after a Sat solve: index i holds the value
// of variable i+1.
func (s *Solver) Model() []bool {
	model := make([]bool, s.NumVars())
	for i := range model {
		model[i] = s.domains[i+1].Value()
	}
	return model
}

func (s *Solver) logf(format string, args ...interface{}) {
	if !s.Debug {
		return
	}
	s.Logger.Infof(format, args...)
}

// validateClauses rejects clauses referring to variables that were never
// added, before any propagation takes place.
func (s *Solver) validateClauses() error {
	for handle, clause := range s.clauses {
		for i := 0; i < clause.Len(); i++ {
			v := clause.Get(i).Var()
			if v < 1 || int(v) >= len(s.domains) {
				return errors.Errorf("variable %d out of range in clause %d = %s", v, handle, clause)
			}
		}
	}
	return nil
}

// Solve decides the problem and returns Sat, Unsat or, once the backtrack
// budget is exhausted, Unknown. An error is returned only for structurally
// invalid input.
func (s *Solver) Solve() (Status, error) {
	if err := s.validateClauses(); err != nil {
		return Unknown, err
	}
	defer func(prev bool) { s.insideSolve = prev }(s.insideSolve)
	s.insideSolve = true
	if !s.initialPropagate() {
		return Unsat, nil
	}
	backtracks := uint64(0)
	for {
		conflicting := s.propagate()
		if conflicting < 0 {
			if !s.makeChoice() {
				s.validateAllSingletons()
				return Sat, nil
			}
			continue
		}
		if s.level() == 0 {
			s.logf("Failed at level 0, no solution possible")
			return Unsat, nil
		}
		level, learned, ok := s.analyzeConflict(conflicting)
		if !ok {
			s.logf("Conflict analysis detected the empty clause, no solution possible")
			return Unsat, nil
		}
		s.logf("Backtrack to level %d, generated clause=%d", level, learned)
		if backtracks == s.MaxBacktracks {
			return Unknown, nil
		}
		s.backtrack(level)
		// The learned clause is unit at the backjump level: installing it
		// must reduce exactly one domain.
		if status := s.clauses[learned].initialPropagate(propagation{solver: s, clause: learned}); status != Sat {
			panic("Bug: learned clause did not propagate at the backjump level")
		}
		backtracks++
	}
}

// initialPropagate rebuilds the watch index, registers the watches of every
// clause in insertion order, and drains the resulting implications. It
// reports false when some clause is already falsified.
func (s *Solver) initialPropagate() bool {
	s.dirtyVars = s.dirtyVars[:0]
	s.implications = make([]implication, len(s.domains))
	s.impliedVars = s.impliedVars[:0]
	s.chosenVars = s.chosenVars[:0]
	s.resetWatches()
	for handle, clause := range s.clauses {
		status := clause.initialPropagate(propagation{solver: s, clause: handle})
		if status == Unsat {
			s.logf("Trivially UNSAT clause %d = %s", handle, clause)
			return false
		}
	}
	return s.propagate() < 0
}

// makeChoice branches on a free variable picked by the strategy. It reports
// false when every domain is singleton, i.e. the problem is solved.
func (s *Solver) makeChoice() bool {
	prev := Var(0)
	if len(s.chosenVars) > 0 {
		prev = s.chosenVars[len(s.chosenVars)-1]
	}
	chosen, ok := s.findFreeVar(s.strategy.FirstVarToChoose(prev))
	if !ok {
		s.logf("Nothing to choose")
		return false
	}
	s.chosenVars = append(s.chosenVars, chosen)
	value := s.strategy.ChooseValue(s.domains[chosen])
	s.setDomain(chosen, SingletonDomain(value), decisionCause)
	if s.implications[chosen].level != s.level() {
		panic("Bug: decision recorded at the wrong level")
	}
	return true
}

// findFreeVar scans the handles from start to the end, wrapping to 1, and
// returns the first variable whose domain is not singleton.
func (s *Solver) findFreeVar(start Var) (Var, bool) {
	numVars := Var(len(s.domains) - 1)
	if start < 1 || start > numVars {
		start = 1
	}
	for v := start; v <= numVars; v++ {
		if !s.domains[v].IsSingleton() {
			return v, true
		}
	}
	for v := Var(1); v < start; v++ {
		if !s.domains[v].IsSingleton() {
			return v, true
		}
	}
	return 0, false
}

// validateAllSingletons double-checks the claimed solution shape.
func (s *Solver) validateAllSingletons() {
	for v := 1; v < len(s.domains); v++ {
		if !s.domains[v].IsSingleton() {
			panic(errors.Errorf("Bug: var=%d should be singleton at a SAT solution", v))
		}
	}
}
