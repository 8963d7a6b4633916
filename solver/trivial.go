package solver

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// defaultMaxAttempts bounds the trivial search before giving up.
const defaultMaxAttempts = uint64(1) << 32

// Trivial is a reference SAT solver with a plain backtracking search: no
// propagation, no learning. It exists to cross-check the CDCL solver on
// small instances and is hopeless beyond a dozen or so variables.
type Trivial struct {
	// MaxAttempts is the number of falsified assignments after which Solve
	// returns Unknown.
	MaxAttempts uint64
	// Debug enables the trace log on Logger.
	Debug bool
	// Logger receives the trace when Debug is set.
	Logger *logrus.Logger

	domains []BoolDomain // index 0 reserved, as in Solver
	clauses []*Clause
}

// NewTrivial returns an empty reference solver.
func NewTrivial() *Trivial {
	return &Trivial{
		MaxAttempts: defaultMaxAttempts,
		Logger:      logrus.StandardLogger(),
		domains:     []BoolDomain{EmptyDomain},
	}
}

// AddVar adds a variable with a universal domain and returns its handle.
func (t *Trivial) AddVar() Var {
	return t.AddVarDomain(Universal)
}

// AddVarDomain adds a variable with the given initial domain.
func (t *Trivial) AddVarDomain(domain BoolDomain) Var {
	t.domains = append(t.domains, domain)
	return Var(len(t.domains) - 1)
}

// AddVars adds count universal variables and returns their handles.
func (t *Trivial) AddVars(count int) []Var {
	vars := make([]Var, count)
	for i := range vars {
		vars[i] = t.AddVar()
	}
	return vars
}

// AddClause appends a clause over the given literals and returns it.
func (t *Trivial) AddClause(lits ...Lit) *Clause {
	clause := NewClause(lits...)
	t.clauses = append(t.clauses, clause)
	return clause
}

// NumVars returns the number of variables.
func (t *Trivial) NumVars() int {
	return len(t.domains) - 1
}

// NumClauses returns the number of clauses.
func (t *Trivial) NumClauses() int {
	return len(t.clauses)
}

// CurrentDomain returns the current domain of the variable.
func (t *Trivial) CurrentDomain(v Var) BoolDomain {
	return t.domains[v]
}

// Value returns the value of a variable after a Sat solve.
func (t *Trivial) Value(v Var) bool {
	return t.domains[v].Value()
}

// Model returns the assignment after a Sat solve: index i holds the value
// of variable i+1.
func (t *Trivial) Model() []bool {
	model := make([]bool, t.NumVars())
	for i := range model {
		model[i] = t.domains[i+1].Value()
	}
	return model
}

func (t *Trivial) validateClauses() error {
	for handle, clause := range t.clauses {
		for i := 0; i < clause.Len(); i++ {
			v := clause.Get(i).Var()
			if v < 1 || int(v) >= len(t.domains) {
				return errors.Errorf("variable %d out of range in clause %d = %s", v, handle, clause)
			}
		}
	}
	return nil
}

// Solve enumerates assignments in handle order, false before true, pruning
// on the first falsified clause. An error is returned only for structurally
// invalid input.
func (t *Trivial) Solve() (Status, error) {
	if err := t.validateClauses(); err != nil {
		return Unknown, err
	}
	status, _ := t.solveRecursive(1, 0)
	return status, nil
}

func (t *Trivial) solveRecursive(depth Var, attempts uint64) (Status, uint64) {
	if t.hasConflict() {
		if attempts >= t.MaxAttempts {
			return Unknown, attempts + 1
		}
		return Unsat, attempts + 1
	}
	for ; int(depth) < len(t.domains); depth++ {
		if !t.domains[depth].IsUniversal() {
			continue
		}
		saved := t.domains[depth]
		for _, value := range saved.Values() {
			t.domains[depth] = SingletonDomain(value)
			status, next := t.solveRecursive(depth+1, attempts)
			attempts = next
			if status == Sat {
				return Sat, attempts
			}
			if status == Unknown {
				t.domains[depth] = saved
				return Unknown, attempts
			}
		}
		t.domains[depth] = saved
		return Unsat, attempts
	}
	return Sat, attempts
}

func (t *Trivial) hasConflict() bool {
	for handle, clause := range t.clauses {
		if t.clauseConflicts(clause) {
			if t.Debug {
				t.Logger.Infof("falsified clause %d = %s", handle, clause)
			}
			return true
		}
	}
	return false
}

// clauseConflicts reports whether no literal of the clause can still be
// satisfied under the current domains.
func (t *Trivial) clauseConflicts(clause *Clause) bool {
	for i := 0; i < clause.Len(); i++ {
		lit := clause.Get(i)
		if t.domains[lit.Var()].Contains(lit.IsPositive()) {
			return false
		}
	}
	return true
}
