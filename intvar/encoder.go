// Package intvar expands finite-domain integer variables into boolean
// variables and clauses over them.
//
// Each integer variable gets one "one-hot" boolean variable per admissible
// value, constrained so that exactly one of them is true, plus auxiliary
// order variables ("the integer is at least this value") that keep the
// at-most-one constraint linear in the domain size.
package intvar

import (
	"github.com/pkg/errors"

	"github.com/michael-veksler/solver/solver"
)

// An IntVar is the handle of an encoded integer variable.
type IntVar int

// valueVars are the boolean variables backing one admissible value.
type valueVars struct {
	value int
	// oneHot is true iff the integer variable takes this value.
	oneHot solver.Var
	// order is true iff the integer variable is >= this value. It is 0 for
	// the smallest value, where the indicator would be trivially true, and
	// aliases oneHot for the biggest value, where the two coincide.
	order solver.Var
}

// An Encoder maps integer variables onto boolean variables of a single
// solver.
type Encoder struct {
	solver *solver.Solver
	vars   [][]valueVars
}

// NewEncoder returns an encoder feeding the given solver.
func NewEncoder(s *solver.Solver) *Encoder {
	return &Encoder{solver: s}
}

// AddVar encodes an integer variable over the given domain and returns its
// handle. An empty domain is legal and yields an unsatisfiable problem.
func (e *Encoder) AddVar(domain Domain) IntVar {
	values := e.addBoolVars(domain)
	e.valuesAreOrdered(values)
	e.atLeastOneTrue(values)
	e.atMostOneTrue(values)
	e.vars = append(e.vars, values)
	return IntVar(len(e.vars) - 1)
}

func (e *Encoder) addBoolVars(domain Domain) []valueVars {
	if domain.IsEmpty() {
		return nil
	}
	minValue := domain.Min()
	maxValue := domain.Max()
	values := make([]valueVars, 0, domain.Size())
	for _, value := range domain.Values() {
		vars := valueVars{value: value, oneHot: e.solver.AddVar()}
		if value == maxValue {
			vars.order = vars.oneHot
		} else if value != minValue {
			vars.order = e.solver.AddVar()
		}
		values = append(values, vars)
	}
	return values
}

// valuesAreOrdered makes the order indicators monotonically decreasing
// along the values: being at least some value implies being at least every
// smaller one.
func (e *Encoder) valuesAreOrdered(values []valueVars) {
	prevOrder := solver.Var(0)
	for _, vars := range values {
		if vars.order == 0 {
			continue
		}
		if prevOrder != 0 {
			e.addImplies(vars.order, prevOrder)
		}
		prevOrder = vars.order
	}
}

func (e *Encoder) atLeastOneTrue(values []valueVars) {
	lits := make([]solver.Lit, 0, len(values))
	for _, vars := range values {
		lits = append(lits, solver.NewLit(vars.oneHot, true))
	}
	e.solver.AddClause(lits...)
}

// atMostOneTrue ties each one-hot variable to its order indicator and each
// indicator to the exclusion of the previous value's one-hot variable.
func (e *Encoder) atMostOneTrue(values []valueVars) {
	prevOneHot := solver.Var(0)
	for _, vars := range values {
		if vars.order != 0 {
			e.addImplies(vars.oneHot, vars.order)
			if prevOneHot != 0 {
				e.addImpliesNot(prevOneHot, vars.order)
			}
		}
		prevOneHot = vars.oneHot
	}
}

func (e *Encoder) addImplies(pre, post solver.Var) {
	if pre == post {
		return
	}
	e.solver.AddClause(solver.NewLit(pre, false), solver.NewLit(post, true))
}

func (e *Encoder) addImpliesNot(pre, post solver.Var) {
	e.solver.AddClause(solver.NewLit(pre, false), solver.NewLit(post, false))
}

// OneHotVars returns the one-hot variables of a single integer variable,
// in increasing value order.
func (e *Encoder) OneHotVars(v IntVar) []solver.Var {
	values := e.vars[v]
	oneHot := make([]solver.Var, 0, len(values))
	for _, vars := range values {
		oneHot = append(oneHot, vars.oneHot)
	}
	return oneHot
}

// OneHotVariables returns the one-hot variables of every integer variable,
// typically used as the "important" set of a branching strategy.
func (e *Encoder) OneHotVariables() []solver.Var {
	var oneHot []solver.Var
	for v := range e.vars {
		oneHot = append(oneHot, e.OneHotVars(IntVar(v))...)
	}
	return oneHot
}

// CurrentDomain collects the values whose one-hot variable is true after a
// Sat solve.
func (e *Encoder) CurrentDomain(v IntVar) Domain {
	var domain Domain
	for _, vars := range e.vars[v] {
		if e.solver.Value(vars.oneHot) {
			// Values came from a Domain, so insertion cannot fail.
			_ = domain.Insert(vars.value)
		}
	}
	return domain
}

// Value returns the value assigned to the integer variable after a Sat
// solve, erroring unless exactly one one-hot variable is true.
func (e *Encoder) Value(v IntVar) (int, error) {
	domain := e.CurrentDomain(v)
	if domain.Size() > 1 {
		return 0, errors.New("multiple values assigned to an integer variable")
	}
	if domain.IsEmpty() {
		return 0, errors.New("no value assigned to an integer variable")
	}
	return domain.Min(), nil
}
