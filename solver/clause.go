package solver

import (
	"fmt"
	"strings"
)

// A Clause is a disjunction of literals together with the positions of its
// two watched literals. Clauses are append-only and live for the life of the
// solver.
type Clause struct {
	lits    []Lit
	watched [2]int
}

// NewClause returns a clause over the given literals, in the given order.
func NewClause(lits ...Lit) *Clause {
	return &Clause{lits: lits}
}

// AddLiteral appends a literal on the given variable to the clause.
func (c *Clause) AddLiteral(v Var, positive bool) {
	c.lits = append(c.lits, NewLit(v, positive))
}

// Len returns the number of literals in the clause.
func (c *Clause) Len() int {
	return len(c.lits)
}

// Get returns the ith literal of the clause.
func (c *Clause) Get(i int) Lit {
	return c.lits[i]
}

// CNF returns the clause as a DIMACS line, without the trailing newline.
func (c *Clause) CNF() string {
	var sb strings.Builder
	for _, lit := range c.lits {
		fmt.Fprintf(&sb, "%d ", lit.Int())
	}
	sb.WriteByte('0')
	return sb.String()
}

// String renders the literals with a '*' marking the watched positions.
func (c *Clause) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, lit := range c.lits {
		if i != 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", lit.Int())
		if i == c.watched[0] || i == c.watched[1] {
			sb.WriteByte('*')
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

// propagation is the short-lived context passed to clause operations: the
// solver being mutated and the handle of this clause in its store.
type propagation struct {
	solver *Solver
	clause int
}

// removeDuplicates collapses repeated variables, keeping the first
// occurrence of each literal. It reports false when the clause contains a
// variable in both polarities, i.e. the clause is a tautology.
func (c *Clause) removeDuplicates() bool {
	encountered := make(map[Lit]bool, len(c.lits))
	var replacement []Lit
	for i, lit := range c.lits {
		if encountered[lit] {
			if replacement == nil {
				replacement = append(replacement, c.lits[:i]...)
			}
			continue
		}
		if encountered[lit.Negation()] {
			return false
		}
		encountered[lit] = true
		if replacement != nil {
			replacement = append(replacement, lit)
		}
	}
	if replacement != nil {
		c.lits = replacement
	}
	return true
}

// literalState reports whether the ith literal is satisfied, falsified or
// still free under the solver's current domains.
func (c *Clause) literalState(s *Solver, i int) Status {
	lit := c.lits[i]
	domain := s.domains[lit.Var()]
	switch {
	case !domain.IsSingleton():
		return Indet
	case domain.Value() == lit.IsPositive():
		return Sat
	default:
		return Unsat
	}
}

// findFreeLiteral returns the first position in [from, to) whose literal is
// not falsified, or to when every one of them is.
func (c *Clause) findFreeLiteral(s *Solver, from, to int) int {
	for i := from; i < to; i++ {
		lit := c.lits[i]
		if s.domains[lit.Var()].Contains(lit.IsPositive()) {
			return i
		}
	}
	return to
}

// initialPropagate normalizes the clause and installs its two watches.
// It returns Sat when the clause is a tautology or propagated a unit
// literal, Unsat when every literal is already falsified, and Indet when
// two watches were registered.
func (c *Clause) initialPropagate(p propagation) Status {
	if !c.removeDuplicates() {
		return Sat
	}
	size := c.Len()
	first := c.findFreeLiteral(p.solver, 0, size)
	if first == size {
		return Unsat
	}
	second := c.findFreeLiteral(p.solver, first+1, size)
	if second == size {
		return c.unitPropagate(p, first)
	}
	c.watched = [2]int{first, second}
	for _, watch := range c.watched {
		lit := c.lits[watch]
		p.solver.watchValueRemoval(p.clause, lit.Var(), lit.IsPositive())
	}
	return Indet
}

// findDifferentWatch searches for a replacement for the given watch slot:
// a non-falsified literal that is not held by the other slot. The scan runs
// from the position after the current watch to the end, then wraps to the
// front.
func (c *Clause) findDifferentWatch(s *Solver, watchIndex int) int {
	watch := c.watched[watchIndex]
	other := c.watched[1-watchIndex]
	for i := watch + 1; i < c.Len(); i++ {
		if i != other && c.literalState(s, i) != Unsat {
			return i
		}
	}
	for i := 0; i < watch; i++ {
		if i != other && c.literalState(s, i) != Unsat {
			return i
		}
	}
	return c.Len()
}

// propagate reacts to the removal of a watched value of triggeringVar.
// It returns Indet when the watch moved to another literal (the caller must
// then drop the clause from the stale watch list), Unsat when the clause is
// falsified, and Sat when it is resolved or performed a unit implication.
func (c *Clause) propagate(p propagation, triggeringVar Var) Status {
	if c.watched[0] >= c.watched[1] || c.watched[1] >= c.Len() {
		panic(fmt.Sprintf("Bug: clause %d has broken watches %v", p.clause, c.watched))
	}
	p.solver.logf("propagating %d %s", p.clause, c)

	watchIndex := 1
	if c.lits[c.watched[0]].Var() == triggeringVar {
		watchIndex = 0
	}
	if next := c.findDifferentWatch(p.solver, watchIndex); next != c.Len() {
		p.solver.logf("updating a watch of %d from %d to %d", p.clause, c.watched[watchIndex], next)
		lit := c.lits[next]
		p.solver.watchValueRemoval(p.clause, lit.Var(), lit.IsPositive())
		c.watched[watchIndex] = next
		if c.watched[0] > c.watched[1] {
			c.watched[0], c.watched[1] = c.watched[1], c.watched[0]
		}
		return Indet
	}
	other := c.watched[1-watchIndex]
	switch c.literalState(p.solver, other) {
	case Unsat:
		return Unsat
	case Sat:
		return Sat
	default:
		return c.unitPropagate(p, other)
	}
}

// unitPropagate asserts the literal at position i, the only non-falsified
// literal left in the clause.
func (c *Clause) unitPropagate(p propagation, i int) Status {
	lit := c.lits[i]
	domain := p.solver.domains[lit.Var()]
	if !domain.Contains(lit.IsPositive()) {
		p.solver.logf("conflicting literal %d", i)
		return Unsat
	}
	if domain.IsSingleton() {
		p.solver.logf("Trivially SAT literal %d", i)
		return Sat
	}
	p.solver.setDomain(lit.Var(), SingletonDomain(lit.IsPositive()), p.clause)
	p.solver.logf("Propagating literal %d <-- %v", i, lit.IsPositive())
	return Sat
}
