package solver

import (
	"fmt"
	"sort"
	"strings"
)

// conflictAnalysis holds the clause being derived during conflict analysis:
// a polarity per variable, plus an index of those variables ordered by their
// implication depth so the most recently implied literal is always at hand.
type conflictAnalysis struct {
	solver     *Solver
	literals   map[Var]bool
	depthToVar map[int]Var
	depths     []int // sorted ascending
}

// newConflictAnalysis seeds the analysis with the literals of the
// conflicting clause. Variables that were never implied (depth 0) are
// permanently falsified and dropped right away.
func newConflictAnalysis(s *Solver, conflictingClause int) *conflictAnalysis {
	ca := &conflictAnalysis{
		solver:     s,
		literals:   make(map[Var]bool),
		depthToVar: make(map[int]Var),
	}
	clause := s.clauses[conflictingClause]
	s.logf("initiating conflict analysis with conflicting_clause %d=%s", conflictingClause, clause)
	for i := 0; i < clause.Len(); i++ {
		lit := clause.Get(i)
		v := lit.Var()
		depth := s.implications[v].depth
		if depth == 0 {
			continue
		}
		if _, seen := ca.literals[v]; seen {
			panic("Bug: duplicate variable in a conflicting clause")
		}
		ca.addLiteral(v, lit.IsPositive(), depth)
	}
	s.logf("cl=%s", ca)
	return ca
}

func (ca *conflictAnalysis) addLiteral(v Var, positive bool, depth int) {
	ca.literals[v] = positive
	ca.depthToVar[depth] = v
	i := sort.SearchInts(ca.depths, depth)
	ca.depths = append(ca.depths, 0)
	copy(ca.depths[i+1:], ca.depths[i:])
	ca.depths[i] = depth
}

func (ca *conflictAnalysis) removeLiteral(v Var, depth int) {
	delete(ca.literals, v)
	delete(ca.depthToVar, depth)
	i := sort.SearchInts(ca.depths, depth)
	ca.depths = append(ca.depths[:i], ca.depths[i+1:]...)
}

func (ca *conflictAnalysis) empty() bool { return len(ca.literals) == 0 }
func (ca *conflictAnalysis) size() int   { return len(ca.literals) }

// latestImpliedVar returns the variable of the most recently implied
// literal in the derived clause.
func (ca *conflictAnalysis) latestImpliedVar() Var {
	return ca.depthToVar[ca.depths[len(ca.depths)-1]]
}

// levelAt returns the decision level of the nth most recently implied
// literal: 0 is the latest, 1 the one before it.
func (ca *conflictAnalysis) levelAt(distanceFromLatest int) int {
	v := ca.depthToVar[ca.depths[len(ca.depths)-1-distanceFromLatest]]
	return ca.solver.implications[v].level
}

// isUnit reports whether, after backjumping, the derived clause would imply
// exactly one literal: the latest literal sits strictly above every other
// literal's decision level.
func (ca *conflictAnalysis) isUnit() bool {
	if len(ca.depths) <= 1 {
		return true
	}
	return ca.levelAt(0) != ca.levelAt(1)
}

// resolve replaces the pivot variable's literal with the remaining literals
// of the clause that implied it.
func (ca *conflictAnalysis) resolve(pivot Var) {
	imp := ca.solver.implications[pivot]
	if imp.cause == decisionCause {
		panic(fmt.Sprintf("Bug: resolving on decision var%d", pivot))
	}
	prevClause := ca.solver.clauses[imp.cause]
	ca.solver.logf("Resolving with %d=%s", imp.cause, prevClause)
	for i := 0; i < prevClause.Len(); i++ {
		lit := prevClause.Get(i)
		v := lit.Var()
		depth := ca.solver.implications[v].depth
		if depth == 0 {
			continue
		}
		if v == pivot {
			if ca.literals[v] == lit.IsPositive() {
				panic(fmt.Sprintf("Bug: pivot var%d has equal polarity in both resolvents", v))
			}
			ca.removeLiteral(v, depth)
		} else if positive, seen := ca.literals[v]; !seen {
			ca.addLiteral(v, lit.IsPositive(), depth)
		} else if positive != lit.IsPositive() {
			panic(fmt.Sprintf("Bug: var%d changed polarity during conflict analysis", v))
		}
	}
	ca.solver.logf("cl=%s", ca)
}

// createClause appends the derived clause to the solver's store, literals in
// ascending variable order, and returns its handle.
func (ca *conflictAnalysis) createClause() int {
	vars := make([]Var, 0, len(ca.literals))
	for v := range ca.literals {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	clause := &Clause{}
	for _, v := range vars {
		clause.AddLiteral(v, ca.literals[v])
	}
	ca.solver.clauses = append(ca.solver.clauses, clause)
	return len(ca.solver.clauses) - 1
}

func (ca *conflictAnalysis) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sep := ""
	for _, depth := range ca.depths {
		v := ca.depthToVar[depth]
		sb.WriteString(sep)
		if !ca.literals[v] {
			sb.WriteByte('-')
		}
		fmt.Fprintf(&sb, "%d@%d", v, ca.solver.implications[v].level)
		sep = ", "
	}
	sb.WriteByte('}')
	return sb.String()
}

// analyzeConflict derives a learned clause from the conflicting one by
// successive resolution against the antecedent of the most recently implied
// literal, until the first unique implication point is reached. It returns
// the backjump level and the learned clause handle, or ok=false when the
// derivation reached the empty clause and the problem is unsatisfiable.
func (s *Solver) analyzeConflict(conflictingClause int) (level int, learned int, ok bool) {
	ca := newConflictAnalysis(s, conflictingClause)
	for {
		ca.resolve(ca.latestImpliedVar())
		if ca.empty() {
			return 0, 0, false
		}
		if ca.size() == 1 {
			return 0, ca.createClause(), true
		}
		if ca.isUnit() {
			return ca.levelAt(1), ca.createClause(), true
		}
	}
}
