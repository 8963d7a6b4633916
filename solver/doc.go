/*
Package solver decides the satisfiability of propositional formulas in
conjunctive normal form.

Two solvers share one problem model. Solver is a Conflict-Driven
Clause-Learning engine: unit propagation over two watched literals per
clause, a trail of decisions and implications, first-UIP conflict analysis
and non-chronological backjumping. Trivial is a plain backtracking solver
kept as a reference oracle for differential testing on small instances.

Describing a problem

Variables are added first, then clauses over their literals:

	s := solver.New()
	x := s.AddVar()
	y := s.AddVar()
	s.AddClause(solver.NewLit(x, true), solver.NewLit(y, false))
	s.AddClause(solver.NewLit(y, true))

Literals can also come straight from DIMACS integers via IntToLit.

Solving

Solve returns Sat, Unsat or — once the configured backtrack budget runs
out — Unknown:

	status, err := s.Solve()
	if err != nil {
		// a clause refers to a variable that was never added
	}
	if status == solver.Sat {
		model := s.Model()
		_ = model // model[i] is the value of variable i+1
	}

The solver is single-threaded and non-reentrant: nothing may mutate it
while Solve runs. With the default strategy the result, and on Sat the
model, are deterministic for a fixed clause database.
*/
package solver
