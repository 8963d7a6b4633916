package solver

// Interface is any type implementing a solver over the shared problem
// model. Both the CDCL Solver and the reference Trivial solver implement
// it; the CLI and the differential tests are written against it.
type Interface interface {
	// AddVar adds a variable with a universal domain and returns its handle.
	AddVar() Var
	// AddVars adds count universal variables and returns their handles.
	AddVars(count int) []Var
	// AddClause appends a clause over the given literals.
	AddClause(lits ...Lit) *Clause
	// NumVars returns the number of variables.
	NumVars() int
	// Solve decides the problem.
	Solve() (Status, error)
	// Value returns the value of a variable after a Sat solve.
	Value(v Var) bool
	// Model returns the assignment after a Sat solve.
	Model() []bool
}

var (
	_ Interface = (*Solver)(nil)
	_ Interface = (*Trivial)(nil)
)
