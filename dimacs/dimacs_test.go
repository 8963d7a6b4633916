package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/michael-veksler/solver/solver"
)

// parseCase runs the callback parser over text and records what it saw.
type parseCase struct {
	clauses    [][]int
	numVars    int
	numClauses int
}

func (pc *parseCase) parse(text string) error {
	parser := NewParser(strings.NewReader(text))
	return parser.Parse(
		func(numVars, numClauses int) {
			pc.numVars = numVars
			pc.numClauses = numClauses
		},
		func(lits []int) {
			pc.clauses = append(pc.clauses, append([]int(nil), lits...))
		},
	)
}

func TestParseEmptyInput(t *testing.T) {
	err := (&parseCase{}).parse("")
	require.EqualError(t, err, "Invalid dimacs input format - all lines are either empty or commented out")
}

func TestParseOnlyCommentsAndBlanks(t *testing.T) {
	err := (&parseCase{}).parse("c nothing here\n\nc still nothing\n")
	require.EqualError(t, err, "Invalid dimacs input format - all lines are either empty or commented out")
}

func TestParseBadHeaderPrefix(t *testing.T) {
	err := (&parseCase{}).parse("p cn 2 3")
	require.EqualError(t, err,
		"1: Invalid dimacs input format, expecting a line prefix 'p cnf ' but got 'p cn 2 3'")
}

func TestParseBadHeaderNumbers(t *testing.T) {
	err := (&parseCase{}).parse("c foo\np cnf -3 2")
	require.EqualError(t, err,
		"2: Invalid dimacs input format, expecting a header "+
			"'p cnf <variables: unsigned int> <clauses: unsigned int>' but got 'p cnf -3 2'")
}

func TestParseJunkAtHeaderEnd(t *testing.T) {
	err := (&parseCase{}).parse("p cnf 2 3 4\n1 2 0")
	require.EqualError(t, err, "1: Invalid dimacs input format, junk after header '4'")
}

func TestParseNumVarsOverflow(t *testing.T) {
	err := (&parseCase{}).parse("p cnf 2147483648 3\n1 2 0")
	require.EqualError(t, err,
		"1: Invalid dimacs input format, expecting a header "+
			"'p cnf <variables: unsigned int> <clauses: unsigned int>' but got 'p cnf 2147483648 3'")
}

func TestParseNumVarsAlmostOverflow(t *testing.T) {
	pc := &parseCase{}
	require.NoError(t, pc.parse("p cnf 2147483647 3\n1 2 0"))
	require.Equal(t, 2147483647, pc.numVars)
}

func TestParseZeroInClauseMiddle(t *testing.T) {
	err := (&parseCase{}).parse("\np cnf 10 20\n1 -2 0\n2 0 3 0")
	require.EqualError(t, err, "4: 0 should be only at the end for the line '2 0 3 0'")
}

func TestParseMissingZeroAtClauseEnd(t *testing.T) {
	err := (&parseCase{}).parse("p      cnf  10  20\n1 -2 3\n2 2 3 0")
	require.EqualError(t, err, "2: Missing 0 at the end of the line for line '1 -2 3'")
}

func TestParse(t *testing.T) {
	pc := &parseCase{}
	require.NoError(t, pc.parse("\np cnf 4 5\n1 -2 3 0\n2 3 0\n-1 2 -3 4 0\n1 -2 -3 -4 0\n"))
	require.Equal(t, 4, pc.numVars)
	require.Equal(t, 5, pc.numClauses)
	want := [][]int{{1, -2, 3}, {2, 3}, {-1, 2, -3, 4}, {1, -2, -3, -4}}
	if diff := cmp.Diff(want, pc.clauses); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCNFRejectsOutOfRangeLiteral(t *testing.T) {
	_, err := ParseCNF(strings.NewReader("p cnf 2 1\n1 -3 0\n"))
	require.EqualError(t, err, "invalid literal -3 for problem with 2 vars only")
}

func TestParseCNF(t *testing.T) {
	pb, err := ParseCNF(strings.NewReader("c example\np cnf 3 2\n1 -2 0\n2 3 0\n"))
	require.NoError(t, err)
	require.Equal(t, 3, pb.NumVars)
	want := [][]int{{1, -2}, {2, 3}}
	if diff := cmp.Diff(want, pb.Clauses); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func solveProblem(t *testing.T, pb *Problem) solver.Status {
	t.Helper()
	s := solver.New()
	s.AddVars(pb.NumVars)
	for _, clause := range pb.Clauses {
		lits := make([]solver.Lit, len(clause))
		for i, lit := range clause {
			lits[i] = solver.IntToLit(lit)
		}
		s.AddClause(lits...)
	}
	status, err := s.Solve()
	require.NoError(t, err)
	return status
}

// Writing a problem back to DIMACS and re-parsing it must preserve the
// clause set, and with it the satisfiability.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"p cnf 3 2\n1 -2 0\n2 3 0\n",
		"p cnf 2 2\n1 0\n-1 0\n",
		"p cnf 4 4\n1 -2 3 0\n2 3 0\n-1 2 -3 4 0\n1 -2 -3 -4 0\n",
	}
	for _, input := range inputs {
		pb, err := ParseCNF(strings.NewReader(input))
		require.NoError(t, err)
		reparsed, err := ParseCNF(strings.NewReader(pb.CNF()))
		require.NoError(t, err)
		if diff := cmp.Diff(pb, reparsed); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
		require.Equal(t, solveProblem(t, pb), solveProblem(t, reparsed))
	}
}
