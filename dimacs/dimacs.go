// Package dimacs reads and writes the textual DIMACS CNF format.
//
// The low-level Parser reports the header and each clause through
// callbacks; ParseCNF is the convenience form returning a Problem.
// Diagnostics carry the 1-based line number and the offending text.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxVariables is the largest declarable variable count: it must fit in 31
// bits so that a signed literal can always carry it.
const maxVariables = math.MaxInt32

// A Parser reads a DIMACS CNF stream line by line.
type Parser struct {
	scanner *bufio.Scanner
	lineNum int
}

// NewParser returns a parser over r.
func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

// nextLine returns the next line with leading whitespace stripped, counting
// every physical line for diagnostics.
func (p *Parser) nextLine() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	p.lineNum++
	return strings.TrimLeft(p.scanner.Text(), "\t "), true
}

// nextContentLine skips blank and comment lines.
func (p *Parser) nextContentLine() (string, bool) {
	for {
		line, ok := p.nextLine()
		if !ok {
			return "", false
		}
		if line != "" && line[0] != 'c' {
			return line, true
		}
	}
}

// Parse reads the whole stream. header is called once with the declared
// variable and clause counts; clause is called for every clause line with
// its literals, the terminating 0 excluded. The declared counts are
// reported, not enforced.
func (p *Parser) Parse(header func(numVars, numClauses int), clause func(lits []int)) error {
	if err := p.parseHeader(header); err != nil {
		return err
	}
	for {
		line, ok := p.nextContentLine()
		if !ok {
			if err := p.scanner.Err(); err != nil {
				return errors.Wrap(err, "cannot read dimacs input")
			}
			return nil
		}
		lits, err := p.parseClauseLine(line)
		if err != nil {
			return err
		}
		clause(lits)
	}
}

func (p *Parser) parseHeader(header func(numVars, numClauses int)) error {
	line, ok := p.nextContentLine()
	if !ok {
		if err := p.scanner.Err(); err != nil {
			return errors.Wrap(err, "cannot read dimacs input")
		}
		return errors.New("Invalid dimacs input format - all lines are either empty or commented out")
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "p" || fields[1] != "cnf" {
		return errors.Errorf("%d: Invalid dimacs input format, expecting a line prefix 'p cnf ' but got '%s'", p.lineNum, line)
	}
	if len(fields) > 4 {
		return errors.Errorf("%d: Invalid dimacs input format, junk after header '%s'", p.lineNum, fields[4])
	}
	if len(fields) < 4 {
		return p.headerNumbersError(line)
	}
	numVars, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil || numVars > maxVariables {
		return p.headerNumbersError(line)
	}
	numClauses, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil || numClauses > maxVariables {
		return p.headerNumbersError(line)
	}
	header(int(numVars), int(numClauses))
	return nil
}

func (p *Parser) headerNumbersError(line string) error {
	return errors.Errorf("%d: Invalid dimacs input format, expecting a header "+
		"'p cnf <variables: unsigned int> <clauses: unsigned int>' but got '%s'", p.lineNum, line)
}

func (p *Parser) parseClauseLine(line string) ([]int, error) {
	fields := strings.Fields(line)
	lits := make([]int, 0, len(fields)-1)
	for i, field := range fields {
		val, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Errorf("%d: Invalid dimacs input format, expecting a literal but got '%s' in line '%s'", p.lineNum, field, line)
		}
		if val == 0 {
			if i != len(fields)-1 {
				return nil, errors.Errorf("%d: 0 should be only at the end for the line '%s'", p.lineNum, line)
			}
			return lits, nil
		}
		lits = append(lits, val)
	}
	return nil, errors.Errorf("%d: Missing 0 at the end of the line for line '%s'", p.lineNum, line)
}

// A Problem is a parsed clause database: the declared variable count and
// the clauses as signed DIMACS literals.
type Problem struct {
	NumVars int
	Clauses [][]int
}

// ParseCNF parses a DIMACS CNF stream and returns the corresponding
// Problem. Literals referring to variables beyond the declared count are
// rejected.
func ParseCNF(r io.Reader) (*Problem, error) {
	var pb Problem
	parser := NewParser(r)
	err := parser.Parse(
		func(numVars, numClauses int) {
			pb.NumVars = numVars
			pb.Clauses = make([][]int, 0, numClauses)
		},
		func(lits []int) {
			pb.Clauses = append(pb.Clauses, lits)
		},
	)
	if err != nil {
		return nil, err
	}
	for _, clause := range pb.Clauses {
		for _, lit := range clause {
			if lit > pb.NumVars || -lit > pb.NumVars {
				return nil, errors.Errorf("invalid literal %d for problem with %d vars only", lit, pb.NumVars)
			}
		}
	}
	return &pb, nil
}

// CNF returns the DIMACS representation of the problem.
func (pb *Problem) CNF() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", pb.NumVars, len(pb.Clauses))
	for _, clause := range pb.Clauses {
		for _, lit := range clause {
			fmt.Fprintf(&sb, "%d ", lit)
		}
		sb.WriteString("0\n")
	}
	return sb.String()
}
