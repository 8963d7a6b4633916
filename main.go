package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/michael-veksler/solver/dimacs"
	"github.com/michael-veksler/solver/solver"
)

func main() {
	app := cli.NewApp()
	app.Name = "solver"
	app.Usage = "decide the satisfiability of a DIMACS CNF file"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "solver",
			Usage: "solver to use: trivial_sat or cdcl_sat (required)",
		},
		cli.StringFlag{
			Name:  "input",
			Usage: "path to the DIMACS input file (required)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable the trace log",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	sat, err := newSolver(c.String("solver"), c.Bool("debug"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	input := c.String("input")
	if input == "" {
		return cli.NewExitError("--input is required", 1)
	}
	if err := solve(sat, input); err != nil {
		logrus.Errorf("%v", err)
		return cli.NewExitError("", 2)
	}
	return nil
}

func newSolver(kind string, debug bool) (solver.Interface, error) {
	switch strings.ToLower(kind) {
	case "cdcl_sat":
		s := solver.New()
		s.Debug = debug
		return s, nil
	case "trivial_sat":
		t := solver.NewTrivial()
		t.Debug = debug
		return t, nil
	case "":
		return nil, errors.New("--solver is required")
	default:
		return nil, errors.Errorf("unknown solver %q, expecting trivial_sat or cdcl_sat", kind)
	}
}

func solve(sat solver.Interface, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "cannot open input")
	}
	defer func() { _ = f.Close() }()
	pb, err := dimacs.ParseCNF(f)
	if err != nil {
		return errors.Wrapf(err, "cannot parse %s", path)
	}
	sat.AddVars(pb.NumVars)
	for _, clause := range pb.Clauses {
		lits := make([]solver.Lit, len(clause))
		for i, lit := range clause {
			lits[i] = solver.IntToLit(lit)
		}
		sat.AddClause(lits...)
	}
	status, err := sat.Solve()
	if err != nil {
		return err
	}
	fmt.Println(result(sat, status))
	return nil
}

// result renders the solve outcome: the status alone, or on SAT the status
// followed by a v<var>=<0|1> token per variable.
func result(sat solver.Interface, status solver.Status) string {
	if status != solver.Sat {
		return status.String()
	}
	var sb strings.Builder
	sb.WriteString("SAT")
	for i, value := range sat.Model() {
		bit := 0
		if value {
			bit = 1
		}
		fmt.Fprintf(&sb, " v%d=%d", i+1, bit)
	}
	return sb.String()
}
