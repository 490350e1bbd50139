// Package script implements the subprogram that runs a program file.
package script

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"src.tarn.sh/pkg/ast"
	"src.tarn.sh/pkg/buildinfo"
	"src.tarn.sh/pkg/diag"
	"src.tarn.sh/pkg/eval"
	"src.tarn.sh/pkg/eval/memo"
	"src.tarn.sh/pkg/logutil"
	"src.tarn.sh/pkg/pprof"
	"src.tarn.sh/pkg/prog"
)

var logger = logutil.GetLogger("[script] ")

// Program runs the program file named by the only argument.
type Program struct {
	noMemo      bool
	compileOnly bool
	noReport    bool
	maxDepth    int
	profile     pprof.Flags
	json        *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.noMemo, "nomemo", false, "don't cache the results of function calls")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "load and check the program without evaluating it")
	fs.BoolVar(&p.noReport, "noreport", false, "don't print the impure functions after evaluation")
	fs.IntVar(&p.maxDepth, "maxdepth", eval.DefaultMaxDepth, "maximum depth of nested calls")
	p.profile.Register(fs)
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	switch len(args) {
	case 0:
		return prog.BadUsage("no program file given")
	case 1:
	default:
		return prog.BadUsage("only one program file may be given")
	}
	if p.maxDepth <= 0 {
		return prog.BadUsage("-maxdepth must be positive")
	}

	program, err := ast.ReadFile(args[0])
	if err != nil {
		return p.fail(fds, err)
	}

	if p.compileOnly {
		if errs := Check(program); len(errs) > 0 {
			return p.fail(fds, errs...)
		}
		if *p.json {
			fmt.Fprintln(fds[1], "[]")
		}
		return nil
	}

	opts := eval.Options{
		NoMemo:   p.noMemo || !buildinfo.MemoizationEnabled(),
		MaxDepth: p.maxDepth,
	}
	ev := eval.NewEvaler(opts)
	stdout := bufio.NewWriter(fds[1])
	ev.Stdout = stdout
	logger.Printf("running %s with %+v", args[0], opts)

	err = p.profile.Profile(fds[2], func() error {
		_, err := ev.EvalProgram(program)
		return err
	})
	if err != nil {
		stdout.Flush()
		diag.ShowError(fds[2], err)
		return prog.Exit(2)
	}
	if !p.noReport {
		r := Report{Impure: ev.Impure(), Memo: ev.MemoStats()}
		if *p.json {
			err = r.WriteJSON(stdout)
		} else {
			err = r.WriteText(stdout)
		}
		if err != nil {
			return err
		}
	}
	return stdout.Flush()
}

// Reports errors that prevent evaluation. With -json, they are written to
// stdout as a JSON array.
func (p *Program) fail(fds [3]*os.File, errs ...error) error {
	if *p.json {
		fds[1].Write(errorsToJSON(errs))
		fds[1].WriteString("\n")
	} else {
		for _, err := range errs {
			diag.ShowError(fds[2], err)
		}
	}
	return prog.Exit(2)
}

// Check reports all nodes in the program that would fail to evaluate
// regardless of the values involved: currently, nodes of unknown kinds.
func Check(p *ast.Program) []error {
	var errs []error
	ast.Inspect(p.Root, func(n ast.Node) bool {
		if u, ok := n.(*ast.Unknown); ok {
			errs = append(errs, &diag.Error{
				Type:    "check error",
				Message: "unknown node kind " + u.Kind,
				Context: *p.Context(u),
			})
		}
		return true
	})
	return errs
}

// Report is printed after a program is evaluated.
type Report struct {
	Impure []eval.FunctionID
	Memo   memo.Stats
}

// WriteText writes the impure functions, one per line, after a header line.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "impure functions:"); err != nil {
		return err
	}
	for _, id := range r.Impure {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the report as a JSON object.
func (r Report) WriteJSON(w io.Writer) error {
	impure := make([]string, len(r.Impure))
	for i, id := range r.Impure {
		impure[i] = id.String()
	}
	return json.NewEncoder(w).Encode(struct {
		Impure []string   `json:"impure"`
		Memo   memo.Stats `json:"memo"`
	}{impure, r.Memo})
}
