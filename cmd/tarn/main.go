// Tarn evaluates programs given as pre-parsed syntax trees. Results of calls to
// functions that never print are memoized, and the functions found to print
// are reported after evaluation.
package main

import (
	"os"

	"src.tarn.sh/pkg/buildinfo"
	"src.tarn.sh/pkg/prog"
	"src.tarn.sh/pkg/script"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &script.Program{})))
}
