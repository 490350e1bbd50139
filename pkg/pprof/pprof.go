// Package pprof writes CPU and memory allocation profiles of program
// evaluation. Loading the program document is not profiled.
package pprof

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"src.tarn.sh/pkg/logutil"
	"src.tarn.sh/pkg/prog"
)

var logger = logutil.GetLogger("[pprof] ")

// Flags holds the profiling flags. The zero value profiles nothing.
type Flags struct {
	CPUProfile    string
	AllocsProfile string
}

// Register adds the -cpuprofile and -allocsprofile flags to fs.
func (f *Flags) Register(fs *prog.FlagSet) {
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write CPU profile of the evaluation to file")
	fs.StringVar(&f.AllocsProfile, "allocsprofile", "", "write memory allocation profile to file after the evaluation")
}

// Profile calls eval and returns its error. While eval runs, a CPU profile is
// recorded if -cpuprofile was given; after it returns, an allocation profile
// is written if -allocsprofile was given. Profiles that cannot be written are
// skipped with a warning on stderr.
func (f *Flags) Profile(stderr io.Writer, eval func() error) error {
	if f.CPUProfile != "" {
		if stop := startCPUProfile(stderr, f.CPUProfile); stop != nil {
			defer stop()
		}
	}
	err := eval()
	if f.AllocsProfile != "" {
		writeAllocsProfile(stderr, f.AllocsProfile)
	}
	return err
}

func startCPUProfile(stderr io.Writer, path string) func() {
	out, err := os.Create(path)
	if err == nil {
		err = pprof.StartCPUProfile(out)
		if err != nil {
			out.Close()
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot create CPU profile:", err)
		fmt.Fprintln(stderr, "Continuing without CPU profiling.")
		return nil
	}
	return func() {
		pprof.StopCPUProfile()
		out.Close()
		logger.Printf("wrote CPU profile to %s", path)
	}
}

func writeAllocsProfile(stderr io.Writer, path string) {
	out, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot create memory allocation profile:", err)
		return
	}
	defer out.Close()
	if err := pprof.Lookup("allocs").WriteTo(out, 0); err != nil {
		fmt.Fprintln(stderr, "Warning: cannot write memory allocation profile:", err)
		return
	}
	logger.Printf("wrote memory allocation profile to %s", path)
}
