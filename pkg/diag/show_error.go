package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"src.tarn.sh/pkg/sys"
)

// ShowError shows an error. It uses the Show method if the error implements
// Shower, and writes the error message in bold red otherwise. Colors are only
// used when w is a terminal and the NO_COLOR environment variable is unset.
func ShowError(w io.Writer, err error) {
	saved := color.NoColor
	color.NoColor = !useColor(w)
	defer func() { color.NoColor = saved }()

	if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		fmt.Fprintln(w, message(err.Error()))
	}
}

func useColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	return ok && sys.IsATTY(f)
}
