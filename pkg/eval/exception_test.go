package eval

import (
	"errors"
	"testing"

	"github.com/fatih/color"

	"src.tarn.sh/pkg/diag"
	"src.tarn.sh/pkg/eval/errs"
)

func TestException(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	ctx := func(from, to int) *diag.Context {
		return diag.NewContext("a.rinha", "", diag.Ranging{From: from, To: to})
	}
	reason := errs.UnboundVariable{Name: "x"}

	tests := []struct {
		name     string
		exc      Exception
		wantShow string
	}{
		{
			"no stack trace",
			NewException(reason, nil),
			"Exception: unbound variable: x",
		},
		{
			"one frame",
			NewException(reason, &StackTrace{Head: ctx(1, 3)}),
			"Exception: unbound variable: x\na.rinha, bytes 1-3",
		},
		{
			"traceback",
			NewException(reason, &StackTrace{Head: ctx(1, 3), Next: &StackTrace{Head: ctx(5, 9)}}),
			"Exception: unbound variable: x\nTraceback:\n  a.rinha, bytes 1-3\n  a.rinha, bytes 5-9",
		},
		{
			"reason with Show",
			NewException(&diag.Error{Type: "load error", Message: "bad", Context: *ctx(1, 2)}, nil),
			"Exception: Load error: bad\n  a.rinha, bytes 1-2",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.exc.Show(""); got != test.wantShow {
				t.Errorf("Show() -> %q, want %q", got, test.wantShow)
			}
		})
	}

	exc := NewException(reason, nil)
	if exc.Error() != reason.Error() {
		t.Errorf("Error() -> %q, want %q", exc.Error(), reason.Error())
	}
	if Reason(exc) != reason {
		t.Errorf("Reason(exc) -> %v", Reason(exc))
	}
	plain := errors.New("plain")
	if Reason(plain) != plain {
		t.Errorf("Reason on plain error does not return it")
	}
}
