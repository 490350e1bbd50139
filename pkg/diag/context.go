package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Context is a range of text in a program. It is used for errors that can be
// associated with a part of the program, like evaluation errors and traceback
// entries.
//
// Programs are evaluated from their syntax trees, so the text is often not
// available; in that case Source is empty and only the byte range is shown.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Styling of the culprit and of error messages. They honor color.NoColor.
var (
	culprit = color.New(color.Bold, color.Underline).SprintFunc()
	message = color.New(color.FgRed, color.Bold).SprintFunc()
)

const culpritPlaceHolder = "^"

// Show shows a Context, with the position on the first line and the
// relevant source excerpt indented on the next, if the source is known.
func (c *Context) Show(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	if c.Source == "" {
		return c.Name + ", " + c.byteRange()
	}
	return c.Name + ", " + c.lineRange() + "\n" + indent + c.relevantSource(indent)
}

// ShowCompact shows a Context, with no line break between the position and
// the source excerpt.
func (c *Context) ShowCompact(indent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	if c.Source == "" {
		return c.Name + ", " + c.byteRange()
	}
	desc := c.Name + ", " + c.lineRange() + " "
	// Extra indent so that following lines line up with the first line.
	descIndent := strings.Repeat(" ", len(desc))
	return desc + c.relevantSource(indent+descIndent)
}

// Position returns name:line:col when the source is known, and name:from-to
// otherwise.
func (c *Context) Position() string {
	if c.checkPosition() != nil {
		return c.Name
	}
	if c.Source == "" {
		return fmt.Sprintf("%s:%d-%d", c.Name, c.From, c.To)
	}
	before := c.Source[:c.From]
	line := strings.Count(before, "\n") + 1
	col := len(lastLine(before)) + 1
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.From > c.To || (c.Source != "" && c.To > len(c.Source)) {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func (c *Context) byteRange() string {
	return fmt.Sprintf("bytes %d-%d", c.From, c.To)
}

func (c *Context) lineRange() string {
	before := c.Source[:c.From]
	beginLine := strings.Count(before, "\n") + 1
	endLine := beginLine + strings.Count(strings.TrimSuffix(c.Source[c.From:c.To], "\n"), "\n")
	if beginLine == endLine {
		return fmt.Sprintf("line %d:", beginLine)
	}
	return fmt.Sprintf("line %d-%d:", beginLine, endLine)
}

func (c *Context) relevantSource(indent string) string {
	var sb strings.Builder
	sb.WriteString(lastLine(c.Source[:c.From]))

	text := c.Source[c.From:c.To]
	var tail string
	// If the culprit ends with a newline, strip it. Otherwise, show the rest
	// of its last line.
	if strings.HasSuffix(text, "\n") {
		text = text[:len(text)-1]
	} else {
		tail = firstLine(c.Source[c.To:])
	}
	if text == "" {
		text = culpritPlaceHolder
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteString(culprit(line))
	}
	sb.WriteString(tail)
	return sb.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
