package ast

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"src.tarn.sh/pkg/diag"
	"src.tarn.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[ast] ")

// Format is the encoding of a tree document.
type Format int

// Supported document formats.
const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf guesses the format of a document from its file name. Files with a
// .yaml or .yml extension are YAML; everything else is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Program is a loaded tree document.
type Program struct {
	// Path of the document.
	Path string
	// Name of the program, from the name field of the root record if there
	// is one.
	Name string
	// Digest is the hex-encoded BLAKE3 digest of the document.
	Digest string
	// Root of the tree.
	Root Node
	// Source is the text of the program the tree was parsed from, if it could
	// be found next to the document. It is only used to show errors.
	Source string
}

// ReadFile reads and converts the tree document at path. If the root record
// names a program file that exists in the same directory, its text is loaded
// into Source.
func ReadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(path, data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	if srcName := sourceName(p); srcName != "" {
		srcPath := filepath.Join(filepath.Dir(path), filepath.Base(srcName))
		if src, err := os.ReadFile(srcPath); err == nil {
			p.Source = string(src)
			logger.Printf("loaded program text from %s", srcPath)
		}
	}
	return p, nil
}

// Decode converts a tree document held in memory. The name is used in error
// messages and becomes the Path of the Program.
func Decode(name string, data []byte, format Format) (*Program, error) {
	var tree any
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &tree)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&tree)
	}
	if err != nil {
		return nil, &diag.Error{
			Type:    "load error",
			Message: "cannot decode " + format.String() + ": " + err.Error(),
			Context: diag.Context{Name: name, Ranging: diag.UnknownRanging},
		}
	}

	root, err := FromTree(name, tree)
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(data)
	p := &Program{Path: name, Digest: hex.EncodeToString(sum[:]), Root: root}
	if f, ok := root.(*File); ok {
		p.Name = f.Name
	}
	logger.Printf("decoded %s (%s, %d bytes), digest %s", name, format, len(data), p.Digest)
	return p, nil
}

// Context returns a diag.Context locating the given node in the program.
func (p *Program) Context(n Node) *diag.Context {
	return ContextOf(n, p.Source)
}

// ContextOf returns a diag.Context locating the given node, with the given
// program text.
func ContextOf(n Node, source string) *diag.Context {
	loc := n.Loc()
	if source != "" && (loc.Start < 0 || loc.End > len(source)) {
		source = ""
	}
	name := loc.Filename
	if name == "" {
		name = "[program]"
	}
	return diag.NewContext(name, source, loc)
}

func sourceName(p *Program) string {
	if p.Name != "" {
		return p.Name
	}
	if loc := p.Root.Loc(); loc.Filename != "" {
		return loc.Filename
	}
	return ""
}
