// Package codec persists the authoring model as ordered text lines, one
// record per line, each a tag followed by pipe-delimited fields. The format
// is deliberately fault-tolerant: a malformed line loses only its own
// record, never the file.
package codec

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/myu/flowc/internal/flow"
)

// fieldEscaper makes a field safe for the line format. The replacement is
// lossy: there is no unescape, so round-trip fidelity holds only for fields
// that contain none of these characters.
var fieldEscaper = strings.NewReplacer(
	"|", "_",
	"\n", "_",
	"\r", "_",
	"\t", "_",
)

func esc(s string) string {
	return fieldEscaper.Replace(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Encode serializes the flow, enumerating the model once in list order.
func Encode(f *flow.Flow) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "FLOW|%s|%d\n", esc(f.Name), flow.Version)
	for _, s := range f.States {
		fmt.Fprintf(&buf, "STATE|%s|%s|%s|%s|%s\n",
			esc(s.Name), esc(s.OnEnter), esc(s.OnExit), num(s.X), num(s.Y))
	}
	for _, t := range f.Transitions {
		fmt.Fprintf(&buf, "TRANS|%d|%d|%s|%s\n",
			t.From, t.To, esc(t.Event), esc(t.Condition))
	}
	for _, s := range f.Steps {
		fmt.Fprintf(&buf, "STEP|%s|%s|%s|%s|%s|%s|%s\n",
			esc(s.Name), num(s.Duration),
			esc(s.OnStart), esc(s.OnUpdate), esc(s.OnEnd), num(s.X), num(s.Y))
	}
	for _, tr := range f.Triggers {
		fmt.Fprintf(&buf, "TRIGGER|%s|%s\n", esc(tr.Event), esc(tr.Key))
	}
	for _, v := range f.Vars {
		fmt.Fprintf(&buf, "VAR|%s|%s|%s\n", esc(v.Name), v.Type, esc(varValue(v)))
	}

	return buf.Bytes()
}

func varValue(v flow.Variable) string {
	switch v.Type {
	case flow.VarBool:
		return strconv.FormatBool(v.Bool)
	case flow.VarString:
		return v.Str
	default:
		return num(v.Num)
	}
}

// Save writes the flow to path as a whole-file truncate-and-rewrite. There
// is no atomic rename: this is a design-time tool and a crash mid-write is
// an accepted risk.
func Save(path string, f *flow.Flow) error {
	if err := os.WriteFile(path, Encode(f), 0o644); err != nil {
		return fmt.Errorf("saving flow %q: %w", f.Name, err)
	}
	return nil
}
