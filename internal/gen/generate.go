// Package gen derives the two source artifacts from an authoring model: a
// runtime unit constructing a flowrt.Machine from baked tables, and a
// trigger unit mapping physical input keys to flow events. Generation is a
// pure function of the model; both artifacts are overwritten on every run.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/myu/flowc/internal/flow"
)

// Fixed artifact names inside the output directory.
const (
	RuntimeFileName  = "flow_runtime.go"
	TriggersFileName = "flow_triggers.go"
)

const generatedHeader = "// Code generated by flowc. DO NOT EDIT.\n"

const runtimeImport = "github.com/myu/flowc/pkg/flowrt"

// Options parameterizes generation for the host program.
type Options struct {
	// Package is the package clause for both artifacts; the generated
	// files are meant to sit in the host's own package.
	Package string
}

// Artifacts holds the generated source texts.
type Artifacts struct {
	Runtime  []byte
	Triggers []byte
}

// Generate validates the model and emits both artifacts. Dangling
// transition indices fail generation here instead of miscompiling into the
// runtime; survivable findings come back as warnings.
func Generate(f *flow.Flow, opts Options) (*Artifacts, []flow.Issue, error) {
	warnings, err := flow.Validate(f)
	if err != nil {
		return nil, warnings, err
	}
	if opts.Package == "" {
		opts.Package = "main"
	}

	return &Artifacts{
		Runtime:  emitRuntime(f, opts),
		Triggers: emitTriggers(f, opts),
	}, warnings, nil
}

// WriteArtifacts writes both artifacts under dir with their fixed names,
// creating dir if needed. Whole-file rewrites, like every write this tool
// makes.
func WriteArtifacts(dir string, a *Artifacts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, RuntimeFileName), a.Runtime, 0o644); err != nil {
		return fmt.Errorf("writing runtime unit: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TriggersFileName), a.Triggers, 0o644); err != nil {
		return fmt.Errorf("writing trigger unit: %w", err)
	}
	return nil
}

func emitRuntime(f *flow.Flow, opts Options) []byte {
	var b bytes.Buffer
	ident := exportIdent(f.Name)

	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "\npackage %s\n\n", opts.Package)
	fmt.Fprintf(&b, "import %q\n\n", runtimeImport)

	fmt.Fprintf(&b, "// New%sFlow builds the %q flow. Register the host's actions and\n", ident, f.Name)
	b.WriteString("// conditions on reg before calling Start; a nil reg gets an empty registry.\n")
	fmt.Fprintf(&b, "func New%sFlow(reg *flowrt.Registry) *flowrt.Machine {\n", ident)
	b.WriteString("\tprog := flowrt.Program{\n")
	fmt.Fprintf(&b, "\t\tName: %s,\n", strconv.Quote(f.Name))

	if len(f.States) > 0 {
		b.WriteString("\t\tStates: []flowrt.State{\n")
		for _, s := range f.States {
			fmt.Fprintf(&b, "\t\t\t{Name: %s, OnEnter: %s, OnExit: %s},\n",
				strconv.Quote(s.Name), strconv.Quote(s.OnEnter), strconv.Quote(s.OnExit))
		}
		b.WriteString("\t\t},\n")
	}
	if len(f.Transitions) > 0 {
		b.WriteString("\t\tTransitions: []flowrt.Transition{\n")
		for _, t := range f.Transitions {
			fmt.Fprintf(&b, "\t\t\t{From: %d, To: %d, Event: %s, Condition: %s},\n",
				t.From, t.To, strconv.Quote(t.Event), strconv.Quote(t.Condition))
		}
		b.WriteString("\t\t},\n")
	}
	if len(f.Steps) > 0 {
		b.WriteString("\t\tSteps: []flowrt.Step{\n")
		for _, s := range f.Steps {
			fmt.Fprintf(&b, "\t\t\t{Name: %s, Duration: %s, OnStart: %s, OnUpdate: %s, OnEnd: %s},\n",
				strconv.Quote(s.Name), litFloat(s.Duration),
				strconv.Quote(s.OnStart), strconv.Quote(s.OnUpdate), strconv.Quote(s.OnEnd))
		}
		b.WriteString("\t\t},\n")
	}
	b.WriteString("\t}\n\n")

	b.WriteString("\tm := flowrt.New(prog, reg)\n")
	for _, v := range f.Vars {
		switch v.Type {
		case flow.VarBool:
			fmt.Fprintf(&b, "\tm.Vars.SetBool(%s, %v)\n", strconv.Quote(v.Name), v.Bool)
		case flow.VarString:
			fmt.Fprintf(&b, "\tm.Vars.SetString(%s, %s)\n", strconv.Quote(v.Name), strconv.Quote(v.Str))
		default:
			fmt.Fprintf(&b, "\tm.Vars.SetNumber(%s, %s)\n", strconv.Quote(v.Name), litFloat(v.Num))
		}
	}
	b.WriteString("\treturn m\n")
	b.WriteString("}\n")

	return b.Bytes()
}

func emitTriggers(f *flow.Flow, opts Options) []byte {
	var b bytes.Buffer
	ident := exportIdent(f.Name)
	table := unexportIdent(f.Name) + "Triggers"

	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "\npackage %s\n\n", opts.Package)
	fmt.Fprintf(&b, "import %q\n\n", runtimeImport)

	fmt.Fprintf(&b, "// %s maps physical input keys to emitted flow events.\n", table)
	fmt.Fprintf(&b, "var %s = flowrt.TriggerMap{\n", table)
	for _, t := range f.Triggers {
		fmt.Fprintf(&b, "\t%s: %s,\n", strconv.Quote(t.Key), strconv.Quote(t.Event))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// %sFlowEvent translates a pressed key into the flow event it emits.\n", ident)
	fmt.Fprintf(&b, "func %sFlowEvent(key string) (string, bool) {\n", ident)
	fmt.Fprintf(&b, "\treturn %s.Lookup(key)\n", table)
	b.WriteString("}\n")

	return b.Bytes()
}

// litFloat renders a float as a Go literal. Integral values keep a plain
// integer form, which flowrt's float64 fields accept as untyped constants.
func litFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
