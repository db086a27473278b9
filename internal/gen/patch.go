package gen

import (
	"fmt"
	"os"
	"strings"

	"github.com/myu/flowc/internal/flow"
)

// Markers are the literal substrings locating each insertion point in the
// host source file. A missing marker skips only its own insertion.
type Markers struct {
	Imports string
	Fields  string
	Init    string
	Update  string
	Input   string
}

// DefaultMarkers returns the conventional flowc marker comments.
func DefaultMarkers() Markers {
	return Markers{
		Imports: "// flowc:imports",
		Fields:  "// flowc:fields",
		Init:    "// flowc:init",
		Update:  "// flowc:update",
		Input:   "// flowc:input",
	}
}

// PatchOptions parameterizes the host snippets.
type PatchOptions struct {
	// Receiver is the method receiver name used in the injected
	// statements, "g" if empty.
	Receiver string

	Markers Markers
}

// PointStatus is the outcome of one insertion point.
type PointStatus string

const (
	// PointApplied means the snippet was inserted on this run.
	PointApplied PointStatus = "applied"

	// PointPresent means the snippet was already in the file.
	PointPresent PointStatus = "present"

	// PointNoMarker means the marker substring was not found; the
	// insertion was skipped. Soft failure: the rest of the patch
	// proceeds.
	PointNoMarker PointStatus = "no-marker"
)

// PointResult reports one insertion point's outcome.
type PointResult struct {
	Point  string
	Status PointStatus
}

// PatchResult reports the whole patch run. The patch call as such succeeds
// whenever the host file could be read; inspect Points for partial
// outcomes.
type PatchResult struct {
	Points  []PointResult
	Changed bool
}

// Skipped lists the points whose marker was missing.
func (r *PatchResult) Skipped() []string {
	var out []string
	for _, p := range r.Points {
		if p.Status == PointNoMarker {
			out = append(out, p.Point)
		}
	}
	return out
}

type insertion struct {
	point   string
	marker  string
	snippet []string
}

// Patch wires the generated flow unit into an existing host source file, in
// place. Each insertion is idempotent: if the file already contains the
// snippet's first line, the point reports present and nothing is inserted,
// so re-running the patcher yields byte-identical output. Manual edits
// inside previously inserted snippets are not tracked beyond that
// presence check.
func Patch(path string, f *flow.Flow, opts PatchOptions) (*PatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host file: %w", err)
	}

	text, result := patchText(string(data), f, opts)
	if !result.Changed {
		return result, nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("writing host file: %w", err)
	}
	return result, nil
}

// patchText is the pure core of Patch.
func patchText(text string, f *flow.Flow, opts PatchOptions) (string, *PatchResult) {
	recv := opts.Receiver
	if recv == "" {
		recv = "g"
	}
	markers := opts.Markers
	if markers == (Markers{}) {
		markers = DefaultMarkers()
	}
	ident := exportIdent(f.Name)

	insertions := []insertion{
		{
			point:   "imports",
			marker:  markers.Imports,
			snippet: []string{fmt.Sprintf("%q", runtimeImport)},
		},
		{
			point:   "fields",
			marker:  markers.Fields,
			snippet: []string{"flow *flowrt.Machine"},
		},
		{
			point:  "init",
			marker: markers.Init,
			snippet: []string{
				fmt.Sprintf("%s.flow = New%sFlow(flowrt.NewRegistry())", recv, ident),
				fmt.Sprintf("%s.flow.Start()", recv),
			},
		},
		{
			point:   "update",
			marker:  markers.Update,
			snippet: []string{fmt.Sprintf("%s.flow.Update(dt)", recv)},
		},
		{
			point:  "input",
			marker: markers.Input,
			snippet: []string{
				fmt.Sprintf("if event, ok := %sFlowEvent(key); ok {", ident),
				fmt.Sprintf("\t%s.flow.Emit(event)", recv),
				"}",
			},
		},
	}

	result := &PatchResult{}
	for _, ins := range insertions {
		var status PointStatus
		text, status = applyInsertion(text, ins)
		if status == PointApplied {
			result.Changed = true
		}
		result.Points = append(result.Points, PointResult{Point: ins.point, Status: status})
	}
	return text, result
}

func applyInsertion(text string, ins insertion) (string, PointStatus) {
	if strings.Contains(text, ins.snippet[0]) {
		return text, PointPresent
	}
	at := strings.Index(text, ins.marker)
	if at < 0 {
		return text, PointNoMarker
	}

	// Insert after the marker's line, reusing its indentation.
	lineStart := strings.LastIndexByte(text[:at], '\n') + 1
	indent := text[lineStart:at]
	if strings.TrimSpace(indent) != "" {
		indent = ""
	}
	lineEnd := strings.IndexByte(text[at:], '\n')
	insertAt := len(text)
	if lineEnd >= 0 {
		insertAt = at + lineEnd + 1
	} else {
		text += "\n"
		insertAt = len(text)
	}

	var b strings.Builder
	b.WriteString(text[:insertAt])
	for _, line := range ins.snippet {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(text[insertAt:])
	return b.String(), PointApplied
}
