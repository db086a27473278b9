package codec

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/myu/flowc/internal/flow"
)

// ErrNotFlowFile means the first line is not a FLOW header record.
var ErrNotFlowFile = errors.New("not a flow file: missing FLOW header")

// ErrUnsupportedVersion means the FLOW header names a format version this
// build does not read. Unknown future versions are rejected, not guessed.
var ErrUnsupportedVersion = errors.New("unsupported flow format version")

// Decode parses a persisted flow. The returned model is built fresh, so a
// load fully replaces whatever the caller held before.
//
// Recovery rules: a record with the wrong field count is dropped; a numeric
// field that fails to parse falls back to zero; unknown tags are ignored.
// Only a bad header aborts the decode.
func Decode(data []byte) (*flow.Flow, error) {
	lines := strings.Split(string(data), "\n")

	header := ""
	rest := lines
	for len(rest) > 0 {
		header = strings.TrimRight(rest[0], "\r")
		rest = rest[1:]
		if header != "" {
			break
		}
	}
	hf := strings.Split(header, "|")
	if len(hf) != 3 || hf[0] != "FLOW" {
		return nil, ErrNotFlowFile
	}
	if v := parseInt(hf[2]); v != flow.Version {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, hf[2])
	}

	f := flow.New(hf[1])
	for _, line := range rest {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		decodeRecord(f, strings.Split(line, "|"))
	}
	return f, nil
}

func decodeRecord(f *flow.Flow, fields []string) {
	switch fields[0] {
	case "STATE":
		if len(fields) != 6 {
			return
		}
		f.States = append(f.States, flow.State{
			Name:    fields[1],
			OnEnter: fields[2],
			OnExit:  fields[3],
			X:       parseFloat(fields[4]),
			Y:       parseFloat(fields[5]),
		})
	case "TRANS":
		if len(fields) != 5 {
			return
		}
		f.Transitions = append(f.Transitions, flow.Transition{
			From:      parseInt(fields[1]),
			To:        parseInt(fields[2]),
			Event:     fields[3],
			Condition: fields[4],
		})
	case "STEP":
		if len(fields) != 8 {
			return
		}
		f.Steps = append(f.Steps, flow.SequenceStep{
			Name:     fields[1],
			Duration: parseFloat(fields[2]),
			OnStart:  fields[3],
			OnUpdate: fields[4],
			OnEnd:    fields[5],
			X:        parseFloat(fields[6]),
			Y:        parseFloat(fields[7]),
		})
	case "TRIGGER":
		if len(fields) != 3 {
			return
		}
		f.Triggers = append(f.Triggers, flow.EventTrigger{
			Event: fields[1],
			Key:   fields[2],
		})
	case "VAR":
		if len(fields) != 4 {
			return
		}
		v := flow.Variable{Name: fields[1], Type: flow.ParseVarType(fields[2])}
		switch v.Type {
		case flow.VarBool:
			v.Bool = fields[3] == "true"
		case flow.VarString:
			v.Str = fields[3]
		default:
			v.Num = parseFloat(fields[3])
		}
		f.Vars = append(f.Vars, v)
	}
}

// parseFloat is the zero-defaulting numeric parse the format promises.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// Load reads and decodes the flow at path.
func Load(path string) (*flow.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading flow: %w", err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading flow %s: %w", path, err)
	}
	return f, nil
}
