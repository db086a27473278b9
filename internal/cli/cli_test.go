package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myu/flowc/internal/codec"
	"github.com/myu/flowc/internal/flow"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// chdir switches the working directory for the test, restoring it on cleanup.
// testing.T.Chdir requires Go 1.24; this keeps the tests runnable on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFlow(t *testing.T, path string, f *flow.Flow) {
	t.Helper()
	require.NoError(t, codec.Save(path, f))
}

func demoFlow() *flow.Flow {
	f := flow.New("demo")
	f.States = []flow.State{{Name: "Idle"}, {Name: "Run"}}
	f.Transitions = []flow.Transition{{From: 0, To: 1, Event: "go"}}
	f.Triggers = []flow.EventTrigger{{Event: "go", Key: "Space"}}
	return f
}

func TestValidateCommand_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.flow")
	writeFlow(t, path, demoFlow())

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ demo")
}

func TestValidateCommand_Warnings(t *testing.T) {
	f := demoFlow()
	f.Steps = []flow.SequenceStep{{Name: "bad", Duration: -1}}
	path := filepath.Join(t.TempDir(), "demo.flow")
	writeFlow(t, path, f)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "warning")
	assert.Contains(t, stdout, "NEGATIVE_DURATION")
}

func TestValidateCommand_Errors(t *testing.T) {
	f := demoFlow()
	f.Transitions = append(f.Transitions, flow.Transition{From: 9, To: 0, Event: "bad"})
	path := filepath.Join(t.TempDir(), "demo.flow")
	writeFlow(t, path, f)

	stdout, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ demo")
	assert.Contains(t, stdout, "DANGLING_FROM")
}

func TestValidateCommand_NotAFlowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.flow")
	require.NoError(t, os.WriteFile(path, []byte("not a flow\n"), 0o644))

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.flow"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.flow")
	writeFlow(t, path, demoFlow())

	stdout, _, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status":"ok"`)
	assert.Contains(t, stdout, `"flow":"demo"`)
}

const hostStub = `package game

import (
	// flowc:imports
)

type Game struct {
	// flowc:fields
}

func (g *Game) Init() {
	// flowc:init
}

func (g *Game) Update(dt float64) {
	// flowc:update
}

func (g *Game) OnKey(key string) {
	// flowc:input
}
`

func setupProject(t *testing.T, withHost bool) {
	t.Helper()
	chdir(t, t.TempDir())

	writeFlow(t, "demo.flow", demoFlow())

	cfg := "flow: demo.flow\noutput_dir: gen\npackage: gen\n"
	if withHost {
		cfg += "host:\n  file: game.go\n"
		require.NoError(t, os.WriteFile("game.go", []byte(hostStub), 0o644))
	}
	require.NoError(t, os.WriteFile("flowc.yaml", []byte(cfg), 0o644))
}

func TestGenerateCommand_EndToEnd(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Generated demo flow into gen")
	assert.Contains(t, stdout, "Host patch:")

	runtime, err := os.ReadFile(filepath.Join("gen", "flow_runtime.go"))
	require.NoError(t, err)
	assert.Contains(t, string(runtime), "package gen")
	assert.Contains(t, string(runtime), "func NewDemoFlow")

	_, err = os.Stat(filepath.Join("gen", "flow_triggers.go"))
	require.NoError(t, err)

	host, err := os.ReadFile("game.go")
	require.NoError(t, err)
	assert.Contains(t, string(host), "g.flow = NewDemoFlow(flowrt.NewRegistry())")

	// The run lands in the default history database.
	_, err = os.Stat(filepath.Join(".flowc", "history.db"))
	require.NoError(t, err)

	histOut, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, histOut, "demo")
	assert.Contains(t, histOut, "patched")
}

func TestGenerateCommand_SkipPatch(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, "generate", "--skip-patch")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Host patch:")

	host, err := os.ReadFile("game.go")
	require.NoError(t, err)
	assert.Equal(t, hostStub, string(host))
}

func TestGenerateCommand_OutputOverride(t *testing.T) {
	setupProject(t, false)

	_, _, err := execute(t, "generate", "-o", "elsewhere")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join("elsewhere", "flow_runtime.go"))
	require.NoError(t, err)
}

func TestGenerateCommand_MissingConfig(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateCommand_ValidationFailure(t *testing.T) {
	setupProject(t, false)
	f := demoFlow()
	f.Transitions = append(f.Transitions, flow.Transition{From: 9, To: 0, Event: "bad"})
	writeFlow(t, "demo.flow", f)

	stdout, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "VALIDATION")

	// No artifacts on a failed run.
	_, err = os.Stat(filepath.Join("gen", "flow_runtime.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestPatchCommand_Idempotent(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, "patch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Patched game.go")

	once, err := os.ReadFile("game.go")
	require.NoError(t, err)

	stdout, _, err = execute(t, "patch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already up to date")
	assert.Contains(t, stdout, "present")

	twice, err := os.ReadFile("game.go")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPatchCommand_NoHostSection(t *testing.T) {
	setupProject(t, false)

	stdout, _, err := execute(t, "patch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "no host section")
}

func TestInitCommand(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute(t, "init", "demo")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Created flowc.yaml and demo.flow")

	f, err := codec.Load("demo.flow")
	require.NoError(t, err)
	assert.Equal(t, "demo", f.Name)
	require.Len(t, f.States, 1)
	assert.Equal(t, "Idle", f.States[0].Name)

	// The scaffold must generate as-is.
	_, _, err = execute(t, "generate")
	require.NoError(t, err)

	// Re-running init never overwrites.
	stdout, _, err = execute(t, "init", "demo")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "already exists")
}

func TestHistoryCommand_Empty(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No generation history yet")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "outer", assert.AnError)))
}
