package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boxdata/pkg/animation"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

const testConfig = `fps: 30
log_level: warn
types:
  - name: Hit
    fields:
      - name: damage
        type: I32
      - name: label
        type: String
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(body), 0o644))
	return dir
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads types from config.yaml", func(t *testing.T) {
		cfg, err := loadConfig(&rootFlags{configDir: writeConfig(t, testConfig)})
		require.NoError(t, err)
		assert.Equal(t, uint16(30), cfg.FPS)
		assert.Equal(t, "warn", cfg.LogLevel)
		require.Len(t, cfg.Types, 1)
		assert.Equal(t, "Hit", cfg.Types[0].Name)
		assert.Equal(t, []types.FieldConfig{{Name: "damage", Type: "I32"}, {Name: "label", Type: "String"}}, cfg.Types[0].Fields)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := loadConfig(&rootFlags{configDir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, uint16(types.DefaultFPS), cfg.FPS)
		assert.Equal(t, types.DefaultLogLevel, cfg.LogLevel)
		assert.Empty(t, cfg.Types)
	})

	t.Run("flag overrides log level", func(t *testing.T) {
		cfg, err := loadConfig(&rootFlags{configDir: writeConfig(t, testConfig), logLevel: "DEBUG"})
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		dir := writeConfig(t, "fps: 10\ntypes:\n  - name: A\n    fields:\n      - name: x\n        type: Double\n")
		_, err := loadConfig(&rootFlags{configDir: dir})
		assert.ErrorIs(t, err, types.ErrUnknownDataType)
		assert.True(t, isUserError(err))
	})
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	written, err := writeDefaultConfig(dir)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = writeDefaultConfig(dir)
	require.NoError(t, err)
	assert.False(t, written)

	cfg, err := loadConfig(&rootFlags{configDir: dir})
	require.NoError(t, err)
	require.Len(t, cfg.Types, 1)
	assert.Equal(t, "TestType", cfg.Types[0].Name)
}

func TestNewSessionRegistersTypes(t *testing.T) {
	cfg, err := loadConfig(&rootFlags{configDir: writeConfig(t, testConfig)})
	require.NoError(t, err)

	anim, err := newSession(cfg, newLogger(&bytes.Buffer{}, cfg.LogLevel))
	require.NoError(t, err)
	assert.Equal(t, uint16(30), anim.FPS())

	tbl, ok := anim.Data().Table("Hit")
	require.True(t, ok)
	assert.Equal(t, []types.Field{
		{Name: "damage", Type: types.TypeI32},
		{Name: "label", Type: types.TypeString},
	}, tbl.Schema())
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	anim := animation.New(60, animation.Options{Logger: newLogger(&bytes.Buffer{}, "error")})
	return newShell(anim, &out), &out
}

func TestShellEditsTypesAndRows(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	script := `
# build a type the way the editor does
type TestType
field add TestType alpha F32
field add TestType beta f32
row new TestType 1
row set TestType 1 alpha 1.0
row set TestType 1 beta 2.0
row show TestType 1
`
	require.NoError(t, sh.runScript(ctx, strings.NewReader(script), "", false))
	assert.Contains(t, out.String(), "alpha  F32  1")
	assert.Contains(t, out.String(), "beta   F32  2")

	row, ok := sh.anim.Data().Row("TestType", 1)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, row.Strings())

	_, ok = sh.anim.Data().Row("TestType", 2)
	assert.False(t, ok)
}

func TestShellRejectsDuplicates(t *testing.T) {
	sh, _ := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.exec(ctx, "type Hit"))
	err := sh.exec(ctx, "type Hit")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	require.NoError(t, sh.exec(ctx, "field add Hit damage I32"))
	err = sh.exec(ctx, "field add Hit damage F32")
	assert.ErrorIs(t, err, types.ErrDuplicateName)

	tbl, _ := sh.anim.Data().Table("Hit")
	assert.Len(t, tbl.Schema(), 1)
}

func TestShellErrors(t *testing.T) {
	sh, _ := newTestShell(t)
	ctx := context.Background()
	require.NoError(t, sh.exec(ctx, "type Hit"))
	require.NoError(t, sh.exec(ctx, "field add Hit damage I32"))
	require.NoError(t, sh.exec(ctx, "row new Hit 0"))

	tests := []struct {
		line    string
		wantErr error
	}{
		{"row set Hit 0 damage lots", types.ErrParse},
		{"field add Hit speed Double", types.ErrUnknownDataType},
		{"schema Nope", types.ErrTableNotFound},
		{"box add Nope 0 0 1 1", types.ErrTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := sh.exec(ctx, tt.line)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, isUserError(err))
		})
	}

	for _, line := range []string{"bogus", "row show Hit 9", "box move 3 1 1", "frame hit 0 1"} {
		t.Run(line, func(t *testing.T) {
			err := sh.exec(ctx, line)
			require.Error(t, err)
			assert.True(t, isUserError(err))
		})
	}

	row, _ := sh.anim.Data().Row("Hit", 0)
	assert.Equal(t, "0", row[0].String(), "failed parse keeps previous value")
}

func TestShellHitboxesLeaveOrphanRows(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	script := `
type Hit
field add Hit damage I32
field add Hit name String
box add Hit 0 0 16 16
box add Hit 4 4 8 8
box set 1 name heavy  kick
box set 1 damage 30
box rm 0
rows Hit
`
	require.NoError(t, sh.runScript(ctx, strings.NewReader(script), "", false))
	assert.Len(t, sh.anim.Hitboxes(), 1)

	hb, _ := sh.anim.Hitbox(0)
	_, row, ok := sh.anim.Record(hb.Record)
	require.True(t, ok)
	assert.Equal(t, []string{"30", "heavy  kick"}, row.Strings())

	tbl, _ := sh.anim.Data().Table("Hit")
	assert.Equal(t, 2, tbl.Len(), "removed hitbox leaves its row")

	require.NoError(t, sh.exec(ctx, "box add Hit 1 1 1 1"))
	assert.Contains(t, out.String(), "-> Hit/0")
}

func TestShellFrames(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, sh.exec(ctx, "frame add 0 0 64 64 32 60"))
	require.NoError(t, sh.exec(ctx, "frame hit 0 0 2"))
	require.NoError(t, sh.exec(ctx, "frame move 0 8 -3"))
	require.NoError(t, sh.exec(ctx, "frames"))

	f, ok := sh.anim.Frame(0)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, f.ActiveHitboxes)
	assert.Equal(t, [2]uint32{32, 60}, f.Centre)
	assert.Equal(t, uint32(8), f.Rect.X)
	assert.Equal(t, uint32(0), f.Rect.Y)
	assert.Contains(t, out.String(), "[0 2]")

	assert.True(t, isUserError(sh.exec(ctx, "frame move 1 1 1")))
	assert.True(t, isUserError(sh.exec(ctx, "frame move 0 x 1")))
}

func TestShellRemovesFieldByNameOrIndex(t *testing.T) {
	sh, _ := newTestShell(t)
	ctx := context.Background()

	script := `
type Hit
field add Hit damage I32
field add Hit label String
field add Hit speed F32
row new Hit 0
row set Hit 0 damage 9
row set Hit 0 speed 1.5
field rm Hit 1
field rm Hit damage
`
	require.NoError(t, sh.runScript(ctx, strings.NewReader(script), "", false))

	tbl, _ := sh.anim.Data().Table("Hit")
	assert.Equal(t, []types.Field{{Name: "speed", Type: types.TypeF32}}, tbl.Schema())
	row, ok := tbl.Get(0)
	require.True(t, ok)
	assert.Equal(t, []string{"1.5"}, row.Strings())

	for _, line := range []string{"field rm Hit 1", "field rm Hit -1", "field rm Hit nope"} {
		err := sh.exec(ctx, line)
		assert.True(t, isUserError(err), line)
	}
	assert.Len(t, tbl.Schema(), 1)
}

func TestShellSQL(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	script := `
type Hit
field add Hit damage I32
row new Hit 3
row set Hit 3 damage 7
sql SELECT key, damage FROM "Hit"
`
	require.NoError(t, sh.runScript(ctx, strings.NewReader(script), "", false))
	assert.Contains(t, out.String(), "key  damage")
	assert.Contains(t, out.String(), "3    7")
}

func TestShellKeepGoing(t *testing.T) {
	sh, out := newTestShell(t)
	ctx := context.Background()

	err := sh.runScript(ctx, strings.NewReader("bogus\ntype A\nquit\ntype B\n"), "", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "error: unknown command")
	assert.True(t, sh.anim.Data().Has("A"))
	assert.False(t, sh.anim.Data().Has("B"), "quit stops the session")
}

func TestRestAfter(t *testing.T) {
	assert.Equal(t, "a  b", restAfter("row set T 1 f a  b", 5))
	assert.Equal(t, "", restAfter("row set T 1 f", 5))
	assert.Equal(t, "x", restAfter("  box set 0 f   x", 4))
}

func TestCommands(t *testing.T) {
	dir := writeConfig(t, testConfig)

	t.Run("version", func(t *testing.T) {
		out, err := runCmd(t, "", "version")
		require.NoError(t, err)
		assert.Equal(t, "boxdata v"+Version+"\n", out)
	})

	t.Run("types json", func(t *testing.T) {
		out, err := runCmd(t, "", "--config-dir", dir, "--json", "types")
		require.NoError(t, err)
		var got []typeSummary
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Hit", got[0].Name)
		assert.Equal(t, []fieldSummary{{Name: "damage", Type: "I32"}, {Name: "label", Type: "String"}}, got[0].Fields)
	})

	t.Run("shell from stdin", func(t *testing.T) {
		out, err := runCmd(t, "row new Hit 0\nrow set Hit 0 label hello\nrows Hit\nquit\n", "--config-dir", dir, "shell")
		require.NoError(t, err)
		assert.Contains(t, out, "hello")
	})

	t.Run("query with script", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), "seed.txt")
		require.NoError(t, os.WriteFile(script, []byte("box add Hit 0 0 1 1\nbox set 0 damage 5\n"), 0o644))

		out, err := runCmd(t, "", "--config-dir", dir, "--json", "query", "--script", script, `SELECT key, damage, label FROM "Hit"`)
		require.NoError(t, err)
		var res struct {
			Columns []string   `json:"columns"`
			Rows    [][]string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, []string{"key", "damage", "label"}, res.Columns)
		assert.Equal(t, [][]string{{"0", "5", ""}}, res.Rows)
	})

	t.Run("init writes config", func(t *testing.T) {
		fresh := filepath.Join(t.TempDir(), "cfg")
		out, err := runCmd(t, "", "--config-dir", fresh, "init")
		require.NoError(t, err)
		assert.Contains(t, out, "wrote")
		_, err = os.Stat(filepath.Join(fresh, configFileExt))
		assert.NoError(t, err)
	})
}
