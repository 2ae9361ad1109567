package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/boxdata/internal/sqlview"
	"github.com/mesh-intelligence/boxdata/pkg/animation"
	"github.com/mesh-intelligence/boxdata/pkg/store"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// errQuit ends an interactive session.
var errQuit = errors.New("quit")

const shellHelp = `Commands:
  types                                   list record types
  type <name>                             create a record type
  schema <type>                           show a type's fields
  field add <type> <name> <F32|I32|U32|Char|Bool|String>
  field rm <type> <name|index>
  field up|down <type> <index>            reorder a field
  row new <type> <key>                    create or reset a row
  row del <type> <key>
  row set <type> <key> <field> <text>
  row show <type> <key>
  rows <type>                             list every row, orphans included
  box add <type> <x> <y> <w> <h>          add a hitbox with a new record
  box rm <index>
  box move <index> <dx> <dy>
  box rotate <index> <radians>
  box set <index> <field> <text>          edit the hitbox's record
  boxes
  frame add <x> <y> <w> <h> <cx> <cy>
  frame hit <index> [hitbox...]           set the hitboxes active in a frame
  frame move <index> <dx> <dy>
  frames
  sql <query>                             query a snapshot of all tables
  help
  quit
`

// shell interprets line commands against one animation session.
type shell struct {
	anim *animation.Animation
	out  io.Writer
}

func newShell(anim *animation.Animation, out io.Writer) *shell {
	return &shell{anim: anim, out: out}
}

// runScript executes every line from r. Blank lines and lines starting with
// # are skipped. With keepGoing, command errors are printed and execution
// continues; otherwise the first error is returned.
func (s *shell) runScript(ctx context.Context, r io.Reader, prompt string, keepGoing bool) error {
	sc := bufio.NewScanner(r)
	for {
		if prompt != "" {
			fmt.Fprint(s.out, prompt)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := s.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			if !keepGoing {
				return fmt.Errorf("%s: %w", line, err)
			}
			fmt.Fprintln(s.out, "error:", err)
		}
	}
}

// exec runs a single command line.
func (s *shell) exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "help":
		fmt.Fprint(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "types":
		return s.listTypes()
	case "type":
		return s.createType(args)
	case "schema":
		return s.showSchema(args)
	case "field":
		return s.field(args)
	case "row":
		return s.row(line, args)
	case "rows":
		return s.listRows(args)
	case "box":
		return s.box(line, args)
	case "boxes":
		return s.listBoxes()
	case "frame":
		return s.frame(args)
	case "frames":
		return s.listFrames()
	case "sql":
		return s.sql(ctx, strings.TrimSpace(strings.TrimPrefix(line, cmd)))
	default:
		return userErrorf("unknown command %q (try help)", cmd)
	}
}

func (s *shell) listTypes() error {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tFIELDS\tROWS")
	for _, name := range s.anim.Data().Names() {
		tbl, _ := s.anim.Data().Table(name)
		fmt.Fprintf(w, "%s\t%d\t%d\n", name, len(tbl.Schema()), tbl.Len())
	}
	return w.Flush()
}

func (s *shell) createType(args []string) error {
	if len(args) != 1 {
		return userErrorf("usage: type <name>")
	}
	if s.anim.Data().Has(args[0]) {
		return fmt.Errorf("type %q already exists: %w", args[0], types.ErrDuplicateName)
	}
	s.anim.RegisterTable(args[0])
	return nil
}

func (s *shell) table(name string) (*store.Table[uint32], error) {
	tbl, ok := s.anim.Data().Table(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, types.ErrTableNotFound)
	}
	return tbl, nil
}

func (s *shell) showSchema(args []string) error {
	if len(args) != 1 {
		return userErrorf("usage: schema <type>")
	}
	tbl, err := s.table(args[0])
	if err != nil {
		return err
	}
	for i, f := range tbl.Schema() {
		fmt.Fprintf(s.out, "%d  %s\n", i, f)
	}
	return nil
}

func (s *shell) field(args []string) error {
	if len(args) < 3 {
		return userErrorf("usage: field add|rm|up|down <type> ...")
	}
	tbl, err := s.table(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return userErrorf("usage: field add <type> <name> <data type>")
		}
		dt, err := types.ParseDataType(args[3])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[3])
		}
		if tbl.HasField(args[2]) {
			return fmt.Errorf("%s already has field %q: %w", args[1], args[2], types.ErrDuplicateName)
		}
		tbl.AddField(args[2], dt)
	case "rm":
		if tbl.HasField(args[2]) {
			tbl.RemoveFieldNamed(args[2])
			break
		}
		i, err := strconv.Atoi(args[2])
		if err != nil || i < 0 || i >= len(tbl.Schema()) {
			return userErrorf("no field %q in %s", args[2], args[1])
		}
		tbl.RemoveField(i)
	case "up", "down":
		i, err := strconv.Atoi(args[2])
		if err != nil {
			return userErrorf("bad field index %q", args[2])
		}
		if args[0] == "up" {
			tbl.MoveFieldUp(i)
		} else {
			tbl.MoveFieldDown(i)
		}
	default:
		return userErrorf("unknown field command %q", args[0])
	}
	return nil
}

func parseKey(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, userErrorf("bad key %q", s)
	}
	return uint32(n), nil
}

// restAfter returns the text of line following its first n fields, with
// inner spacing preserved.
func restAfter(line string, n int) string {
	rest := strings.TrimLeft(line, " \t")
	for range n {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	return rest
}

func (s *shell) row(line string, args []string) error {
	if len(args) < 3 {
		return userErrorf("usage: row new|del|set|show <type> <key> ...")
	}
	tbl, err := s.table(args[1])
	if err != nil {
		return err
	}
	key, err := parseKey(args[2])
	if err != nil {
		return err
	}
	switch args[0] {
	case "new":
		tbl.CreateRow(key)
	case "del":
		if !tbl.DeleteRow(key) {
			return userErrorf("no row %d in %s", key, args[1])
		}
	case "set":
		if len(args) < 4 {
			return userErrorf("usage: row set <type> <key> <field> <text>")
		}
		row, ok := tbl.Get(key)
		if !ok {
			return userErrorf("no row %d in %s", key, args[1])
		}
		return setField(tbl.Schema(), row, args[3], restAfter(line, 5))
	case "show":
		row, ok := tbl.Get(key)
		if !ok {
			return userErrorf("no row %d in %s", key, args[1])
		}
		s.printRecord(tbl.Schema(), row)
	default:
		return userErrorf("unknown row command %q", args[0])
	}
	return nil
}

// setField assigns text to the named field of row.
func setField(schema []types.Field, row store.Row, field, text string) error {
	i := slices.IndexFunc(schema, func(f types.Field) bool { return f.Name == field })
	if i < 0 {
		return userErrorf("no field %q", field)
	}
	return row.SetText(i, text)
}

func (s *shell) printRecord(schema []types.Field, row store.Row) {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	for i, f := range schema {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Type, row[i])
	}
	w.Flush()
}

func (s *shell) listRows(args []string) error {
	if len(args) != 1 {
		return userErrorf("usage: rows <type>")
	}
	tbl, err := s.table(args[0])
	if err != nil {
		return err
	}
	keys := make([]uint32, 0, tbl.Len())
	for k := range tbl.All() {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	header := []string{"KEY"}
	for _, f := range tbl.Schema() {
		header = append(header, f.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, k := range keys {
		row, _ := tbl.Get(k)
		fmt.Fprintf(w, "%d\t%s\n", k, strings.Join(row.Strings(), "\t"))
	}
	return w.Flush()
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, userErrorf("bad number %q", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, userErrorf("bad index %q", s)
	}
	return i, nil
}

func (s *shell) box(line string, args []string) error {
	if len(args) < 2 {
		return userErrorf("usage: box add|rm|move|rotate|set ...")
	}
	switch args[0] {
	case "add":
		if len(args) != 6 {
			return userErrorf("usage: box add <type> <x> <y> <w> <h>")
		}
		n, err := parseFloats(args[2:])
		if err != nil {
			return err
		}
		hb, ok := s.anim.AddHitbox(args[1], types.NewBoundingBox(n[0], n[1], n[2], n[3]))
		if !ok {
			return fmt.Errorf("%q: %w", args[1], types.ErrTableNotFound)
		}
		fmt.Fprintf(s.out, "hitbox %d %s -> %s/%d\n", len(s.anim.Hitboxes())-1, hb.ID, hb.Record.Table, hb.Record.Key)
		return nil
	}

	i, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	if _, ok := s.anim.Hitbox(i); !ok && args[0] != "rm" {
		return userErrorf("no hitbox %d", i)
	}
	switch args[0] {
	case "rm":
		s.anim.RemoveHitbox(i)
	case "move":
		if len(args) != 4 {
			return userErrorf("usage: box move <index> <dx> <dy>")
		}
		n, err := parseFloats(args[2:])
		if err != nil {
			return err
		}
		s.anim.MoveHitbox(i, n[0], n[1])
	case "rotate":
		if len(args) != 3 {
			return userErrorf("usage: box rotate <index> <radians>")
		}
		n, err := parseFloats(args[2:])
		if err != nil {
			return err
		}
		s.anim.RotateHitbox(i, n[0])
	case "set":
		if len(args) < 3 {
			return userErrorf("usage: box set <index> <field> <text>")
		}
		schema, row, ok := s.anim.HitboxRecord(i)
		if !ok {
			return userErrorf("hitbox %d has no record", i)
		}
		return setField(schema, row, args[2], restAfter(line, 4))
	default:
		return userErrorf("unknown box command %q", args[0])
	}
	return nil
}

func (s *shell) listBoxes() error {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tID\tRECORD\tX\tY\tW\tH\tANGLE\tVALUES")
	for i, hb := range s.anim.Hitboxes() {
		values := "(missing)"
		if _, row, ok := s.anim.Record(hb.Record); ok {
			values = strings.Join(row.Strings(), ",")
		}
		b := hb.Bound
		fmt.Fprintf(w, "%d\t%s\t%s/%d\t%g\t%g\t%g\t%g\t%g\t%s\n",
			i, hb.ID, hb.Record.Table, hb.Record.Key, b.X, b.Y, b.Rect.Width, b.Rect.Height, b.Angle, values)
	}
	return w.Flush()
}

func (s *shell) frame(args []string) error {
	if len(args) == 0 {
		return userErrorf("usage: frame add|hit|move ...")
	}
	switch args[0] {
	case "add":
		if len(args) != 7 {
			return userErrorf("usage: frame add <x> <y> <w> <h> <cx> <cy>")
		}
		n := make([]uint32, 6)
		for i, a := range args[1:] {
			v, err := strconv.ParseUint(a, 10, 32)
			if err != nil {
				return userErrorf("bad number %q", a)
			}
			n[i] = uint32(v)
		}
		rect := types.AABB{Rect: types.Cuboid[uint32]{Width: n[2], Height: n[3]}, X: n[0], Y: n[1]}
		idx := s.anim.AddFrame(rect, [2]uint32{n[4], n[5]})
		fmt.Fprintf(s.out, "frame %d\n", idx)
	case "hit":
		if len(args) < 2 {
			return userErrorf("usage: frame hit <index> [hitbox...]")
		}
		fi, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		if _, ok := s.anim.Frame(fi); !ok {
			return userErrorf("no frame %d", fi)
		}
		active := make([]int, 0, len(args)-2)
		for _, a := range args[2:] {
			hi, err := parseIndex(a)
			if err != nil {
				return err
			}
			active = append(active, hi)
		}
		s.anim.SetActiveHitboxes(fi, active)
	case "move":
		if len(args) != 4 {
			return userErrorf("usage: frame move <index> <dx> <dy>")
		}
		fi, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		if _, ok := s.anim.Frame(fi); !ok {
			return userErrorf("no frame %d", fi)
		}
		d := make([]int32, 2)
		for i, a := range args[2:] {
			v, err := strconv.ParseInt(a, 10, 32)
			if err != nil {
				return userErrorf("bad number %q", a)
			}
			d[i] = int32(v)
		}
		s.anim.MoveFrame(fi, d[0], d[1])
	default:
		return userErrorf("unknown frame command %q", args[0])
	}
	return nil
}

func (s *shell) listFrames() error {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tRECT\tCENTRE\tHITBOXES")
	for i, f := range s.anim.Frames() {
		fmt.Fprintf(w, "%d\t%d,%d %dx%d\t%d,%d\t%v\n",
			i, f.Rect.X, f.Rect.Y, f.Rect.Rect.Width, f.Rect.Rect.Height, f.Centre[0], f.Centre[1], f.ActiveHitboxes)
	}
	return w.Flush()
}

func (s *shell) sql(ctx context.Context, q string) error {
	if q == "" {
		return userErrorf("usage: sql <query>")
	}
	res, err := s.query(ctx, q)
	if err != nil {
		return err
	}
	return printResult(s.out, res)
}

// query runs q against a fresh snapshot of the session's tables.
func (s *shell) query(ctx context.Context, q string) (*sqlview.Result, error) {
	v, err := sqlview.Open(ctx, s.anim.Data())
	if err != nil {
		return nil, fmt.Errorf("open sql view: %w", err)
	}
	defer v.Close()
	res, err := v.Query(ctx, q)
	if err != nil {
		return nil, userErrorf("sql: %v", err)
	}
	return res, nil
}

func printResult(out io.Writer, res *sqlview.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(res.Columns, "\t"))
	for _, r := range res.Rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}
