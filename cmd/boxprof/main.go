// Profiling:
// go build ./cmd/boxprof
// ./boxprof -mode cpu
// go tool pprof -http=":8000" ./boxprof cpu.pprof

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/profile"

	"github.com/mesh-intelligence/boxdata/pkg/animation"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

func main() {
	mode := flag.String("mode", "mem", "profile kind: cpu or mem")
	dir := flag.String("dir", ".", "directory for the profile output")
	rounds := flag.Int("rounds", 20, "rounds to run")
	boxes := flag.Int("boxes", 2000, "hitboxes per round")
	flag.Parse()

	var kind func(*profile.Profile)
	switch *mode {
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	p := profile.Start(kind, profile.ProfilePath(*dir), profile.NoShutdownHook)
	run(*rounds, *boxes)
	p.Stop()
}

// run churns hitboxes and schema edits: every round adds boxes, widens and
// narrows the schema under all rows, then removes every other box.
func run(rounds, numBoxes int) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	anim := animation.New(60, animation.Options{Logger: logger})
	tbl := anim.RegisterTable("Hit")
	tbl.AddField("damage", types.TypeI32)
	tbl.AddField("knockback", types.TypeF32)

	for range rounds {
		for range numBoxes {
			hb, ok := anim.AddHitbox("Hit", types.NewBoundingBox(0, 0, 8, 8))
			if !ok {
				panic("table Hit is not registered")
			}
			row, _ := anim.Data().Row(hb.Record.Table, hb.Record.Key)
			_ = row.SetText(0, "12")
		}
		tbl.AddField("label", types.TypeString)
		tbl.MoveFieldUp(2)
		tbl.RemoveFieldNamed("label")
		for i := len(anim.Hitboxes()) - 1; i >= 0; i -= 2 {
			anim.RemoveHitbox(i)
		}
	}
}
