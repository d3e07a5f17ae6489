// layouttool is a headless CLI for inspecting generated office layouts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/officewalk/internal/assets"
	"github.com/Faultbox/officewalk/internal/feed"
	"github.com/Faultbox/officewalk/internal/game/session"
	"github.com/Faultbox/officewalk/internal/logger"
	"github.com/Faultbox/officewalk/internal/world/collision"
	"github.com/Faultbox/officewalk/internal/world/graph"
	"github.com/Faultbox/officewalk/internal/world/layout"
	"github.com/Faultbox/officewalk/internal/world/player"
	"github.com/Faultbox/officewalk/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "stats":
		cmdStats(args)
	case "walls":
		cmdWalls(args)
	case "junctions", "j":
		cmdJunctions(args)
	case "probe":
		cmdProbe(args)
	case "route":
		cmdRoute(args)
	case "serve":
		cmdServe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`layouttool - office corridor layout inspector

Usage:
  layouttool <command> [options] [blueprint.yaml]

Without a blueprint file the built-in office floor is used.

Commands:
  stats                        Summarise segments, junctions, meshes and doors
  walls [-segment ID]          List wall pieces per segment
  junctions                    Show open and walled sides of each junction
  probe -x X -z Z [-yaw DEG]   Locate a point and cast the collision probe
  route -from ID -to ID        Shortest corridor route between two nodes
  serve [-addr ADDR]           Run a wandering player and publish the location feed

Examples:
  layouttool stats
  layouttool walls -segment C1-C2 floors/annex.yaml
  layouttool probe -x 0 -z 6.75 -yaw -90
  layouttool route -from ELV -to J_WELL
  layouttool serve -addr 127.0.0.1:8787`)
}

// commonFlags adds the options every command shares.
func commonFlags(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	verbose := fs.Bool("v", false, "Log build warnings to the console")
	return fs, verbose
}

// openSession builds the blueprint named by the first positional argument.
func openSession(fs *flag.FlagSet, verbose bool) *session.Session {
	if verbose {
		if err := logger.Init("debug", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		}
	}

	m := assets.NewManager()
	m.AddFS("embedded", session.EmbeddedSource())
	name := session.DefaultBlueprintName
	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if err := m.AddDir(filepath.Dir(path)); err != nil {
			fail(err)
		}
		name = filepath.Base(path)
	}

	bp, err := session.LoadBlueprint(m, name)
	if err != nil {
		fail(err)
	}
	s, err := session.New(session.DefaultConfig(), bp)
	if err != nil {
		fail(err)
	}
	return s
}

func cmdStats(args []string) {
	fs, verbose := commonFlags("stats")
	fs.Parse(args)
	s := openSession(fs, *verbose)
	l := s.Layout()

	fmt.Printf("Blueprint:   %s\n", s.Blueprint().Name)
	fmt.Printf("Nodes:       %d\n", len(s.Graph().Nodes))
	fmt.Printf("Segments:    %d\n", len(l.Segments))
	fmt.Printf("Junctions:   %d\n", len(l.Junctions))
	fmt.Printf("Collidables: %d\n", s.World().Len())
	fmt.Printf("Doors:       %d\n", s.Doors().Len())
	fmt.Printf("Vestibules:  %d\n", len(s.Connector().Vestibules()))

	min, max := l.Bounds()
	fmt.Printf("Bounds:      x [%.2f, %.2f]  z [%.2f, %.2f]\n", min.X, max.X, min.Y, max.Y)
	fmt.Println()

	counts := make(map[layout.Kind]int)
	for _, m := range l.Meshes() {
		counts[m.Kind]++
	}
	fmt.Println("Meshes by kind:")
	for k := layout.KindFloor; k <= layout.KindLight; k++ {
		fmt.Printf("  %-8s %d\n", k, counts[k])
	}

	if errs := s.Graph().Validate(); len(errs) > 0 {
		fmt.Println()
		fmt.Println("Graph problems:")
		for _, err := range errs {
			fmt.Printf("  - %v\n", err)
		}
	}

	var degenerate []string
	for _, seg := range l.Segments {
		if seg.Degenerate() {
			degenerate = append(degenerate, seg.ID)
		}
	}
	if len(degenerate) > 0 {
		fmt.Printf("\nDegenerate segments: %s\n", strings.Join(degenerate, ", "))
	}
}

func cmdWalls(args []string) {
	fs, verbose := commonFlags("walls")
	only := fs.String("segment", "", "Only show this segment")
	fs.Parse(args)
	s := openSession(fs, *verbose)

	found := false
	for _, seg := range s.Layout().Segments {
		if *only != "" && seg.ID != *only {
			continue
		}
		found = true
		flags := ""
		if seg.Disorienting {
			flags = "  [secret]"
		}
		fmt.Printf("%-12s len %.2f  effective %.2f  offsets %.2f/%.2f%s\n",
			seg.ID, seg.Length, seg.EffectiveLength, seg.StartOffset, seg.EndOffset, flags)
		for _, w := range append(append([]*layout.Mesh{}, seg.Walls...), seg.Caps...) {
			fmt.Printf("    %-28s at (%6.2f, %6.2f)  length %.2f\n", w.Name, w.Center.X, w.Center.Z, max(w.Size.X, w.Size.Z))
		}
	}
	if *only != "" && !found {
		fail(fmt.Errorf("no segment %q", *only))
	}
}

func cmdJunctions(args []string) {
	fs, verbose := commonFlags("junctions")
	fs.Parse(args)
	s := openSession(fs, *verbose)

	for _, j := range s.Layout().Junctions {
		var open, closed []string
		for _, d := range graph.Directions {
			if j.IsOpen(d) {
				open = append(open, d.String())
			} else {
				closed = append(closed, d.String())
			}
		}
		sort.Strings(open)
		sort.Strings(closed)
		fmt.Printf("%-8s at (%6.2f, %6.2f)  open [%s]  walled [%s]  walls %d  jambs %d\n",
			j.ID, j.Position.X, j.Position.Z,
			strings.Join(open, " "), strings.Join(closed, " "), len(j.Walls), len(j.Jambs))
	}
}

func cmdProbe(args []string) {
	fs, verbose := commonFlags("probe")
	x := fs.Float64("x", 0, "World X")
	z := fs.Float64("z", 0, "World Z")
	yaw := fs.Float64("yaw", 0, "Heading in degrees, 0 faces +Z")
	dist := fs.Float64("dist", 1, "Probe distance")
	fs.Parse(args)
	s := openSession(fs, *verbose)

	cfg := session.DefaultConfig()
	pos := math.Vec3{X: float32(*x), Y: cfg.Player.EyeHeight, Z: float32(*z)}
	heading := float32(*yaw) * math.Pi / 180

	fmt.Printf("Point:    (%.2f, %.2f)\n", pos.X, pos.Z)
	if loc, ok := s.Locate(pos); ok {
		fmt.Printf("Location: %s (flagged %v)\n", loc.ID, loc.Flagged)
	} else {
		fmt.Println("Location: none")
	}
	fmt.Printf("Covered:  %v\n", s.World().IsCovered(pos.X, pos.Z))

	delta := math.Forward(heading).Scale(float32(*dist))
	res := collision.NewResolver(cfg.Collision).ResolveDetailed(delta, pos, s.World().CollidablesNear(pos, float32(*dist)+1))
	fmt.Printf("Move %s -> allowed (%.3f, %.3f)  blocked %v  depth %d\n",
		formatVec(delta), res.Delta.X, res.Delta.Z, res.Blocked, res.Depth)

	ids := s.World().IDsNear(pos, 1.5)
	sort.Strings(ids)
	fmt.Printf("Nearby:   %d collidables\n", len(ids))
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
}

func cmdRoute(args []string) {
	fs, verbose := commonFlags("route")
	from := fs.String("from", "", "Start node")
	to := fs.String("to", "", "Goal node")
	fs.Parse(args)
	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "Usage: layouttool route -from ID -to ID [blueprint.yaml]")
		os.Exit(1)
	}
	s := openSession(fs, *verbose)

	nodes, err := s.Graph().Route(*from, *to)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Nodes: %s\n", strings.Join(nodes, " -> "))

	var total float32
	for i := 1; i < len(nodes); i++ {
		seg, ok := s.Layout().Segment(nodes[i-1] + "-" + nodes[i])
		if !ok {
			seg, ok = s.Layout().Segment(nodes[i] + "-" + nodes[i-1])
		}
		if !ok {
			fmt.Printf("  %s -> %s  (no segment)\n", nodes[i-1], nodes[i])
			continue
		}
		total += seg.Length
		fmt.Printf("  %-12s %.2f\n", seg.ID, seg.Length)
	}
	fmt.Printf("Length: %.2f\n", total)
}

func cmdServe(args []string) {
	fs, verbose := commonFlags("serve")
	addr := fs.String("addr", feed.DefaultConfig().Addr, "Listen address")
	rate := fs.Int("hz", 30, "Simulation rate")
	fs.Parse(args)
	s := openSession(fs, *verbose)

	cfg := feed.DefaultConfig()
	cfg.Enabled = true
	cfg.Addr = *addr
	hub := feed.NewHub(cfg)
	s.AddLocationListener(hub)
	s.AddDoorListener(hub)
	s.AddFrameListener(hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- feed.Serve(ctx, cfg, hub) }()

	fmt.Printf("Serving %s feed on ws://%s%s (Ctrl+C to stop)\n", s.Blueprint().Name, cfg.Addr, cfg.Path)

	if *rate <= 0 {
		*rate = 30
	}
	dt := float32(1) / float32(*rate)
	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	w := &wanderer{}
	for {
		select {
		case <-ctx.Done():
			<-errc
			return
		case err := <-errc:
			if err != nil {
				fail(err)
			}
			return
		case <-ticker.C:
			w.step(s, dt)
		}
	}
}

// wanderer walks forward and turns left whenever it stops making progress.
type wanderer struct {
	last    math.Vec3
	stuck   float32
	turning float32
}

func (w *wanderer) step(s *session.Session, dt float32) {
	in := player.InputState{Forward: true}
	if w.turning > 0 {
		in = player.InputState{RotateLeft: true}
		w.turning -= dt
	}

	f := s.Update(dt, in)
	if f.Position.Distance(w.last) < 0.01 && w.turning <= 0 {
		w.stuck += dt
	} else {
		w.stuck = 0
	}
	w.last = f.Position

	if w.stuck > 0.3 {
		// Quarter turn at the default rotate speed
		w.turning = (math.Pi / 2) / player.DefaultConfig().RotateSpeed
		w.stuck = 0
	}
}

func formatVec(v math.Vec3) string {
	return "(" + strconv.FormatFloat(float64(v.X), 'f', 3, 32) + ", " +
		strconv.FormatFloat(float64(v.Z), 'f', 3, 32) + ")"
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
