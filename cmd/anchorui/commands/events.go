package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agiangrant/anchorui"
	"github.com/agiangrant/anchorui/retained"
	"github.com/agiangrant/anchorui/scene"
)

// step is one line of an event script.
type step struct {
	line int
	op   string
	x, y float32
	text string
	dt   float64
}

// Events implements the 'anchorui events' command
func Events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (default: "+ConfigFile+")")
	fs.Parse(args)

	if fs.NArg() != 2 {
		return fmt.Errorf("usage: anchorui events [options] <document.toml> <script>")
	}

	f, err := os.Open(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	steps, err := parseScript(f)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(1), err)
	}

	engine, doc, err := openEngine(*configPath, fs.Arg(0))
	if err != nil {
		return err
	}
	defer engine.Close()

	replay(os.Stdout, engine, doc, steps)
	return nil
}

// parseScript reads one command per line. Blank lines and lines starting
// with # are skipped.
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, rest, _ := strings.Cut(line, " ")
		s := step{line: n, op: strings.ToLower(op)}

		switch s.op {
		case "down", "up", "move", "touch", "release":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: %s needs X and Y", n, s.op)
			}
			x, errX := strconv.ParseFloat(fields[0], 32)
			y, errY := strconv.ParseFloat(fields[1], 32)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("line %d: bad coordinates %q", n, rest)
			}
			s.x, s.y = float32(x), float32(y)
		case "char":
			if rest == "" {
				return nil, fmt.Errorf("line %d: char needs a character", n)
			}
			s.text = rest
		case "text":
			s.text = rest
		case "backspace":
		case "frame":
			if rest = strings.TrimSpace(rest); rest != "" {
				dt, err := strconv.ParseFloat(rest, 64)
				if err != nil || dt < 0 {
					return nil, fmt.Errorf("line %d: bad frame time %q", n, rest)
				}
				s.dt = dt
			}
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", n, op)
		}
		steps = append(steps, s)
	}
	return steps, sc.Err()
}

// replay feeds steps to engine and writes every routed event and widget
// callback to w. Input left queued at the end is flushed with a last frame.
func replay(w io.Writer, engine *anchorui.Engine, doc *anchorui.Document, steps []step) {
	names := wireCallbacks(w, engine, doc)
	engine.OnDispatch = func(ev retained.InputEvent, consumed bool) {
		fmt.Fprintf(w, "%v consumed=%v\n", ev, consumed)
	}

	pending := false
	for _, s := range steps {
		switch s.op {
		case "down":
			engine.MouseDown(retained.MouseButtonLeft, s.x, s.y)
		case "up":
			engine.MouseUp(retained.MouseButtonLeft, s.x, s.y)
		case "move":
			engine.MouseMove(s.x, s.y)
		case "touch":
			engine.TouchStart(0, s.x, s.y)
		case "release":
			engine.TouchEnd(0, s.x, s.y)
		case "char":
			r, _ := utf8.DecodeRuneInString(s.text)
			engine.Post(retained.CharEvent(r))
		case "text":
			engine.TextInput(s.text)
		case "backspace":
			engine.Post(retained.CharEvent('\b'))
		case "frame":
			engine.Frame(s.dt)
			pending = false
			continue
		}
		pending = true
	}
	if pending {
		engine.Frame(0)
	}

	focus := "none"
	if name, ok := names[engine.System().Focused()]; ok {
		focus = name
	}
	fmt.Fprintf(w, "focus: %s\n", focus)
}

// wireCallbacks installs printing callbacks on every named node and
// returns the names by entity.
func wireCallbacks(w io.Writer, engine *anchorui.Engine, doc *anchorui.Document) map[scene.Entity]string {
	sc := engine.Scene()
	names := make(map[scene.Entity]string)
	for _, n := range doc.Nodes {
		if n.Name == "" {
			continue
		}
		e, err := engine.Node(n.Name)
		if err != nil {
			continue
		}
		name := n.Name
		names[e] = name

		if ui := scene.FindComponent[retained.UIComponent](sc, e); ui != nil {
			ui.OnGetFocus = func() { fmt.Fprintf(w, "%s: focus\n", name) }
			ui.OnLostFocus = func() { fmt.Fprintf(w, "%s: blur\n", name) }
		}
		if b := scene.FindComponent[retained.Button](sc, e); b != nil {
			b.OnPress = func() { fmt.Fprintf(w, "%s: press\n", name) }
			b.OnRelease = func() { fmt.Fprintf(w, "%s: release\n", name) }
		}
		if sb := scene.FindComponent[retained.Scrollbar](sc, e); sb != nil {
			sb.OnChange = func(step float32) { fmt.Fprintf(w, "%s: step %g\n", name, step) }
		}
		if te := scene.FindComponent[retained.TextEdit](sc, e); te != nil {
			te.OnChange = func(text string) { fmt.Fprintf(w, "%s: text %q\n", name, text) }
		}
	}
	return names
}
