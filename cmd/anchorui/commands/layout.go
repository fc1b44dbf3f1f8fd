package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/agiangrant/anchorui"
)

// Layout implements the 'anchorui layout' command
func Layout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (default: "+ConfigFile+")")
	frames := fs.Int("frames", 1, "Frames to run before printing")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: anchorui layout [options] <document.toml>")
	}

	engine, doc, err := openEngine(*configPath, fs.Arg(0))
	if err != nil {
		return err
	}
	defer engine.Close()

	for range *frames {
		engine.Frame(0)
	}
	return printLayout(os.Stdout, engine, doc)
}

// printLayout writes one row per named node of doc in document order.
func printLayout(w io.Writer, engine *anchorui.Engine, doc *anchorui.Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tX\tY\tWIDTH\tHEIGHT")
	for _, n := range doc.Nodes {
		if n.Name == "" {
			continue
		}
		b, err := engine.Bounds(n.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%v\t%g\t%g\t%g\t%g\n", n.Name, n.Kind, b.X, b.Y, b.Width, b.Height)
	}
	return tw.Flush()
}
