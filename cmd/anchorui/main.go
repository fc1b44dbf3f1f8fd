package main

import (
	"fmt"
	"os"

	"github.com/agiangrant/anchorui/cmd/anchorui/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = commands.Init(args)
	case "layout":
		err = commands.Layout(args)
	case "events":
		err = commands.Events(args)
	case "version", "-v", "--version":
		fmt.Printf("anchorui version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`anchorui - retained UI layout CLI

Usage: anchorui <command> [options]

Commands:
  init            Write a default anchorui.toml
  layout          Resolve a UI document and print the node rectangles
  events          Replay an input script against a UI document
  version         Print version information
  help            Show this help message

Examples:
  anchorui layout ui.toml                   Print the layout of ui.toml
  anchorui layout -frames 3 ui.toml         Run three frames before printing
  anchorui events ui.toml input.txt         Replay input.txt and print callbacks

Event scripts hold one command per line:
  down X Y | up X Y | move X Y | touch X Y | release X Y
  char C | text STRING | backspace | frame [SECONDS]

Configuration:
  Canvas size, fonts and engine settings are read from anchorui.toml in the
  current directory, or from the file given with -config.`)
}
