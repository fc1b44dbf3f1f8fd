package commands

import (
	"flag"
	"fmt"
	"os"
)

// Init implements the 'anchorui init' command
func Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	width := fs.Int("width", 800, "Canvas width in pixels")
	height := fs.Int("height", 600, "Canvas height in pixels")
	force := fs.Bool("force", false, "Overwrite an existing file")
	fs.Parse(args)

	if _, err := os.Stat(ConfigFile); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", ConfigFile)
	}

	config := defaultProjectConfig(*width, *height)
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveConfig(ConfigFile, config); err != nil {
		return err
	}

	fmt.Printf("Created %s (%dx%d canvas)\n", ConfigFile, *width, *height)
	return nil
}
