package main

import (
	"flag"
	"fmt"
	"os"

	"calbook/internal/ics"
)

func (c *cli) cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := ics.Export(w, c.store.Events()); err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "exported %d event(s) to %s\n", c.store.Len(), *out)
	}
	return nil
}

func (c *cli) cmdImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: calbook import <file>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	inputs, err := ics.Import(f, c.conf.DefaultColor, c.conf.DefaultCategory)
	if err != nil {
		return err
	}

	// Imports bypass conflict prompting: the user asked for the whole
	// file, and collisions inside it are still visible in the views.
	created := 0
	for _, in := range inputs {
		if _, cerr := c.gateway.Create(in); cerr != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", in.Title, cerr)
			continue
		}
		created++
	}

	fmt.Printf("imported %d of %d event(s)\n", created, len(inputs))
	return nil
}
