package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/retouch/internal/filter"
	"github.com/example/retouch/internal/palette"
)

type colorsCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	brush := c.root.brushColor()
	fmt.Fprintln(c.stdout, "palette colors (* marks the brush color):")
	for idx, entry := range palette.Colors() {
		marker := " "
		if entry.Color == brush {
			marker = "*"
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, palette.Hex(entry.Color), block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type filtersCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func parseFiltersCmd(args []string, r *root) (*filtersCmd, error) {
	fs := flag.NewFlagSet("filters", flag.ExitOnError)
	cmd := &filtersCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *filtersCmd) Run() error {
	for _, k := range filter.Kinds() {
		fmt.Fprintln(c.stdout, k)
	}
	return nil
}

func (c *filtersCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
