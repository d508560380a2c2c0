package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/session"
)

// applyCmd runs session commands against one image and saves the result.
type applyCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	commands      []string
	stdout        io.Writer
	clip          session.Clipboard
	*root
	fs *flag.FlagSet
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	a := &applyCmd{root: r, fs: fs, stdout: os.Stdout, clip: clipboard.System{}}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "input image file")
	fs.StringVar(&a.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&a.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&a.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	a.commands = splitCommands(fs.Args())
	if len(a.commands) == 0 {
		return nil, &UsageError{of: a}
	}
	if a.fromClipboard {
		if a.output == "" {
			if a.file == "" && !a.toClipboard {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			a.output = a.file
		}
	} else {
		if a.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if a.output == "" {
			a.output = a.file
		}
	}
	return a, nil
}

// splitCommands joins the positional arguments and splits them on ';'.
func splitCommands(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (a *applyCmd) load() (image.Image, error) {
	if a.fromClipboard {
		img, err := a.clip.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	img, err := codec.Load(a.file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.file, err)
	}
	return img, nil
}

func (a *applyCmd) Run() error {
	img, err := a.load()
	if err != nil {
		return err
	}
	s := session.New(
		session.WithDocument(a.root.newDocument(img)),
		session.WithOutput(a.stdout),
		session.WithClipboard(a.clip),
		session.WithNotifier(a.root.notifier),
		session.WithSaveDir(a.root.saveDir()),
		session.WithPath(a.output),
		session.WithBrush(a.root.brushColor(), a.root.editorSettings().BrushSize),
		session.WithTextSize(a.root.editorSettings().TextSize),
	)
	if err := s.ExecAll(a.commands); err != nil {
		return err
	}
	if a.output != "" {
		if err := s.Exec("save"); err != nil {
			return err
		}
	}
	if a.toClipboard {
		return s.Exec("copy")
	}
	return nil
}
