package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/session"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd edits one document from a command prompt.
type interactiveCmd struct {
	file   string
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	clip   session.Clipboard
	*root
	fs *flag.FlagSet
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	c := &interactiveCmd{
		root:   r,
		fs:     fs,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		clip:   clipboard.System{},
	}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "image file to open before reading commands")
	fs.Var(&c.execs, "e", "execute command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *interactiveCmd) session() (*session.Session, error) {
	var img image.Image
	if c.file != "" {
		loaded, err := codec.Load(c.file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", c.file, err)
		}
		img = loaded
	}
	return session.New(
		session.WithDocument(c.root.newDocument(img)),
		session.WithOutput(c.stdout),
		session.WithClipboard(c.clip),
		session.WithNotifier(c.root.notifier),
		session.WithSaveDir(c.root.saveDir()),
		session.WithPath(c.file),
		session.WithBrush(c.root.brushColor(), c.root.editorSettings().BrushSize),
		session.WithTextSize(c.root.editorSettings().TextSize),
	), nil
}

func (c *interactiveCmd) Run() error {
	s, err := c.session()
	if err != nil {
		return err
	}
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			err := s.Exec(line)
			if errors.Is(err, session.ErrExit) {
				break
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Fprintln(c.stderr, "type 'help' for commands, 'exit' to quit")
	err = s.Run(ctx, c.stdin, c.stderr, "> ")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
