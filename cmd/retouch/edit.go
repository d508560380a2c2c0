package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/retouch/internal/appstate"
	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/codec"
)

// editCmd opens the editor window.
type editCmd struct {
	file   string
	output string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to open")
	fs.StringVar(&e.output, "output", "", "file written by save (defaults to the input file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && e.file == "" {
		e.file = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return nil, &UsageError{of: e}
	}
	if e.output == "" {
		e.output = e.file
	}
	return e, nil
}

// state builds the window state without opening the window.
func (e *editCmd) state() (*appstate.AppState, error) {
	var img image.Image
	if e.file != "" {
		loaded, err := codec.Load(e.file)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", e.file, err)
		}
		img = loaded
	}
	return appstate.New(
		appstate.WithDocument(e.root.newDocument(img)),
		appstate.WithOutput(e.output),
		appstate.WithSaveDir(e.root.saveDir()),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithClipboard(clipboard.System{}),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithEditorOptions(e.root.editorOptions()...),
	), nil
}

func (e *editCmd) Run() error {
	st, err := e.state()
	if err != nil {
		return err
	}
	st.Run()
	return nil
}
