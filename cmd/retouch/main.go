package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/example/retouch/internal/appstate"
	"github.com/example/retouch/internal/config"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/palette"
	"github.com/example/retouch/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	saveAlerts  bool
	copyAlerts  bool
	pasteAlerts bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("retouch", flag.ExitOnError),
		program:  "retouch",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.pasteAlerts, "notify-paste", cfg.Notify.Paste, "show a desktop notification after pasting from the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventPaste, r.pasteAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "filters":
		cmd, err = parseFiltersCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("RETOUCH_THEME")
	}
	if name == "" && r.config != nil {
		name = r.config.Theme
	}
	if r.config != nil {
		if t, ok := r.config.Themes[name]; ok {
			return t
		}
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// editorSettings returns the [editor] section, or zero values when no
// config was loaded.
func (r *root) editorSettings() config.Editor {
	if r == nil || r.config == nil {
		return config.Editor{}
	}
	return r.config.Editor
}

func (r *root) saveDir() string {
	if r == nil || r.config == nil {
		return ""
	}
	return r.config.SaveDir
}

// brushColor parses the configured brush color, falling back to black.
func (r *root) brushColor() color.NRGBA {
	black := color.NRGBA{0, 0, 0, 255}
	spec := r.editorSettings().BrushColor
	if spec == "" {
		return black
	}
	c, err := palette.Parse(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: brush_color: %v\n", err)
		return black
	}
	return c
}

// newDocument creates a document holding img, which may be nil, honoring
// the configured history limit and filter intensity. Loading an image
// resets the filter, so img is loaded first.
func (r *root) newDocument(img image.Image) *document.Document {
	ed := r.editorSettings()
	var opts []document.Option
	if ed.HistoryLimit > 0 {
		opts = append(opts, document.WithHistoryLimit(ed.HistoryLimit))
	}
	if img != nil {
		opts = append(opts, document.WithImage(img))
	}
	doc := document.New(opts...)
	if ed.FilterIntensity > 0 {
		doc.SetFilterIntensity(ed.FilterIntensity)
	}
	return doc
}

func (r *root) editorOptions() []appstate.EditorOption {
	ed := r.editorSettings()
	opts := []appstate.EditorOption{appstate.WithBrushColor(r.brushColor())}
	if ed.BrushSize > 0 {
		opts = append(opts, appstate.WithBrushSize(ed.BrushSize))
	}
	if ed.EraserSize > 0 {
		opts = append(opts, appstate.WithEraserSize(ed.EraserSize))
	}
	if ed.TextSize > 0 {
		opts = append(opts, appstate.WithTextSize(ed.TextSize))
	}
	return opts
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
