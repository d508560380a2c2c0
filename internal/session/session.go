// Package session drives a document from line commands. It backs the
// interactive prompt and the batch apply command.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/document"
)

// ErrExit is returned by Exec for the exit command.
var ErrExit = errors.New("exit")

// Clipboard exchanges images with the desktop clipboard.
type Clipboard interface {
	ReadImage() (*image.NRGBA, error)
	WriteImage(img image.Image) error
}

// Notifier is told about completed saves, copies and pastes.
type Notifier interface {
	Save(path string)
	Copy(detail string, img image.Image)
	Paste(size image.Point)
}

// Session is not safe for concurrent use.
type Session struct {
	doc      *document.Document
	out      io.Writer
	clip     Clipboard
	notifier Notifier
	path     string
	saveDir  string
	color    color.NRGBA
	width    int
	textSize float64
}

// Option configures a Session.
type Option func(*Session)

// WithDocument edits doc instead of a fresh document.
func WithDocument(doc *document.Document) Option { return func(s *Session) { s.doc = doc } }

// WithOutput sends command output to w.
func WithOutput(w io.Writer) Option { return func(s *Session) { s.out = w } }

// WithClipboard enables the copy and paste commands.
func WithClipboard(c Clipboard) Option { return func(s *Session) { s.clip = c } }

// WithNotifier reports saves, copies and pastes.
func WithNotifier(n Notifier) Option { return func(s *Session) { s.notifier = n } }

// WithSaveDir resolves bare file names given to save inside dir.
func WithSaveDir(dir string) Option { return func(s *Session) { s.saveDir = dir } }

// WithPath sets the file that save writes when called without arguments.
func WithPath(path string) Option { return func(s *Session) { s.path = path } }

// WithBrush sets the default stroke color and width.
func WithBrush(c color.NRGBA, width int) Option {
	return func(s *Session) {
		s.color = c
		if width > 0 {
			s.width = width
		}
	}
}

// WithTextSize sets the default text size.
func WithTextSize(size float64) Option {
	return func(s *Session) {
		if size > 0 {
			s.textSize = size
		}
	}
}

// New creates a session.
func New(opts ...Option) *Session {
	s := &Session{
		out:      os.Stdout,
		color:    color.NRGBA{0, 0, 0, 255},
		width:    5,
		textSize: annotate.DefaultSize,
	}
	for _, o := range opts {
		o(s)
	}
	if s.doc == nil {
		s.doc = document.New()
	}
	return s
}

// Document returns the document being edited.
func (s *Session) Document() *document.Document { return s.doc }

// Path returns the current file path, if any.
func (s *Session) Path() string { return s.path }

// Exec runs one command line. Blank lines and lines starting with # are
// ignored.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "quit" {
		return ErrExit
	}
	if name == "help" {
		s.help()
		return nil
	}
	c, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	if err := c.run(s, fields[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return &UsageError{Name: name, Usage: c.usage}
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ExecAll runs each command in order and stops at the first error.
func (s *Session) ExecAll(lines []string) error {
	for _, l := range lines {
		if err := s.Exec(l); err != nil {
			return err
		}
	}
	return nil
}

// Run reads commands from r until EOF, exit, or ctx is cancelled. Errors
// from individual commands are written to errOut and do not stop the loop.
func (s *Session) Run(ctx context.Context, r io.Reader, errOut io.Writer, prompt string) error {
	scanner := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prompt != "" {
			fmt.Fprint(s.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		err := s.Exec(scanner.Text())
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(errOut, err)
		}
	}
	return scanner.Err()
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *Session) help() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		s.printf("  %-11s %s", n, commands[n].usage)
	}
	s.printf("  %-11s %s", "exit", "leave the session")
}

func (s *Session) resolveSavePath(p string) string {
	if s.saveDir != "" && !filepath.IsAbs(p) && filepath.Dir(p) == "." {
		return filepath.Join(s.saveDir, p)
	}
	return p
}
