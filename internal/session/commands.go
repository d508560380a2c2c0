package session

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/retouch/internal/annotate"
	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/document"
	"github.com/example/retouch/internal/filter"
	"github.com/example/retouch/internal/palette"
)

// UsageError reports malformed command arguments.
type UsageError struct {
	Name  string
	Usage string
}

func (e *UsageError) Error() string {
	return strings.TrimSpace("usage: " + e.Name + " " + e.Usage)
}

func (e *UsageError) Unwrap() error { return errUsage }

var errUsage = errors.New("invalid arguments")

// ErrNoClipboard is returned by copy and paste when no clipboard is set.
var ErrNoClipboard = errors.New("clipboard unavailable")

type command struct {
	usage string
	run   func(s *Session, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"open":       {"PATH", (*Session).open},
		"new":        {"WIDTH HEIGHT", (*Session).newImage},
		"save":       {"[PATH]", (*Session).save},
		"brightness": {"0-200", adjustment((*Session).setBrightness)},
		"contrast":   {"0-200", adjustment((*Session).setContrast)},
		"saturation": {"0-200", adjustment((*Session).setSaturation)},
		"reset":      {"", (*Session).reset},
		"filter":     {"NAME[:INTENSITY] [INTENSITY]", (*Session).filter},
		"intensity":  {"1-100", (*Session).intensity},
		"crop":       {"X Y WIDTH HEIGHT", (*Session).crop},
		"rotate":     {"left|right|DEGREES", (*Session).rotate},
		"fliph":      {"", (*Session).flipH},
		"flipv":      {"", (*Session).flipV},
		"resize":     {"WIDTHxHEIGHT | WIDTH HEIGHT", (*Session).resize},
		"text":       {"X Y SIZE COLOR WORDS...", (*Session).text},
		"cleartext":  {"", (*Session).clearText},
		"stroke":     {"X0 Y0 X1 Y1 [WIDTH] [COLOR]", (*Session).stroke},
		"erase":      {"X0 Y0 X1 Y1 [WIDTH]", (*Session).erase},
		"undo":       {"", (*Session).undo},
		"redo":       {"", (*Session).redo},
		"copy":       {"", (*Session).copyImage},
		"paste":      {"", (*Session).paste},
		"pick":       {"X Y", (*Session).pick},
		"info":       {"", (*Session).info},
	}
}

func ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, errUsage
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func noArgs(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	return nil
}

func (s *Session) open(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	img, err := codec.Load(args[0])
	if err != nil {
		return err
	}
	if err := s.doc.LoadImage(img); err != nil {
		return err
	}
	s.path = args[0]
	size := s.doc.Size()
	s.printf("opened %s (%dx%d)", args[0], size.X, size.Y)
	return nil
}

func (s *Session) newImage(args []string) error {
	v, err := ints(args, 2)
	if err != nil || len(args) != 2 {
		return errUsage
	}
	if err := s.doc.NewImage(v[0], v[1]); err != nil {
		return err
	}
	s.path = ""
	s.printf("new %dx%d image", v[0], v[1])
	return nil
}

func (s *Session) save(args []string) error {
	path := s.path
	switch len(args) {
	case 0:
	case 1:
		path = s.resolveSavePath(args[0])
	default:
		return errUsage
	}
	if path == "" {
		return errors.New("no file name; use save PATH")
	}
	img, err := s.doc.ImageForExport()
	if err != nil {
		return err
	}
	if err := codec.Save(path, img); err != nil {
		return err
	}
	s.path = path
	s.doc.SetModified(false)
	s.printf("saved %s", path)
	if s.notifier != nil {
		s.notifier.Save(path)
	}
	return nil
}

func adjustment(set func(*Session, int)) func(*Session, []string) error {
	return func(s *Session, args []string) error {
		v, err := ints(args, 1)
		if err != nil || len(args) != 1 {
			return errUsage
		}
		if v[0] < 0 || v[0] > 200 {
			return fmt.Errorf("value %d out of range 0-200", v[0])
		}
		set(s, v[0])
		return nil
	}
}

func (s *Session) setBrightness(v int) { s.doc.SetBrightness(v) }
func (s *Session) setContrast(v int)   { s.doc.SetContrast(v) }
func (s *Session) setSaturation(v int) { s.doc.SetSaturation(v) }

func (s *Session) reset(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	s.doc.ResetAdjustments()
	return nil
}

func (s *Session) filter(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	name, level, hasLevel := strings.Cut(args[0], ":")
	if len(args) == 2 {
		if hasLevel {
			return errUsage
		}
		level, hasLevel = args[1], true
	}
	k, err := filter.ParseKind(name)
	if err != nil {
		return err
	}
	if hasLevel {
		n, err := strconv.Atoi(level)
		if err != nil {
			return fmt.Errorf("invalid intensity %q", level)
		}
		s.doc.SetFilterIntensity(n)
	}
	s.doc.ApplyFilter(k)
	return nil
}

func (s *Session) intensity(args []string) error {
	v, err := ints(args, 1)
	if err != nil || len(args) != 1 {
		return errUsage
	}
	s.doc.SetFilterIntensity(v[0])
	return nil
}

func (s *Session) crop(args []string) error {
	v, err := ints(args, 4)
	if err != nil {
		return err
	}
	if len(args) != 4 {
		return errUsage
	}
	return s.doc.Crop(image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]))
}

func (s *Session) rotate(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	switch strings.ToLower(args[0]) {
	case "left", "ccw":
		return s.doc.RotateLeft()
	case "right", "cw":
		return s.doc.RotateRight()
	}
	deg, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid angle %q", args[0])
	}
	return s.doc.Rotate(deg)
}

func (s *Session) flipH(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	return s.doc.FlipHorizontal()
}

func (s *Session) flipV(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	return s.doc.FlipVertical()
}

func (s *Session) resize(args []string) error {
	if len(args) == 1 {
		w, h, ok := strings.Cut(strings.ToLower(args[0]), "x")
		if !ok {
			return errUsage
		}
		args = []string{w, h}
	}
	if len(args) != 2 {
		return errUsage
	}
	v, err := ints(args, 2)
	if err != nil {
		return err
	}
	return s.doc.Resize(v[0], v[1])
}

func (s *Session) text(args []string) error {
	if len(args) < 5 {
		return errUsage
	}
	v, err := ints(args, 2)
	if err != nil {
		return err
	}
	size, err := strconv.ParseFloat(args[2], 64)
	if err != nil || size <= 0 {
		return fmt.Errorf("invalid size %q", args[2])
	}
	col, err := palette.Parse(args[3])
	if err != nil {
		return err
	}
	_, err = s.doc.AddText(strings.Join(args[4:], " "), image.Pt(v[0], v[1]), annotate.Font{Size: size}, col)
	return err
}

func (s *Session) clearText(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	s.doc.ClearText()
	return nil
}

func (s *Session) segment(args []string, maxArgs int) (from, to image.Point, width int, err error) {
	if len(args) < 4 || len(args) > maxArgs {
		return from, to, 0, errUsage
	}
	v, err := ints(args, 4)
	if err != nil {
		return from, to, 0, err
	}
	width = s.width
	if len(args) > 4 {
		if width, err = strconv.Atoi(args[4]); err != nil || width <= 0 {
			return from, to, 0, fmt.Errorf("invalid width %q", args[4])
		}
	}
	return image.Pt(v[0], v[1]), image.Pt(v[2], v[3]), width, nil
}

func (s *Session) stroke(args []string) error {
	from, to, width, err := s.segment(args, 6)
	if err != nil {
		return err
	}
	col := s.color
	if len(args) == 6 {
		if col, err = palette.Parse(args[5]); err != nil {
			return err
		}
	}
	if !s.doc.HasImage() {
		return document.ErrEmptyDocument
	}
	s.doc.SaveState()
	s.doc.PaintStroke(from, to, col, width)
	return nil
}

func (s *Session) erase(args []string) error {
	from, to, width, err := s.segment(args, 5)
	if err != nil {
		return err
	}
	if !s.doc.HasImage() {
		return document.ErrEmptyDocument
	}
	s.doc.SaveState()
	s.doc.EraseStroke(from, to, width)
	return nil
}

func (s *Session) undo(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if !s.doc.Undo() {
		s.printf("nothing to undo")
	}
	return nil
}

func (s *Session) redo(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if !s.doc.Redo() {
		s.printf("nothing to redo")
	}
	return nil
}

func (s *Session) copyImage(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if s.clip == nil {
		return ErrNoClipboard
	}
	img, err := s.doc.ImageForExport()
	if err != nil {
		return err
	}
	if err := s.clip.WriteImage(img); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	s.printf("copied %dx%d image", img.Bounds().Dx(), img.Bounds().Dy())
	if s.notifier != nil {
		s.notifier.Copy("", img)
	}
	return nil
}

func (s *Session) paste(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if s.clip == nil {
		return ErrNoClipboard
	}
	img, err := s.clip.ReadImage()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := s.doc.LoadImage(img); err != nil {
		return err
	}
	s.doc.SetModified(true)
	size := s.doc.Size()
	s.printf("pasted %dx%d image", size.X, size.Y)
	if s.notifier != nil {
		s.notifier.Paste(size)
	}
	return nil
}

func (s *Session) pick(args []string) error {
	v, err := ints(args, 2)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return errUsage
	}
	c, ok := s.doc.Pick(image.Pt(v[0], v[1]))
	if !ok {
		return fmt.Errorf("point %d,%d is outside the image", v[0], v[1])
	}
	s.printf("%s", palette.Describe(c))
	return nil
}

func (s *Session) info(args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	if !s.doc.HasImage() {
		s.printf("no image")
		return nil
	}
	size := s.doc.Size()
	p := s.doc.Params()
	f := s.doc.Filter()
	s.printf("file: %s", s.path)
	s.printf("size: %dx%d", size.X, size.Y)
	s.printf("brightness %d, contrast %d, saturation %d", p.Brightness, p.Contrast, p.Saturation)
	s.printf("filter %s at %d%%", f.Kind, f.Intensity)
	s.printf("text items: %d", len(s.doc.Texts()))
	s.printf("undo %d, redo %d, modified %v", s.doc.History().UndoLen(), s.doc.History().RedoLen(), s.doc.Modified())
	return nil
}
