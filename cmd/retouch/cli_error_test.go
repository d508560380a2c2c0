package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/retouch/internal/codec"
	"github.com/example/retouch/internal/config"
)

type fakeClipboard struct {
	img *image.NRGBA
}

func (c *fakeClipboard) ReadImage() (*image.NRGBA, error) {
	if c.img == nil {
		return nil, errors.New("empty clipboard")
	}
	return c.img, nil
}

func (c *fakeClipboard) WriteImage(img image.Image) error {
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	c.img = out
	return nil
}

func testRoot() *root {
	return &root{program: "retouch", config: config.New()}
}

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	if err := codec.Save(path, whiteImage(w, h)); err != nil {
		t.Fatalf("save input: %v", err)
	}
	return path
}

func TestParseApplyRequiresInput(t *testing.T) {
	_, err := parseApplyCmd([]string{"brightness", "120"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "input file is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseApplyClipboardRequiresOutput(t *testing.T) {
	_, err := parseApplyCmd([]string{"-from-clipboard", "filter invert"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseApplyWithoutCommands(t *testing.T) {
	_, err := parseApplyCmd([]string{"-file", "in.png"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "retouch apply") {
		t.Fatalf("help text missing program name: %q", uerr.Error())
	}
}

func TestSplitCommands(t *testing.T) {
	got := splitCommands([]string{"brightness 120; filter sepia", "rotate right;", " ;"})
	want := []string{"brightness 120", "filter sepia", "rotate right"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("splitCommands = %q, want %q", got, want)
	}
}

func TestApplyRunsCommands(t *testing.T) {
	in := writeTestImage(t, 20, 10)
	out := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseApplyCmd([]string{"-file", in, "-output", out, "brightness 50; rotate right"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout bytes.Buffer
	cmd.stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	img, err := codec.Load(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(10, 20) {
		t.Fatalf("output size = %v, want 10x20", got)
	}
	if c := img.NRGBAAt(3, 3); c.R != 205 || c.G != 205 || c.B != 205 {
		t.Fatalf("pixel = %v, want 205 gray", c)
	}
	if !strings.Contains(stdout.String(), "saved "+out) {
		t.Fatalf("stdout %q does not report the save", stdout.String())
	}
}

func TestApplyPropagatesCommandError(t *testing.T) {
	in := writeTestImage(t, 4, 4)
	cmd, err := parseApplyCmd([]string{"-file", in, "sharpen-everything"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd.stdout = &bytes.Buffer{}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestApplyMissingInputFile(t *testing.T) {
	cmd, err := parseApplyCmd([]string{"-file", filepath.Join(t.TempDir(), "missing.png"), "fliph"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "missing.png") {
		t.Fatalf("expected open error naming the file, got %v", err)
	}
}

func TestApplyClipboardToClipboard(t *testing.T) {
	clip := &fakeClipboard{img: whiteImage(6, 3)}
	cmd, err := parseApplyCmd([]string{"-from-clipboard", "-to-clipboard", "filter invert"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd.clip = clip
	cmd.stdout = &bytes.Buffer{}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := clip.img.NRGBAAt(1, 1); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Fatalf("clipboard pixel = %v, want black", got)
	}
}

func TestInteractiveExecStopsAtExit(t *testing.T) {
	c, err := parseInteractiveCmd([]string{"-e", "new 4 3", "-e", "info", "-e", "exit", "-e", "bogus"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout bytes.Buffer
	c.stdout = &stdout
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "size: 4x3") {
		t.Fatalf("info output missing: %q", stdout.String())
	}
}

func TestInteractiveReadsInput(t *testing.T) {
	c, err := parseInteractiveCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout, stderr bytes.Buffer
	c.stdin = strings.NewReader("new 2 2\nrotate sideways\ninfo\nexit\n")
	c.stdout = &stdout
	c.stderr = &stderr
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "size: 2x2") {
		t.Fatalf("info output missing: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "rotate") {
		t.Fatalf("expected rotate error on stderr, got %q", stderr.String())
	}
}

func TestConfigPrint(t *testing.T) {
	r := testRoot()
	r.config.Theme = "dark"
	r.config.Editor.BrushSize = 7
	c, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout bytes.Buffer
	c.stdout = &stdout
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"theme = dark", "[editor]", "brush_size = 7"} {
		if !strings.Contains(stdout.String(), want) {
			t.Fatalf("config output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestConfigSaveRoundTrips(t *testing.T) {
	r := testRoot()
	r.config.SaveDir = "/tmp/shots"
	c, err := parseConfigCmd([]string{"save"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c.path = filepath.Join(t.TempDir(), "nested", "config.rc")
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	cfg, err := config.NewLoader(version, c.path).Load()
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if cfg.SaveDir != "/tmp/shots" {
		t.Fatalf("SaveDir = %q", cfg.SaveDir)
	}
}

func TestRootUnknownCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := newRoot()
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"Usage: retouch", "apply", "-notify-save"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help missing %q:\n%s", want, help)
		}
	}
}

func TestEditStateLoadsFileAndConfig(t *testing.T) {
	in := writeTestImage(t, 8, 5)
	r := testRoot()
	r.config.Editor.HistoryLimit = 3
	r.config.Editor.FilterIntensity = 40
	e, err := parseEditCmd([]string{in}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st, err := e.state()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Output != in {
		t.Fatalf("Output = %q, want %q", st.Output, in)
	}
	if got := st.Doc.Size(); got != image.Pt(8, 5) {
		t.Fatalf("size = %v", got)
	}
	if got := st.Doc.Filter().Intensity; got != 40 {
		t.Fatalf("filter intensity = %d, want 40", got)
	}
}
