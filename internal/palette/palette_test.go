package palette

import (
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"red", color.NRGBA{255, 0, 0, 255}},
		{" Crimson ", color.NRGBA{220, 20, 60, 255}},
		{"Lime", color.NRGBA{0, 255, 0, 255}},
		{"#336699", color.NRGBA{0x33, 0x66, 0x99, 255}},
		{"#33669980", color.NRGBA{0x33, 0x66, 0x99, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#zzzzzz", "#112233zz"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded", in)
		}
	}
}

func TestEnsureAddsOnce(t *testing.T) {
	before := len(Colors())
	col := color.NRGBA{1, 2, 3, 255}
	i := Ensure(col, "")
	if j := Ensure(col, "other"); j != i {
		t.Fatalf("second Ensure returned %d, want %d", j, i)
	}
	got := Colors()
	if len(got) != before+1 {
		t.Fatalf("palette grew to %d, want %d", len(got), before+1)
	}
	if got[i].Name != "#010203" {
		t.Fatalf("name = %q", got[i].Name)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		in   color.NRGBA
		want string
	}{
		{color.NRGBA{255, 0, 0, 255}, "#ff0000 hsl(0, 100%, 50%)"},
		{color.NRGBA{128, 128, 128, 255}, "#808080 hsl(0, 0%, 50%)"},
		{color.NRGBA{0, 0, 255, 128}, "#0000ff hsl(240, 100%, 50%) alpha 128"},
	}
	for _, tt := range tests {
		if got := Describe(tt.in); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
