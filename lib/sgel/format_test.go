// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/bureau-foundation/svsviewer/lib/pose"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command Command
		want    string
	}{
		{"save", Save{Path: "/tmp/a b.svs"}, `save "/tmp/a b.svs"`},
		{"save backslash", Save{Path: `C:\scenes`}, `save "C:\\scenes"`},
		{"layer in wire order", Layer{Number: 3, Options: map[LayerOption]int{LayerWireframe: 1, LayerLighting: 0}}, "layer 3 l 0 w 1"},
		{"create scene", CreateScene{Name: "S1"}, "draw +S1"},
		{"create scene with space", CreateScene{Name: "my scene"}, `draw "+my scene"`},
		{"delete scene", DeleteScene{Scene: Wildcard("S*")}, "draw -S*"},
		{"create geometry", CreateGeometry{Scene: Wildcard("S*"), Name: "g"}, "draw S* +g"},
		{"delete geometry", DeleteGeometry{Scene: Wildcard("S1"), Geometry: Wildcard("*")}, "draw S1 -*"},
		{
			"update",
			UpdateGeometry{
				Scene:    Wildcard("S1"),
				Geometry: Wildcard("g"),
				Position: &pose.Vec3{1, -2.5, 0},
				Text:     ptr("hi there"),
				Layer:    ptr(uint32(2)),
			},
			`draw S1 g p 1 -2.5 0 t "hi there" l 2`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := Format(test.command)
			if err != nil {
				t.Fatalf("Format(%s) error: %v", Describe(test.command), err)
			}
			if got != test.want {
				t.Errorf("Format(%s) = %q, want %q", Describe(test.command), got, test.want)
			}
			parsed, err := ParseLine(got)
			if err != nil {
				t.Fatalf("ParseLine(%q) error: %v", got, err)
			}
			if len(parsed) != 1 || !reflect.DeepEqual(parsed[0], test.command) {
				t.Errorf("ParseLine(%q) = %v, want [%s]", got, describeAll(parsed), Describe(test.command))
			}
		})
	}
}

func TestFormatNotExpressible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command Command
	}{
		{"quote in path", Save{Path: `a"b`}},
		{"newline in path", Save{Path: "a\nb"}},
		{"carriage return in text", UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g"), Text: ptr("a\rb")}},
		{"empty layer", Layer{Number: 1}},
		{"exact matcher", DeleteScene{Scene: Exact("S1")}},
		{"name with create prefix", CreateScene{Name: "+S1"}},
		{"pattern with delete prefix", DeleteGeometry{Scene: Wildcard("-x"), Geometry: Wildcard("g")}},
		{"two shapes", UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g"), Radius: ptr(1.0), Text: ptr("t")}},
		{"no fields", UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g")}},
		{"empty vertices", UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g"), Vertices: []Vertex{}}},
		{"layer out of range", UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g"), Layer: ptr(uint32(math.MaxUint32))}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			line, err := Format(test.command)
			if !errors.Is(err, ErrNotExpressible) {
				t.Errorf("Format(%s) = %q, %v; want ErrNotExpressible", Describe(test.command), line, err)
			}
		})
	}
}

func TestFormatQuotesUnicodeSpace(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"hi\u00a0", "\u2003lead", "mid\u0085dle", "tab\vend"} {
		update := UpdateGeometry{Scene: Wildcard("S"), Geometry: Wildcard("g"), Text: ptr(text)}
		line, err := Format(update)
		if err != nil {
			t.Fatalf("Format(text %q) error: %v", text, err)
		}
		parsed, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q) error: %v", line, err)
		}
		if len(parsed) != 1 {
			t.Fatalf("ParseLine(%q) = %v, want one command", line, describeAll(parsed))
		}
		got, ok := parsed[0].(UpdateGeometry)
		if !ok || got.Text == nil || *got.Text != text {
			t.Errorf("round trip of %q lost the text: got %s", line, Describe(parsed[0]))
		}
	}
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	lines := []string{
		"draw +S1 +foo",
		"draw +S1 +ball b 0.25",
		"draw +S1 -g*",
		"draw +S1 g* p 1 2 3",
		"draw S* +box v 0 0 0 1 1 1",
		"draw -S1",
		"layer 4 d 1",
	}

	for _, line := range lines {
		commands, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q) error: %v", line, err)
		}
		got, err := FormatLine(commands)
		if err != nil {
			t.Fatalf("FormatLine(%v) error: %v", describeAll(commands), err)
		}
		if got != line {
			t.Errorf("FormatLine(ParseLine(%q)) = %q", line, got)
		}
	}

	if _, err := FormatLine([]Command{CreateScene{Name: "a"}, CreateScene{Name: "b"}}); !errors.Is(err, ErrNotExpressible) {
		t.Errorf("FormatLine(two creates) error = %v, want ErrNotExpressible", err)
	}
	if _, err := FormatLine(nil); !errors.Is(err, ErrNotExpressible) {
		t.Errorf("FormatLine(nil) error = %v, want ErrNotExpressible", err)
	}
}

// TestFormatRoundTrip checks Parse(Tokenize(Format(c))) == c over
// random updates with exactly one shape field.
func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()

	random := rand.New(rand.NewPCG(7, 11))
	number := func() float64 { return (random.Float64() - 0.5) * math.Pow(10, float64(random.IntN(12)-6)) }
	names := []string{"S1", "scene with spaces", `back\slash`, "g*", "*", "", "ünï"}
	name := func() string { return names[random.IntN(len(names))] }

	for iteration := range 500 {
		update := UpdateGeometry{Scene: Wildcard(name()), Geometry: Wildcard(name())}
		if random.IntN(2) == 0 {
			update.Position = &pose.Vec3{number(), number(), number()}
		}
		if random.IntN(2) == 0 {
			update.Rotation = &pose.Quaternion{number(), number(), number(), number()}
		}
		if random.IntN(2) == 0 {
			update.Scale = &pose.Vec3{number(), number(), number()}
		}
		if random.IntN(2) == 0 {
			update.Color = &pose.Vec3{random.Float64(), random.Float64(), random.Float64()}
		}
		switch random.IntN(3) {
		case 0:
			count := 1 + random.IntN(5)
			for range count {
				update.Vertices = append(update.Vertices, Vertex{number(), number(), number()})
			}
		case 1:
			update.Radius = ptr(number())
		case 2:
			update.Text = ptr(name() + " label")
		}
		if random.IntN(2) == 0 {
			update.Layer = ptr(uint32(random.IntN(1 << 20)))
		}
		if random.IntN(2) == 0 {
			update.LineWidth = ptr(number())
		}

		line, err := Format(update)
		if err != nil {
			t.Fatalf("iteration %d: Format(%s) error: %v", iteration, Describe(update), err)
		}
		parsed, err := ParseLine(line)
		if err != nil {
			t.Fatalf("iteration %d: ParseLine(%q) error: %v", iteration, line, err)
		}
		if len(parsed) != 1 {
			t.Fatalf("iteration %d: ParseLine(%q) = %v, want one command", iteration, line, describeAll(parsed))
		}
		got, ok := parsed[0].(UpdateGeometry)
		if !ok {
			t.Fatalf("iteration %d: ParseLine(%q) returned %T", iteration, line, parsed[0])
		}
		if !updatesClose(got, update, 1e-9) {
			t.Errorf("iteration %d: round trip of %q\n  got  %s\n  want %s", iteration, line, Describe(got), Describe(update))
		}
	}
}

func updatesClose(a, b UpdateGeometry, tolerance float64) bool {
	if a.Scene != b.Scene || a.Geometry != b.Geometry {
		return false
	}
	near := func(x, y float64) bool {
		return math.Abs(x-y) <= tolerance*math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	}
	closeSlice := func(x, y []float64) bool {
		if len(x) != len(y) {
			return false
		}
		for index := range x {
			if !near(x[index], y[index]) {
				return false
			}
		}
		return true
	}
	closePtr := func(x, y *float64) bool {
		if x == nil || y == nil {
			return x == y
		}
		return near(*x, *y)
	}
	vec := func(x, y *pose.Vec3) bool {
		if x == nil || y == nil {
			return x == y
		}
		return closeSlice(x[:], y[:])
	}

	if !vec(a.Position, b.Position) || !vec(a.Scale, b.Scale) || !vec(a.Color, b.Color) {
		return false
	}
	if (a.Rotation == nil) != (b.Rotation == nil) || (a.Rotation != nil && !closeSlice(a.Rotation[:], b.Rotation[:])) {
		return false
	}
	if len(a.Vertices) != len(b.Vertices) || (a.Vertices == nil) != (b.Vertices == nil) {
		return false
	}
	for index := range a.Vertices {
		va, vb := a.Vertices[index], b.Vertices[index]
		if !closeSlice([]float64{va.X, va.Y, va.Z}, []float64{vb.X, vb.Y, vb.Z}) {
			return false
		}
	}
	if !closePtr(a.Radius, b.Radius) || !closePtr(a.LineWidth, b.LineWidth) {
		return false
	}
	if (a.Text == nil) != (b.Text == nil) || (a.Text != nil && *a.Text != *b.Text) {
		return false
	}
	if (a.Layer == nil) != (b.Layer == nil) || (a.Layer != nil && *a.Layer != *b.Layer) {
		return false
	}
	return true
}
