package systems

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// testFontSystem builds a font system around a tiny hand written face,
// skipping the atlas upload that needs a live renderer.
func testFontSystem() *FontSystem {
	data := &metadata.FontData{
		Face:       "test",
		Size:       16,
		LineHeight: 20,
		Baseline:   15,
		AtlasSizeX: 128,
		AtlasSizeY: 64,
		Glyphs: []metadata.FontGlyph{
			{Codepoint: ' ', XAdvance: 5},
			{Codepoint: '?', X: 40, Y: 0, Width: 8, Height: 12, YOffset: 2, XAdvance: 9},
			{Codepoint: 'A', X: 0, Y: 16, Width: 10, Height: 12, XOffset: 1, YOffset: 2, XAdvance: 11},
			{Codepoint: 'B', X: 16, Y: 16, Width: 8, Height: 12, YOffset: 2, XAdvance: 10},
		},
		Kernings: []metadata.FontKerning{
			{Codepoint0: 'A', Codepoint1: 'B', Amount: -2},
		},
	}

	fs := &FontSystem{
		data:     data,
		glyphs:   make(map[rune]metadata.FontGlyph, len(data.Glyphs)),
		kernings: make(map[[2]rune]int16, len(data.Kernings)),
	}
	for _, glyph := range data.Glyphs {
		fs.glyphs[glyph.Codepoint] = glyph
	}
	for _, kerning := range data.Kernings {
		fs.kernings[[2]rune{kerning.Codepoint0, kerning.Codepoint1}] = kerning.Amount
	}
	return fs
}

func TestGenerateTextBuildsOneQuadPerGlyph(t *testing.T) {
	fs := testFontSystem()

	vertices, indices := fs.GenerateText("A", 100, 50)

	if len(vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(vertices))
	}
	if len(indices) != 6 {
		t.Fatalf("expected 6 indices, got %d", len(indices))
	}

	// The glyph offsets shift the quad off the pen position.
	floatNear(t, vertices[0].Position.X, 101)
	floatNear(t, vertices[0].Position.Y, 52)
	floatNear(t, vertices[1].Position.X, 111)
	floatNear(t, vertices[1].Position.Y, 64)

	// Texture coordinates map into the atlas.
	floatNear(t, vertices[0].Texcoord.X, 0)
	floatNear(t, vertices[0].Texcoord.Y, 0.25)
	floatNear(t, vertices[1].Texcoord.X, 10.0/128.0)
	floatNear(t, vertices[1].Texcoord.Y, 28.0/64.0)

	wantIndices := []uint32{0, 1, 2, 0, 3, 1}
	for i, want := range wantIndices {
		if indices[i] != want {
			t.Errorf("index %d: expected %d, got %d", i, want, indices[i])
		}
	}
}

func TestGenerateTextAppliesKerning(t *testing.T) {
	fs := testFontSystem()

	vertices, indices := fs.GenerateText("AB", 0, 0)

	if len(vertices) != 8 {
		t.Fatalf("expected 8 vertices, got %d", len(vertices))
	}
	if len(indices) != 12 {
		t.Fatalf("expected 12 indices, got %d", len(indices))
	}

	// B starts at the A advance of 11 minus the kerning of 2.
	floatNear(t, vertices[4].Position.X, 9)

	if indices[6] != 4 || indices[7] != 5 || indices[8] != 6 {
		t.Errorf("expected the second quad to index its own vertices, got %v", indices[6:12])
	}
}

func TestGenerateTextHandlesNewlineAndTab(t *testing.T) {
	fs := testFontSystem()

	vertices, _ := fs.GenerateText("A\nB", 10, 0)
	if len(vertices) != 8 {
		t.Fatalf("expected 8 vertices, got %d", len(vertices))
	}
	// The newline returns the pen to the left edge one line down.
	floatNear(t, vertices[4].Position.X, 10)
	floatNear(t, vertices[4].Position.Y, 22)

	vertices, _ = fs.GenerateText("\tA", 0, 0)
	if len(vertices) != 4 {
		t.Fatalf("expected the tab to produce no quad, got %d vertices", len(vertices))
	}
	// A tab advances by four space widths.
	floatNear(t, vertices[0].Position.X, 21)
}

func TestGenerateTextFallsBackToQuestionMark(t *testing.T) {
	fs := testFontSystem()

	vertices, _ := fs.GenerateText("Z", 0, 0)

	if len(vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(vertices))
	}
	floatNear(t, vertices[0].Texcoord.X, 40.0/128.0)
}

func TestMeasureString(t *testing.T) {
	fs := testFontSystem()

	size := fs.MeasureString("AB")
	floatNear(t, size.X, 19)
	floatNear(t, size.Y, 20)

	size = fs.MeasureString("A\nAB")
	floatNear(t, size.X, 19)
	floatNear(t, size.Y, 40)

	size = fs.MeasureString("")
	floatNear(t, size.X, 0)
	floatNear(t, size.Y, 20)
}
