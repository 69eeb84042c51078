package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

const testFNT = `info face="TestFace" size=32 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=36 base=29 scaleW=64 scaleH=32 pages=1 packed=0 alphaChnl=1 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="test_0.png"
chars count=2
char id=66 x=20 y=0 width=18 height=24 xoffset=2 yoffset=5 xadvance=21 page=0 chnl=15
char id=65 x=0 y=0 width=20 height=24 xoffset=1 yoffset=5 xadvance=22 page=0 chnl=15
kernings count=1
kerning first=65 second=66 amount=-2
`

func TestLoadBitmapFont(t *testing.T) {
	dir := t.TempDir()
	fntPath := filepath.Join(dir, "test.fnt")
	if err := os.WriteFile(fntPath, []byte(testFNT), 0o644); err != nil {
		t.Fatal(err)
	}
	page := image.NewRGBA(image.Rect(0, 0, 64, 32))
	page.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	pageFile, err := os.Create(filepath.Join(dir, "test_0.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(pageFile, page); err != nil {
		t.Fatal(err)
	}
	pageFile.Close()

	data, pixels, err := LoadBitmapFont(fntPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data.Face != "TestFace" || data.Size != 32 {
		t.Errorf("unexpected face %q size %d", data.Face, data.Size)
	}
	if data.LineHeight != 36 || data.Baseline != 29 {
		t.Errorf("unexpected metrics line height %d baseline %d", data.LineHeight, data.Baseline)
	}
	if data.AtlasSizeX != 64 || data.AtlasSizeY != 32 {
		t.Errorf("unexpected atlas size %dx%d", data.AtlasSizeX, data.AtlasSizeY)
	}
	if len(data.Glyphs) != 2 {
		t.Fatalf("expected 2 glyphs, got %d", len(data.Glyphs))
	}
	// Glyphs come back sorted regardless of file order.
	if data.Glyphs[0].Codepoint != 'A' || data.Glyphs[1].Codepoint != 'B' {
		t.Errorf("expected glyphs sorted by codepoint, got %q %q", data.Glyphs[0].Codepoint, data.Glyphs[1].Codepoint)
	}
	a := data.Glyphs[0]
	if a.Width != 20 || a.Height != 24 || a.XOffset != 1 || a.YOffset != 5 || a.XAdvance != 22 {
		t.Errorf("unexpected glyph A %+v", a)
	}
	if len(data.Kernings) != 1 || data.Kernings[0].Amount != -2 {
		t.Fatalf("expected one kerning of -2, got %+v", data.Kernings)
	}
	if pixels.Width != 64 || pixels.Height != 32 {
		t.Errorf("expected the page image decoded, got %dx%d", pixels.Width, pixels.Height)
	}
	if pixels.Pixels[0] != 255 {
		t.Errorf("expected the marker pixel decoded, got %d", pixels.Pixels[0])
	}
}

func TestLoadBitmapFontMissingPage(t *testing.T) {
	dir := t.TempDir()
	fntPath := filepath.Join(dir, "orphan.fnt")
	if err := os.WriteFile(fntPath, []byte(testFNT), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadBitmapFont(fntPath); err == nil {
		t.Error("expected a missing page image to fail")
	}
}

func TestGenerateFallbackFontCoversPrintableASCII(t *testing.T) {
	data, pixels := GenerateFallbackFont()

	if len(data.Glyphs) != 95 {
		t.Fatalf("expected 95 printable glyphs, got %d", len(data.Glyphs))
	}
	byCodepoint := make(map[rune]metadata.FontGlyph, len(data.Glyphs))
	for _, glyph := range data.Glyphs {
		byCodepoint[glyph.Codepoint] = glyph
	}
	for ch := rune(' '); ch <= '~'; ch++ {
		if _, ok := byCodepoint[ch]; !ok {
			t.Fatalf("missing glyph for %q", ch)
		}
	}
	letterA := byCodepoint['A']
	if letterA.XAdvance != 7 || letterA.Height != 13 {
		t.Errorf("unexpected cell metrics %+v", letterA)
	}
	if data.LineHeight != 13 || data.Baseline != 11 {
		t.Errorf("unexpected metrics line height %d baseline %d", data.LineHeight, data.Baseline)
	}
	if pixels.Width != uint32(data.AtlasSizeX) || pixels.Height != uint32(data.AtlasSizeY) {
		t.Errorf("atlas size mismatch: %dx%d vs %dx%d", pixels.Width, pixels.Height, data.AtlasSizeX, data.AtlasSizeY)
	}

	drawn := false
	for i := 3; i < len(pixels.Pixels); i += 4 {
		if pixels.Pixels[i] != 0 {
			drawn = true
			break
		}
	}
	if !drawn {
		t.Error("expected at least one glyph pixel drawn into the atlas")
	}
}
