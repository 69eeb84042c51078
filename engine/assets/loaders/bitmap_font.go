package loaders

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// LoadBitmapFont reads an AngelCode .fnt descriptor together with its page
// image. Only single page fonts are supported, which every font exported
// for a HUD sized character set is.
func LoadBitmapFont(path string) (*metadata.FontData, *ImageData, error) {
	loaded, err := bmfont.Load(path)
	if err != nil {
		return nil, nil, err
	}
	desc := loaded.Descriptor
	if len(desc.Pages) != 1 {
		return nil, nil, fmt.Errorf("bitmap font %s has %d pages, only single page fonts are supported", path, len(desc.Pages))
	}

	data := &metadata.FontData{
		Face:       desc.Info.Face,
		Size:       uint32(desc.Info.Size),
		LineHeight: int32(desc.Common.LineHeight),
		Baseline:   int32(desc.Common.Base),
		AtlasSizeX: int32(desc.Common.ScaleW),
		AtlasSizeY: int32(desc.Common.ScaleH),
		Glyphs:     make([]metadata.FontGlyph, 0, len(desc.Chars)),
		Kernings:   make([]metadata.FontKerning, 0, len(desc.Kerning)),
	}
	for _, ch := range desc.Chars {
		data.Glyphs = append(data.Glyphs, metadata.FontGlyph{
			Codepoint: ch.ID,
			X:         uint16(ch.X),
			Y:         uint16(ch.Y),
			Width:     uint16(ch.Width),
			Height:    uint16(ch.Height),
			XOffset:   int16(ch.XOffset),
			YOffset:   int16(ch.YOffset),
			XAdvance:  int16(ch.XAdvance),
		})
	}
	for pair, kerning := range desc.Kerning {
		data.Kernings = append(data.Kernings, metadata.FontKerning{
			Codepoint0: pair.First,
			Codepoint1: pair.Second,
			Amount:     int16(kerning.Amount),
		})
	}
	// Descriptor maps iterate in random order, keep the output stable.
	sort.Slice(data.Glyphs, func(i, j int) bool {
		return data.Glyphs[i].Codepoint < data.Glyphs[j].Codepoint
	})
	sort.Slice(data.Kernings, func(i, j int) bool {
		a, b := data.Kernings[i], data.Kernings[j]
		if a.Codepoint0 != b.Codepoint0 {
			return a.Codepoint0 < b.Codepoint0
		}
		return a.Codepoint1 < b.Codepoint1
	})

	var pageFile string
	for _, page := range desc.Pages {
		pageFile = page.File
	}
	pixels, err := LoadImage(filepath.Join(filepath.Dir(path), pageFile))
	if err != nil {
		return nil, nil, fmt.Errorf("bitmap font %s: %w", path, err)
	}
	return data, pixels, nil
}

// GenerateFallbackFont rasterizes the builtin 7x13 face into an atlas so
// text still renders when no font asset is configured.
func GenerateFallbackFont() (*metadata.FontData, *ImageData) {
	face := basicfont.Face7x13
	const firstChar, lastChar = ' ', '~'
	const columns = 16

	glyphCount := int(lastChar-firstChar) + 1
	rows := (glyphCount + columns - 1) / columns
	cellWidth := face.Advance
	cellHeight := face.Height
	atlasWidth := columns * cellWidth
	atlasHeight := rows * cellHeight

	atlas := image.NewRGBA(image.Rect(0, 0, atlasWidth, atlasHeight))
	drawer := &font.Drawer{Dst: atlas, Src: image.White, Face: face}

	glyphs := make([]metadata.FontGlyph, 0, glyphCount)
	for ch := firstChar; ch <= lastChar; ch++ {
		cell := int(ch - firstChar)
		x := (cell % columns) * cellWidth
		y := (cell / columns) * cellHeight
		drawer.Dot = fixed.P(x, y+face.Ascent)
		drawer.DrawString(string(ch))
		glyphs = append(glyphs, metadata.FontGlyph{
			Codepoint: ch,
			X:         uint16(x),
			Y:         uint16(y),
			Width:     uint16(cellWidth),
			Height:    uint16(cellHeight),
			XAdvance:  int16(cellWidth),
		})
	}

	data := &metadata.FontData{
		Face:       "builtin-7x13",
		Size:       uint32(cellHeight),
		LineHeight: int32(cellHeight),
		Baseline:   int32(face.Ascent),
		AtlasSizeX: int32(atlasWidth),
		AtlasSizeY: int32(atlasHeight),
		Glyphs:     glyphs,
	}
	pixels := &ImageData{
		Width:        uint32(atlasWidth),
		Height:       uint32(atlasHeight),
		ChannelCount: 4,
		Pixels:       atlas.Pix,
	}
	return data, pixels
}
