package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/assets/loaders"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

/** @brief The configuration for the font system. */
type FontSystemConfig struct {
	/** @brief Path to an AngelCode .fnt file, empty for the built in face. */
	FontPath string
}

/**
 * @brief Owns the overlay font: its description, its atlas texture and
 * the generation of text geometry in screen space.
 */
type FontSystem struct {
	textures *TextureSystem

	data      *metadata.FontData
	atlas     *metadata.Texture
	atlasName string
	glyphs    map[rune]metadata.FontGlyph
	kernings  map[[2]rune]int16
}

func NewFontSystem(config FontSystemConfig, textures *TextureSystem) (*FontSystem, error) {
	var data *metadata.FontData
	var image *loaders.ImageData

	if config.FontPath != "" {
		loaded, page, err := loaders.LoadBitmapFont(config.FontPath)
		if err != nil {
			core.LogWarn("load font %s: %s, falling back to the built in face", config.FontPath, err)
		} else {
			data, image = loaded, page
		}
	}
	if data == nil {
		data, image = loaders.GenerateFallbackFont()
	}

	fs := &FontSystem{
		textures:  textures,
		data:      data,
		atlasName: fmt.Sprintf("font_atlas_%s", data.Face),
		glyphs:    make(map[rune]metadata.FontGlyph, len(data.Glyphs)),
		kernings:  make(map[[2]rune]int16, len(data.Kernings)),
	}
	for _, glyph := range data.Glyphs {
		fs.glyphs[glyph.Codepoint] = glyph
	}
	for _, kerning := range data.Kernings {
		fs.kernings[[2]rune{kerning.Codepoint0, kerning.Codepoint1}] = kerning.Amount
	}

	atlas, err := textures.CreateFromPixels(fs.atlasName, image.Width, image.Height, image.ChannelCount, image.Pixels)
	if err != nil {
		return nil, fmt.Errorf("create font atlas: %w", err)
	}
	fs.atlas = atlas

	core.LogInfo("font %s ready, %d glyphs", data.Face, len(data.Glyphs))
	return fs, nil
}

/** @brief Returns the atlas texture holding every glyph. */
func (fs *FontSystem) Atlas() *metadata.Texture {
	return fs.atlas
}

/** @brief Returns the vertical advance between text lines, in pixels. */
func (fs *FontSystem) LineHeight() float32 {
	return float32(fs.data.LineHeight)
}

/**
 * @brief Measures the box the given text would cover, in pixels.
 */
func (fs *FontSystem) MeasureString(text string) math.Vec2 {
	var width, lineWidth float32
	height := fs.LineHeight()

	previous := rune(-1)
	for _, r := range text {
		if r == '\n' {
			if lineWidth > width {
				width = lineWidth
			}
			lineWidth = 0
			height += fs.LineHeight()
			previous = -1
			continue
		}
		glyph, ok := fs.lookupGlyph(r)
		if !ok {
			continue
		}
		lineWidth += float32(glyph.XAdvance) + float32(fs.kernAmount(previous, r))
		previous = r
	}
	if lineWidth > width {
		width = lineWidth
	}
	return math.NewVec2(width, height)
}

/**
 * @brief Builds one textured quad per visible character of the text,
 * with (x, y) the top left corner of the first line in screen pixels.
 * Vertices index into the font atlas, four per quad with six indices.
 */
func (fs *FontSystem) GenerateText(text string, x, y float32) ([]math.Vertex2D, []uint32) {
	vertices := make([]math.Vertex2D, 0, len(text)*4)
	indices := make([]uint32, 0, len(text)*6)

	penX, penY := x, y
	previous := rune(-1)
	for _, r := range text {
		switch r {
		case '\n':
			penX = x
			penY += fs.LineHeight()
			previous = -1
			continue
		case '\t':
			if glyph, ok := fs.lookupGlyph(' '); ok {
				penX += float32(glyph.XAdvance) * 4
			}
			previous = -1
			continue
		}

		glyph, ok := fs.lookupGlyph(r)
		if !ok {
			continue
		}
		penX += float32(fs.kernAmount(previous, r))

		minX := penX + float32(glyph.XOffset)
		minY := penY + float32(glyph.YOffset)
		maxX := minX + float32(glyph.Width)
		maxY := minY + float32(glyph.Height)

		uMin := float32(glyph.X) / float32(fs.data.AtlasSizeX)
		vMin := float32(glyph.Y) / float32(fs.data.AtlasSizeY)
		uMax := float32(glyph.X+glyph.Width) / float32(fs.data.AtlasSizeX)
		vMax := float32(glyph.Y+glyph.Height) / float32(fs.data.AtlasSizeY)

		base := uint32(len(vertices))
		vertices = append(vertices,
			math.Vertex2D{Position: math.NewVec2(minX, minY), Texcoord: math.NewVec2(uMin, vMin)},
			math.Vertex2D{Position: math.NewVec2(maxX, maxY), Texcoord: math.NewVec2(uMax, vMax)},
			math.Vertex2D{Position: math.NewVec2(minX, maxY), Texcoord: math.NewVec2(uMin, vMax)},
			math.Vertex2D{Position: math.NewVec2(maxX, minY), Texcoord: math.NewVec2(uMax, vMin)},
		)
		indices = append(indices, base, base+1, base+2, base, base+3, base+1)

		penX += float32(glyph.XAdvance)
		previous = r
	}
	return vertices, indices
}

func (fs *FontSystem) lookupGlyph(r rune) (metadata.FontGlyph, bool) {
	if glyph, ok := fs.glyphs[r]; ok {
		return glyph, true
	}
	glyph, ok := fs.glyphs['?']
	return glyph, ok
}

func (fs *FontSystem) kernAmount(previous, current rune) int16 {
	if previous < 0 {
		return 0
	}
	return fs.kernings[[2]rune{previous, current}]
}

func (fs *FontSystem) Shutdown() error {
	if fs.atlas != nil {
		fs.textures.Release(fs.atlasName)
		fs.atlas = nil
	}
	return nil
}
