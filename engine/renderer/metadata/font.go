package metadata

/** @brief A single glyph inside a bitmap font atlas. */
type FontGlyph struct {
	/** @brief The character this glyph renders. */
	Codepoint rune
	/** @brief The x position of the glyph in the atlas. */
	X uint16
	/** @brief The y position of the glyph in the atlas. */
	Y uint16
	/** @brief The width of the glyph in the atlas. */
	Width uint16
	/** @brief The height of the glyph in the atlas. */
	Height uint16
	/** @brief Horizontal offset applied when placing the glyph quad. */
	XOffset int16
	/** @brief Vertical offset from the cursor top to the glyph top. */
	YOffset int16
	/** @brief How far the cursor advances after this glyph. */
	XAdvance int16
}

/** @brief A kerning adjustment applied between two adjacent codepoints. */
type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

/**
 * @brief Glyph layout data for a bitmap font. The atlas pixels are
 * loaded separately and uploaded as a regular texture.
 */
type FontData struct {
	/** @brief The face name. */
	Face string
	/** @brief The size the font was exported at. */
	Size uint32
	/** @brief Vertical distance between two lines of text. */
	LineHeight int32
	/** @brief Distance from the top of a line to the baseline. */
	Baseline int32
	/** @brief The width of the atlas in pixels. */
	AtlasSizeX int32
	/** @brief The height of the atlas in pixels. */
	AtlasSizeY int32
	/** @brief All glyphs of the font, sorted by codepoint. */
	Glyphs []FontGlyph
	/** @brief Kerning pairs, may be empty. */
	Kernings []FontKerning
}
