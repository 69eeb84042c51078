package math

/**
 * @brief A 2-element vector.
 */
type Vec2 struct {
	X, Y float32
}

/**
 * @brief A 3-element vector.
 */
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief A 4-element vector.
 */
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion struct {
	X, Y, Z, W float32
}

/**
 * @brief A 4x4 column-major matrix, typically used to represent object transformations.
 * Data is laid out so that Data[col*4+row] addresses a single element, which matches
 * the std140 layout a shader expects for a mat4.
 */
type Mat4 struct {
	Data [16]float32
}

/**
 * @brief Represents the extents of a 3D object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/**
 * @brief Represents a single vertex in 3D space.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The normal of the vertex. */
	Normal Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}

/**
 * @brief Represents a single vertex in 2D space.
 */
type Vertex2D struct {
	/** @brief The position of the vertex */
	Position Vec2
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
}
