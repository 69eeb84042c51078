package metadata

/**
 * @brief Configuration used to build a render pipeline. The shader files
 * name compiled SPIR-V binaries relative to the assets directory.
 */
type PipelineConfig struct {
	/** @brief The unique pipeline name. */
	Name string
	/** @brief The compiled vertex shader file. */
	VertexShaderFile string
	/** @brief The compiled fragment shader file. */
	FragmentShaderFile string
	/** @brief The vertex input layout the pipeline consumes. */
	Layout VertexLayout
	/** @brief The face culling mode. */
	CullMode FaceCullMode
	/** @brief Enables the depth test. */
	DepthTest bool
	/** @brief Enables depth writes. */
	DepthWrite bool
	/** @brief Enables alpha blending on the colour attachment. */
	Blend bool
}
