package vulkan

const (
	// VULKAN_MAX_MATERIAL_COUNT is the capacity of the material storage
	// buffer shared by all pipelines.
	VULKAN_MAX_MATERIAL_COUNT uint32 = 1024
	// VULKAN_MAX_GEOMETRY_COUNT bounds the geometry table. Must be a
	// power of two.
	VULKAN_MAX_GEOMETRY_COUNT uint32 = 4096
	// VULKAN_MAX_SAMPLER_COUNT is the size of the combined image
	// sampler array in the global descriptor set. Unused slots point at
	// the default texture.
	VULKAN_MAX_SAMPLER_COUNT uint32 = 256
	// VULKAN_MAX_PENDING_UPLOADS bounds in flight single use transfer
	// command buffers before uploads start blocking.
	VULKAN_MAX_PENDING_UPLOADS = 64
	// VULKAN_FRAME_UNIFORMS_SIZE is the byte size of the frame uniform
	// buffer. Larger than any frame uniform block the shaders declare.
	VULKAN_FRAME_UNIFORMS_SIZE = 256
	// Capacity of the per frame overlay vertex and index buffers.
	VULKAN_MAX_OVERLAY_VERTEX_COUNT = 16384
	VULKAN_MAX_OVERLAY_INDEX_COUNT  = 24576
)
