package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// VulkanContext holds the handles every part of the backend needs.
// It is created by the backend at startup and torn down in reverse
// order at shutdown.
type VulkanContext struct {
	// FrameNumber increments once per rendered frame.
	FrameNumber uint64

	// The framebuffer's current width and height.
	FramebufferWidth  uint32
	FramebufferHeight uint32

	// Current generation of framebuffer size. If it does not match
	// FramebufferSizeLastGeneration a new one should be generated.
	FramebufferSizeGeneration uint64

	// The generation of the framebuffer when it was last created.
	// Set to FramebufferSizeGeneration when updated.
	FramebufferSizeLastGeneration uint64

	Instance  vk.Instance
	Surface   vk.Surface
	Device    *VulkanDevice
	Swapchain *VulkanSwapchain

	MainRenderPass *VulkanRenderPass

	GraphicsCommandBuffers []*VulkanCommandBuffer

	ImageAvailableSemaphores []vk.Semaphore
	QueueCompleteSemaphores  []vk.Semaphore

	// UploadSemaphores are signaled by light upload submissions and
	// handed to the presentation engine as extra wait semaphores. One
	// per frame in flight, so at most one upload per frame slot.
	UploadSemaphores []vk.Semaphore

	InFlightFences []*VulkanFence

	// Holds pointers to fences which exist and are owned elsewhere,
	// one per swapchain image.
	ImagesInFlight []*VulkanFence

	ImageIndex   uint32
	CurrentFrame uint32

	RecreatingSwapchain bool

	// Descriptor state shared by every pipeline. Set 0 carries the
	// material table and the sampler array, set 1 the per frame data.
	DescriptorPool            vk.DescriptorPool
	GlobalDescriptorSetLayout vk.DescriptorSetLayout
	FrameDescriptorSetLayout  vk.DescriptorSetLayout
	GlobalDescriptorSet       vk.DescriptorSet
	FrameDescriptorSet        vk.DescriptorSet

	// One pipeline layout shared by the scene, sky and overlay
	// pipelines so descriptor bindings survive pipeline switches.
	PipelineLayout vk.PipelineLayout

	// UniformsBuffer is host visible and stays mapped for the lifetime
	// of the backend. All frames in flight read from the same buffer.
	UniformsBuffer *VulkanBuffer
	// LightsBuffer is device local and refilled through a staging
	// upload whenever the light set changes.
	LightsBuffer *VulkanBuffer
	// MaterialsBuffer is device local and uploaded once per scene.
	MaterialsBuffer *VulkanBuffer

	// Single use transfer command buffers that have been submitted but
	// whose fences have not signaled yet.
	pendingUploads []*pendingUpload

	Allocator *vk.AllocationCallbacks
}

// FindMemoryIndex returns the index of a memory type matching the
// filter and holding all requested property flags.
func (c *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(c.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		memoryType := memoryProperties.MemoryTypes[i]
		memoryType.Deref()
		if typeFilter&(1<<i) == 0 {
			continue
		}
		if memoryType.PropertyFlags&propertyFlags == propertyFlags {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no memory type matches filter 0x%x with flags 0x%x", typeFilter, propertyFlags)
}
