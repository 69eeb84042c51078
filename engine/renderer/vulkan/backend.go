package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/platform"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// VulkanBackendConfig carries the renderer settings resolved from the
// application configuration.
type VulkanBackendConfig struct {
	PresentMode     string
	FramesInFlight  uint32
	SwapchainImages uint32
	Debug           bool
}

type VulkanRenderer struct {
	platform *platform.Platform
	context  *VulkanContext
	config   VulkanBackendConfig

	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	debugMessenger vk.DebugReportCallback

	pipelines map[string]*VulkanPipeline

	geometries     map[uint32]*VulkanGeometryData
	nextGeometryID uint32

	nextSamplerSlot    int32
	freeSamplerSlots   []int32
	defaultTextureData *VulkanTextureData

	overlayVertexBuffers []*VulkanBuffer
	overlayIndexBuffers  []*VulkanBuffer

	// Extra semaphores presentation must wait on this frame, collected
	// from in flight uploads.
	presentWaits            []vk.Semaphore
	lightsUploadedThisFrame bool
}

// The per draw data handed to the shaders. The matrix carries the model
// transform, except for the overlay pipeline which packs the screen
// projection into it. The size must stay in sync with PushConstantsSize.
type pushConstants struct {
	Model         math.Mat4
	MaterialIndex int32
	_             [3]int32
}

func New(p *platform.Platform, config VulkanBackendConfig) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		config:   config,
		context: &VulkanContext{
			Allocator: nil,
		},
		pipelines:  make(map[string]*VulkanPipeline),
		geometries: make(map[uint32]*VulkanGeometryData),
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return errors.New("vkGetInstanceProcAddr is nil, no Vulkan loader available")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize Vulkan: %w", err)
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Lumina Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredInstanceExtensions()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}
	if vr.config.Debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
	}
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	var validationLayers []string
	if vr.config.Debug {
		validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
		if err := verifyValidationLayers(validationLayers); err != nil {
			return err
		}
	}
	createInfo.EnabledLayerCount = uint32(len(validationLayers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(validationLayers)

	if result := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateInstance failed with %s", VulkanResultString(result))
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		return fmt.Errorf("failed to load instance procedures: %w", err)
	}
	core.LogInfo("Vulkan instance created")

	if vr.config.Debug {
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var messenger vk.DebugReportCallback
		if result := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, vr.context.Allocator, &messenger); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkCreateDebugReportCallbackEXT failed with %s", VulkanResultString(result))
		}
		vr.debugMessenger = messenger
	}

	surface, err := vr.createVulkanSurface()
	if err != nil {
		return err
	}
	vr.context.Surface = surface

	if err := DeviceCreate(vr.context); err != nil {
		return err
	}

	swapchain, err := SwapchainCreate(vr.context, vr.context.FramebufferWidth, vr.context.FramebufferHeight,
		VulkanSwapchainConfig{
			PreferredImageCount: vr.config.SwapchainImages,
			FramesInFlight:      vr.config.FramesInFlight,
			PresentMode:         vr.config.PresentMode,
		})
	if err != nil {
		return err
	}
	vr.context.Swapchain = swapchain
	vr.context.FramebufferWidth = swapchain.Extent.Width
	vr.context.FramebufferHeight = swapchain.Extent.Height

	renderpass, err := RenderPassCreate(vr.context,
		0, 0, float32(vr.context.FramebufferWidth), float32(vr.context.FramebufferHeight),
		0.0, 0.0, 0.2, 1.0,
		1.0, 0)
	if err != nil {
		return err
	}
	vr.context.MainRenderPass = renderpass

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}
	if err := vr.createCommandBuffers(); err != nil {
		return err
	}
	if err := vr.createFrameSyncObjects(); err != nil {
		return err
	}
	vr.context.ImagesInFlight = make([]*VulkanFence, vr.context.Swapchain.ImageCount)

	if err := DescriptorStateCreate(vr.context); err != nil {
		return err
	}
	if err := vr.createFrameDataBuffers(); err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized")
	return nil
}

func (vr *VulkanRenderer) createFrameDataBuffers() error {
	// One uniforms buffer shared by every frame in flight, persistently
	// mapped so frame state is a plain memory write.
	uniforms, err := BufferCreate(vr.context, VULKAN_FRAME_UNIFORMS_SIZE,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	if _, err := uniforms.Map(vr.context); err != nil {
		return err
	}
	vr.context.UniformsBuffer = uniforms
	WriteBufferDescriptor(vr.context, vr.context.FrameDescriptorSet, 0, vk.DescriptorTypeUniformBuffer, uniforms)

	// The light table lives in device local memory and is refilled
	// through staging copies when the light set changes.
	lightsSize := vk.DeviceSize(unsafe.Sizeof(metadata.LightRanges{})) +
		vk.DeviceSize(metadata.MaxLightsources)*vk.DeviceSize(unsafe.Sizeof(metadata.LightShaderData{}))
	lights, err := BufferCreate(vr.context, lightsSize,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit|vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return err
	}
	vr.context.LightsBuffer = lights
	WriteBufferDescriptor(vr.context, vr.context.FrameDescriptorSet, 1, vk.DescriptorTypeUniformBuffer, lights)

	// Material table placeholder so the descriptor is valid before the
	// first scene load.
	if err := vr.SetMaterials(make([]byte, unsafe.Sizeof(metadata.MaterialShaderData{}))); err != nil {
		return err
	}

	vertexBufferSize := vk.DeviceSize(VULKAN_MAX_OVERLAY_VERTEX_COUNT) * vk.DeviceSize(unsafe.Sizeof(math.Vertex2D{}))
	indexBufferSize := vk.DeviceSize(VULKAN_MAX_OVERLAY_INDEX_COUNT) * 4
	for i := uint32(0); i < vr.context.Swapchain.MaxFramesInFlight; i++ {
		vertexBuffer, err := BufferCreate(vr.context, vertexBufferSize,
			vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			return err
		}
		if _, err := vertexBuffer.Map(vr.context); err != nil {
			return err
		}
		indexBuffer, err := BufferCreate(vr.context, indexBufferSize,
			vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit),
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
		if err != nil {
			return err
		}
		if _, err := indexBuffer.Map(vr.context); err != nil {
			return err
		}
		vr.overlayVertexBuffers = append(vr.overlayVertexBuffers, vertexBuffer)
		vr.overlayIndexBuffers = append(vr.overlayIndexBuffers, indexBuffer)
	}
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	context := vr.context
	device := context.Device

	vk.DeviceWaitIdle(device.LogicalDevice)
	context.ReapUploads(true)

	for _, geometry := range vr.geometries {
		geometry.Destroy(context)
	}
	vr.geometries = map[uint32]*VulkanGeometryData{}

	for _, pipeline := range vr.pipelines {
		pipeline.Destroy(context)
	}
	vr.pipelines = map[string]*VulkanPipeline{}

	for _, buffer := range vr.overlayVertexBuffers {
		buffer.Destroy(context)
	}
	for _, buffer := range vr.overlayIndexBuffers {
		buffer.Destroy(context)
	}
	vr.overlayVertexBuffers = nil
	vr.overlayIndexBuffers = nil

	if context.MaterialsBuffer != nil {
		context.MaterialsBuffer.Destroy(context)
		context.MaterialsBuffer = nil
	}
	if context.LightsBuffer != nil {
		context.LightsBuffer.Destroy(context)
		context.LightsBuffer = nil
	}
	if context.UniformsBuffer != nil {
		context.UniformsBuffer.Destroy(context)
		context.UniformsBuffer = nil
	}

	DescriptorStateDestroy(context)
	vr.destroyFrameSyncObjects()
	context.ImagesInFlight = nil

	for _, commandBuffer := range context.GraphicsCommandBuffers {
		if commandBuffer.Handle != nil {
			CommandBufferFree(context, device.GraphicsCommandPool, commandBuffer)
		}
	}
	context.GraphicsCommandBuffers = nil

	context.MainRenderPass.Destroy(context)
	context.Swapchain.Destroy(context)

	DeviceDestroy(context)

	if context.Surface != vk.NullSurface {
		vk.DestroySurface(context.Instance, context.Surface, context.Allocator)
		context.Surface = vk.NullSurface
	}
	if vr.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(context.Instance, vr.debugMessenger, context.Allocator)
		vr.debugMessenger = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(context.Instance, context.Allocator)
	context.Instance = nil

	core.LogInfo("Vulkan renderer shut down")
	return nil
}

// Resized stores the new size. The swapchain is recreated lazily at the
// start of the next frame.
func (vr *VulkanRenderer) Resized(width, height uint32) {
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++
}

// BeginFrame waits for the frame slot, acquires a swapchain image and
// opens the render pass. Returns core.ErrSwapchainOutOfDate when the
// frame must be skipped because the swapchain changed under us.
func (vr *VulkanRenderer) BeginFrame(deltaTime float64) error {
	context := vr.context
	device := context.Device
	vr.lightsUploadedThisFrame = false

	if context.RecreatingSwapchain {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
		}
		return core.ErrSwapchainOutOfDate
	}

	if context.FramebufferSizeGeneration != context.FramebufferSizeLastGeneration {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
		}
		if err := vr.recreateSwapchain(); err != nil {
			return err
		}
		return core.ErrSwapchainOutOfDate
	}

	if !context.InFlightFences[context.CurrentFrame].Wait(context, ^uint64(0)) {
		return errors.New("in flight fence wait failed")
	}
	context.ReapUploads(false)

	imageIndex, err := context.Swapchain.AcquireNextImageIndex(context, ^uint64(0),
		context.ImageAvailableSemaphores[context.CurrentFrame], vk.NullFence)
	if err != nil {
		if errors.Is(err, core.ErrSwapchainOutOfDate) {
			if recreateErr := vr.recreateSwapchain(); recreateErr != nil {
				return recreateErr
			}
		}
		return err
	}
	context.ImageIndex = imageIndex

	commandBuffer := context.GraphicsCommandBuffers[imageIndex]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	// Y is not flipped here, the projection matrix already handles the
	// coordinate convention.
	viewport := vk.Viewport{
		X: 0, Y: 0,
		Width:    float32(context.FramebufferWidth),
		Height:   float32(context.FramebufferHeight),
		MinDepth: 0,
		MaxDepth: 1,
	}
	scissor := vk.Rect2D{
		Extent: vk.Extent2D{Width: context.FramebufferWidth, Height: context.FramebufferHeight},
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	context.MainRenderPass.W = float32(context.FramebufferWidth)
	context.MainRenderPass.H = float32(context.FramebufferHeight)
	context.MainRenderPass.Begin(commandBuffer, context.Swapchain.Framebuffers[imageIndex].Handle)

	return nil
}

// EndFrame closes the render pass, submits the frame and queues it for
// presentation. Presentation waits on the render completion semaphore
// plus every semaphore collected through AddPresentWait.
func (vr *VulkanRenderer) EndFrame() error {
	context := vr.context
	device := context.Device
	commandBuffer := context.GraphicsCommandBuffers[context.ImageIndex]

	context.MainRenderPass.End(commandBuffer)
	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Another frame slot may still be rendering into this image.
	if context.ImagesInFlight[context.ImageIndex] != nil {
		context.ImagesInFlight[context.ImageIndex].Wait(context, ^uint64(0))
	}
	context.ImagesInFlight[context.ImageIndex] = context.InFlightFences[context.CurrentFrame]

	if err := context.InFlightFences[context.CurrentFrame].Reset(context); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{context.QueueCompleteSemaphores[context.CurrentFrame]},
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{context.ImageAvailableSemaphores[context.CurrentFrame]},
		// Depth runs before color output, so the acquired image must be
		// available before the earliest attachment access.
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit),
		},
	}
	err := lockPool.SafeQueueCall(uint32(device.GraphicsQueueIndex), func() error {
		if result := vk.QueueSubmit(device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo},
			context.InFlightFences[context.CurrentFrame].Handle); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkQueueSubmit failed with %s", VulkanResultString(result))
		}
		return nil
	})
	if err != nil {
		return err
	}
	commandBuffer.UpdateSubmitted()

	waits := make([]vk.Semaphore, 0, len(vr.presentWaits)+1)
	waits = append(waits, context.QueueCompleteSemaphores[context.CurrentFrame])
	waits = append(waits, vr.presentWaits...)
	vr.presentWaits = vr.presentWaits[:0]

	if err := context.Swapchain.Present(context, waits, context.ImageIndex); err != nil {
		if !errors.Is(err, core.ErrSwapchainOutOfDate) {
			return err
		}
		if recreateErr := vr.recreateSwapchain(); recreateErr != nil {
			return recreateErr
		}
	}

	context.CurrentFrame = (context.CurrentFrame + 1) % context.Swapchain.MaxFramesInFlight
	context.FrameNumber++
	return nil
}

// AddPresentWait defers presentation until the given semaphore signals.
// Consumed by the next EndFrame.
func (vr *VulkanRenderer) AddPresentWait(semaphore vk.Semaphore) {
	vr.presentWaits = append(vr.presentWaits, semaphore)
}

// WriteFrameUniforms stores the packed frame state. Every frame in
// flight reads the same buffer, so the write lands in whatever frames
// the device has not finished yet.
func (vr *VulkanRenderer) WriteFrameUniforms(data []byte) error {
	return vr.context.UniformsBuffer.LoadData(vr.context, 0, data)
}

// UploadLights schedules a staging copy into the light table and
// returns the semaphore the copy signals. The caller must register the
// semaphore as a present wait so the frame is not shown with a half
// written table. Valid once per frame, between BeginFrame and EndFrame.
func (vr *VulkanRenderer) UploadLights(data []byte) (vk.Semaphore, error) {
	if vr.lightsUploadedThisFrame {
		return vk.NullSemaphore, errors.New("lights were already uploaded this frame")
	}
	semaphore := vr.context.UploadSemaphores[vr.context.CurrentFrame]
	if err := vr.context.LightsBuffer.UploadWithSignal(vr.context, data, semaphore); err != nil {
		return vk.NullSemaphore, err
	}
	vr.lightsUploadedThisFrame = true
	return semaphore, nil
}

// SetMaterials replaces the material table. The device is drained
// first, so this belongs in scene loading, not the frame loop.
func (vr *VulkanRenderer) SetMaterials(data []byte) error {
	count := len(data) / int(unsafe.Sizeof(metadata.MaterialShaderData{}))
	if count > int(VULKAN_MAX_MATERIAL_COUNT) {
		return fmt.Errorf("%d materials exceed the table capacity of %d", count, VULKAN_MAX_MATERIAL_COUNT)
	}
	if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	buffer, err := UploadToDeviceLocal(vr.context, data, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))
	if err != nil {
		return err
	}
	if vr.context.MaterialsBuffer != nil {
		vr.context.MaterialsBuffer.Destroy(vr.context)
	}
	vr.context.MaterialsBuffer = buffer
	WriteBufferDescriptor(vr.context, vr.context.GlobalDescriptorSet, 0, vk.DescriptorTypeStorageBuffer, buffer)
	return nil
}

// CreateTexture uploads the pixels and binds the texture into the
// sampler array. A texture with a slot already assigned keeps it, which
// is what makes hot reloading transparent to materials.
func (vr *VulkanRenderer) CreateTexture(texture *metadata.Texture, textureMap *metadata.TextureMap, pixels []uint8) error {
	var old *VulkanTextureData
	if data, ok := texture.InternalData.(*VulkanTextureData); ok {
		old = data
	}

	data, err := TextureCreate(vr.context, texture, textureMap, pixels)
	if err != nil {
		return err
	}

	if texture.SamplerIndex < 0 {
		if len(vr.freeSamplerSlots) > 0 {
			texture.SamplerIndex = vr.freeSamplerSlots[len(vr.freeSamplerSlots)-1]
			vr.freeSamplerSlots = vr.freeSamplerSlots[:len(vr.freeSamplerSlots)-1]
		} else {
			if vr.nextSamplerSlot >= int32(VULKAN_MAX_SAMPLER_COUNT) {
				data.Destroy(vr.context)
				return fmt.Errorf("sampler array is full, %d slots in use", vr.nextSamplerSlot)
			}
			texture.SamplerIndex = vr.nextSamplerSlot
			vr.nextSamplerSlot++
		}
	}

	if old != nil {
		if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
			data.Destroy(vr.context)
			return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
		}
	}
	texture.InternalData = data
	WriteSamplerSlot(vr.context, uint32(texture.SamplerIndex), data.Image.View, data.Sampler)
	if old != nil {
		old.Destroy(vr.context)
	}
	return nil
}

func (vr *VulkanRenderer) DestroyTexture(texture *metadata.Texture) error {
	data, ok := texture.InternalData.(*VulkanTextureData)
	if !ok || data == nil {
		return nil
	}
	if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	if texture.SamplerIndex >= 0 && vr.defaultTextureData != nil && data != vr.defaultTextureData {
		// Point the released slot back at the default texture.
		WriteSamplerSlot(vr.context, uint32(texture.SamplerIndex), vr.defaultTextureData.Image.View, vr.defaultTextureData.Sampler)
		vr.freeSamplerSlots = append(vr.freeSamplerSlots, texture.SamplerIndex)
	}
	texture.SamplerIndex = -1
	data.Destroy(vr.context)
	texture.InternalData = nil
	return nil
}

// ApplyDefaultTexture points every slot of the sampler array at the
// given texture. Must run right after the default texture is created,
// before anything else takes a slot.
func (vr *VulkanRenderer) ApplyDefaultTexture(texture *metadata.Texture) error {
	data, ok := texture.InternalData.(*VulkanTextureData)
	if !ok || data == nil {
		return errors.New("default texture has no backend data")
	}
	vr.defaultTextureData = data
	FillSamplerSlots(vr.context, data.Image.View, data.Sampler)
	return nil
}

func (vr *VulkanRenderer) CreateGeometry(geometry *metadata.Geometry, vertices []math.Vertex3D, indices []uint32) error {
	data, err := GeometryCreate(vr.context, vertices, indices)
	if err != nil {
		return err
	}
	vr.nextGeometryID++
	data.ID = vr.nextGeometryID
	vr.geometries[data.ID] = data

	geometry.InternalID = data.ID
	geometry.IndexCount = data.IndexCount
	return nil
}

func (vr *VulkanRenderer) DestroyGeometry(geometry *metadata.Geometry) error {
	data, ok := vr.geometries[geometry.InternalID]
	if !ok {
		return nil
	}
	if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	data.Destroy(vr.context)
	delete(vr.geometries, geometry.InternalID)
	geometry.InternalID = 0
	return nil
}

func (vr *VulkanRenderer) CreatePipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error {
	if _, exists := vr.pipelines[config.Name]; exists {
		return vr.ReloadPipeline(config, vertexSPV, fragmentSPV)
	}
	pipeline, err := PipelineCreate(vr.context, config, vertexSPV, fragmentSPV)
	if err != nil {
		return err
	}
	vr.pipelines[config.Name] = pipeline
	core.LogDebug("pipeline %s created", config.Name)
	return nil
}

// ReloadPipeline swaps a pipeline for a freshly built one. The old
// pipeline stays active if the new one fails to build, which keeps a
// broken shader edit from taking the renderer down.
func (vr *VulkanRenderer) ReloadPipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error {
	replacement, err := PipelineCreate(vr.context, config, vertexSPV, fragmentSPV)
	if err != nil {
		return err
	}
	if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		replacement.Destroy(vr.context)
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	if old, ok := vr.pipelines[config.Name]; ok {
		old.Destroy(vr.context)
	}
	vr.pipelines[config.Name] = replacement
	core.LogInfo("pipeline %s reloaded", config.Name)
	return nil
}

// UsePipeline binds the named pipeline and the shared descriptor sets
// on the current command buffer.
func (vr *VulkanRenderer) UsePipeline(name string) error {
	pipeline, ok := vr.pipelines[name]
	if !ok {
		return fmt.Errorf("unknown pipeline %q", name)
	}
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]
	pipeline.Bind(commandBuffer)
	vk.CmdBindDescriptorSets(commandBuffer.Handle, vk.PipelineBindPointGraphics, vr.context.PipelineLayout,
		0, 2, []vk.DescriptorSet{vr.context.GlobalDescriptorSet, vr.context.FrameDescriptorSet}, 0, nil)
	return nil
}

func (vr *VulkanRenderer) DrawGeometry(data metadata.GeometryRenderData) error {
	geometry, ok := vr.geometries[data.Geometry.InternalID]
	if !ok {
		return fmt.Errorf("geometry %s has no backend data", data.Geometry.Name)
	}
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]

	constants := pushConstants{
		Model:         data.Model,
		MaterialIndex: data.MaterialIndex,
	}
	vk.CmdPushConstants(commandBuffer.Handle, vr.context.PipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit),
		0, PushConstantsSize, unsafe.Pointer(&constants))

	geometry.Draw(commandBuffer)
	return nil
}

// DrawSky rasterizes the sky geometry using only its position stream.
// The shader reconstructs the view direction, so the push constants
// carry an identity model.
func (vr *VulkanRenderer) DrawSky(data *metadata.SkyRenderData) error {
	geometry, ok := vr.geometries[data.Geometry.InternalID]
	if !ok {
		return fmt.Errorf("sky geometry %s has no backend data", data.Geometry.Name)
	}
	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]

	constants := pushConstants{
		Model:         math.NewMat4Identity(),
		MaterialIndex: -1,
	}
	vk.CmdPushConstants(commandBuffer.Handle, vr.context.PipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit),
		0, PushConstantsSize, unsafe.Pointer(&constants))

	geometry.DrawPositionsOnly(commandBuffer)
	return nil
}

// DrawOverlay refills the overlay buffers of the current frame slot and
// draws the screen space geometry. The push constant matrix carries the
// pixel space projection and the material index the atlas slot.
func (vr *VulkanRenderer) DrawOverlay(overlay *metadata.OverlayRenderData) error {
	if len(overlay.Vertices) == 0 || len(overlay.Indices) == 0 {
		return nil
	}
	if len(overlay.Vertices) > VULKAN_MAX_OVERLAY_VERTEX_COUNT || len(overlay.Indices) > VULKAN_MAX_OVERLAY_INDEX_COUNT {
		core.LogWarn("overlay with %d vertices and %d indices exceeds buffer capacity, skipping",
			len(overlay.Vertices), len(overlay.Indices))
		return nil
	}

	frame := vr.context.CurrentFrame
	vertexBuffer := vr.overlayVertexBuffers[frame]
	indexBuffer := vr.overlayIndexBuffers[frame]

	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&overlay.Vertices[0])),
		len(overlay.Vertices)*int(unsafe.Sizeof(math.Vertex2D{})))
	if err := vertexBuffer.LoadData(vr.context, 0, vertexBytes); err != nil {
		return err
	}
	if err := indexBuffer.LoadData(vr.context, 0, uint32Bytes(overlay.Indices)); err != nil {
		return err
	}

	commandBuffer := vr.context.GraphicsCommandBuffers[vr.context.ImageIndex]

	projection := math.NewMat4Orthographic(0, float32(vr.context.FramebufferWidth),
		0, float32(vr.context.FramebufferHeight), -1, 1)
	constants := pushConstants{
		Model:         projection,
		MaterialIndex: overlay.AtlasIndex,
	}
	vk.CmdPushConstants(commandBuffer.Handle, vr.context.PipelineLayout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit),
		0, PushConstantsSize, unsafe.Pointer(&constants))

	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1, []vk.Buffer{vertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, indexBuffer.Handle, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(commandBuffer.Handle, uint32(len(overlay.Indices)), 1, 0, 0, 0)
	return nil
}

func (vr *VulkanRenderer) WaitIdle() error {
	if result := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	return nil
}

func (vr *VulkanRenderer) recreateSwapchain() error {
	context := vr.context
	if context.RecreatingSwapchain {
		return nil
	}

	width, height := vr.cachedFramebufferWidth, vr.cachedFramebufferHeight
	if width == 0 || height == 0 {
		width, height = vr.platform.GetFramebufferSize()
	}
	if width == 0 || height == 0 {
		// Minimized. Frames keep getting skipped until a real size
		// shows up.
		return nil
	}

	context.RecreatingSwapchain = true
	if result := vk.DeviceWaitIdle(context.Device.LogicalDevice); !VulkanResultIsSuccess(result) {
		context.RecreatingSwapchain = false
		return fmt.Errorf("vkDeviceWaitIdle failed with %s", VulkanResultString(result))
	}
	context.ReapUploads(true)
	for i := range context.ImagesInFlight {
		context.ImagesInFlight[i] = nil
	}

	if err := context.Swapchain.Recreate(context, width, height); err != nil {
		context.RecreatingSwapchain = false
		return err
	}
	context.FramebufferWidth = context.Swapchain.Extent.Width
	context.FramebufferHeight = context.Swapchain.Extent.Height
	context.MainRenderPass.W = float32(context.FramebufferWidth)
	context.MainRenderPass.H = float32(context.FramebufferHeight)
	vr.cachedFramebufferWidth = 0
	vr.cachedFramebufferHeight = 0
	context.FramebufferSizeLastGeneration = context.FramebufferSizeGeneration

	// The image count can change with the new surface capabilities.
	for _, commandBuffer := range context.GraphicsCommandBuffers {
		if commandBuffer.Handle != nil {
			CommandBufferFree(context, context.Device.GraphicsCommandPool, commandBuffer)
		}
	}
	if err := vr.regenerateFramebuffers(); err != nil {
		context.RecreatingSwapchain = false
		return err
	}
	if err := vr.createCommandBuffers(); err != nil {
		context.RecreatingSwapchain = false
		return err
	}
	context.ImagesInFlight = make([]*VulkanFence, context.Swapchain.ImageCount)

	if uint32(len(context.InFlightFences)) != context.Swapchain.MaxFramesInFlight {
		vr.destroyFrameSyncObjects()
		if err := vr.createFrameSyncObjects(); err != nil {
			context.RecreatingSwapchain = false
			return err
		}
		context.CurrentFrame = 0
	}

	context.RecreatingSwapchain = false
	core.LogInfo("swapchain recreated at %dx%d", context.FramebufferWidth, context.FramebufferHeight)
	return nil
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	context := vr.context
	swapchain := context.Swapchain

	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := uint32(0); i < swapchain.ImageCount; i++ {
		attachments := []vk.ImageView{swapchain.ImageViews[i], swapchain.DepthAttachment.View}
		framebuffer, err := FramebufferCreate(context, context.MainRenderPass,
			swapchain.Extent.Width, swapchain.Extent.Height, attachments)
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = framebuffer
	}
	return nil
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	context := vr.context
	context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, context.Swapchain.ImageCount)
	for i := uint32(0); i < context.Swapchain.ImageCount; i++ {
		commandBuffer, err := CommandBufferAllocate(context, context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		context.GraphicsCommandBuffers[i] = commandBuffer
	}
	return nil
}

func (vr *VulkanRenderer) createFrameSyncObjects() error {
	context := vr.context
	framesInFlight := context.Swapchain.MaxFramesInFlight

	context.ImageAvailableSemaphores = make([]vk.Semaphore, framesInFlight)
	context.QueueCompleteSemaphores = make([]vk.Semaphore, framesInFlight)
	context.UploadSemaphores = make([]vk.Semaphore, framesInFlight)
	context.InFlightFences = make([]*VulkanFence, framesInFlight)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := uint32(0); i < framesInFlight; i++ {
		for _, target := range []*vk.Semaphore{
			&context.ImageAvailableSemaphores[i],
			&context.QueueCompleteSemaphores[i],
			&context.UploadSemaphores[i],
		} {
			if result := vk.CreateSemaphore(context.Device.LogicalDevice, &semaphoreCreateInfo, context.Allocator, target); !VulkanResultIsSuccess(result) {
				return fmt.Errorf("vkCreateSemaphore failed with %s", VulkanResultString(result))
			}
		}

		// Created signaled so the first frame does not wait forever on
		// work that was never submitted.
		fence, err := FenceCreate(context, true)
		if err != nil {
			return err
		}
		context.InFlightFences[i] = fence
	}
	return nil
}

func (vr *VulkanRenderer) destroyFrameSyncObjects() {
	context := vr.context
	device := context.Device.LogicalDevice

	for i := range context.InFlightFences {
		if context.ImageAvailableSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(device, context.ImageAvailableSemaphores[i], context.Allocator)
		}
		if context.QueueCompleteSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(device, context.QueueCompleteSemaphores[i], context.Allocator)
		}
		if context.UploadSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(device, context.UploadSemaphores[i], context.Allocator)
		}
		context.InFlightFences[i].Destroy(context)
	}
	context.ImageAvailableSemaphores = nil
	context.QueueCompleteSemaphores = nil
	context.UploadSemaphores = nil
	context.InFlightFences = nil
}

func (vr *VulkanRenderer) createVulkanSurface() (vk.Surface, error) {
	surfacePtr, err := vr.platform.Window.CreateWindowSurface(vr.context.Instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("failed to create window surface: %w", err)
	}
	return vk.SurfaceFromPointer(surfacePtr), nil
}

func verifyValidationLayers(required []string) error {
	var availableCount uint32
	if result := vk.EnumerateInstanceLayerProperties(&availableCount, nil); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkEnumerateInstanceLayerProperties failed with %s", VulkanResultString(result))
	}
	available := make([]vk.LayerProperties, availableCount)
	if result := vk.EnumerateInstanceLayerProperties(&availableCount, available); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkEnumerateInstanceLayerProperties failed with %s", VulkanResultString(result))
	}

	for _, layer := range required {
		found := false
		for i := range available {
			available[i].Deref()
			if byteArrayToString(available[i].LayerName[:]) == layer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("required validation layer %s is missing", layer)
		}
	}
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64,
	location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] %s", pLayerPrefix, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("[%s] %s", pLayerPrefix, pMessage)
	default:
		core.LogDebug("[%s] %s", pLayerPrefix, pMessage)
	}
	return vk.Bool32(vk.False)
}
