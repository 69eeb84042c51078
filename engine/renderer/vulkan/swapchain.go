package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/core"
)

// VulkanSwapchainConfig carries the user facing knobs. The actual
// values end up clamped to what the surface supports.
type VulkanSwapchainConfig struct {
	PreferredImageCount uint32
	FramesInFlight      uint32
	PresentMode         string
}

type VulkanSwapchain struct {
	Handle            vk.Swapchain
	ImageFormat       vk.SurfaceFormat
	Extent            vk.Extent2D
	MaxFramesInFlight uint32
	ImageCount        uint32
	Images            []vk.Image
	ImageViews        []vk.ImageView
	DepthAttachment   *VulkanImage
	Framebuffers      []*VulkanFramebuffer

	config VulkanSwapchainConfig
}

func SwapchainCreate(context *VulkanContext, width, height uint32, config VulkanSwapchainConfig) (*VulkanSwapchain, error) {
	swapchain := &VulkanSwapchain{
		config: config,
	}
	if err := swapchain.create(context, width, height); err != nil {
		return nil, err
	}
	return swapchain, nil
}

// Recreate tears the swapchain down and builds it again for the new
// size. The caller is responsible for waiting until the device is idle
// and for regenerating framebuffers afterwards.
func (swapchain *VulkanSwapchain) Recreate(context *VulkanContext, width, height uint32) error {
	swapchain.destroyResources(context)
	return swapchain.create(context, width, height)
}

func (swapchain *VulkanSwapchain) Destroy(context *VulkanContext) {
	swapchain.destroyResources(context)
}

func (swapchain *VulkanSwapchain) create(context *VulkanContext, width, height uint32) error {
	device := context.Device

	// Surface capabilities move under us on every resize.
	support, err := DeviceQuerySwapchainSupport(device.PhysicalDevice, context.Surface)
	if err != nil {
		return err
	}
	device.SwapchainSupport = support
	capabilities := support.Capabilities

	extent := vk.Extent2D{Width: width, Height: height}
	// A defined currentExtent wins over whatever the window reports.
	if capabilities.CurrentExtent.Width != ^uint32(0) {
		extent = capabilities.CurrentExtent
	}
	extent.Width = clampUint32(extent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width)
	extent.Height = clampUint32(extent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height)

	// Shaders write linear values, the sRGB target handles the encode.
	imageFormat := support.Formats[0]
	for _, format := range support.Formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			imageFormat = format
			break
		}
	}

	presentMode := choosePresentMode(swapchain.config.PresentMode, support.PresentModes)

	imageCount := swapchain.config.PreferredImageCount
	if imageCount < capabilities.MinImageCount {
		imageCount = capabilities.MinImageCount
	}
	// MaxImageCount of zero means no upper bound.
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      imageFormat.Format,
		ImageColorSpace:  imageFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if device.GraphicsQueueIndex != device.PresentQueueIndex {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(device.GraphicsQueueIndex),
			uint32(device.PresentQueueIndex),
		}
	}

	var handle vk.Swapchain
	if result := vk.CreateSwapchain(device.LogicalDevice, &createInfo, context.Allocator, &handle); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateSwapchainKHR failed with %s", VulkanResultString(result))
	}
	swapchain.Handle = handle
	swapchain.ImageFormat = imageFormat
	swapchain.Extent = extent

	var actualCount uint32
	vk.GetSwapchainImages(device.LogicalDevice, swapchain.Handle, &actualCount, nil)
	swapchain.Images = make([]vk.Image, actualCount)
	if result := vk.GetSwapchainImages(device.LogicalDevice, swapchain.Handle, &actualCount, swapchain.Images); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkGetSwapchainImagesKHR failed with %s", VulkanResultString(result))
	}
	swapchain.ImageCount = actualCount

	swapchain.MaxFramesInFlight = swapchain.config.FramesInFlight
	if swapchain.MaxFramesInFlight > actualCount {
		core.LogWarn("clamping frames in flight from %d to the %d swapchain images available",
			swapchain.MaxFramesInFlight, actualCount)
		swapchain.MaxFramesInFlight = actualCount
	}

	swapchain.ImageViews = make([]vk.ImageView, actualCount)
	for i := uint32(0); i < actualCount; i++ {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    swapchain.Images[i],
			ViewType: vk.ImageViewType2d,
			Format:   imageFormat.Format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		var view vk.ImageView
		if result := vk.CreateImageView(device.LogicalDevice, &viewInfo, context.Allocator, &view); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkCreateImageView failed with %s", VulkanResultString(result))
		}
		swapchain.ImageViews[i] = view
	}

	if err := device.DetectDepthFormat(); err != nil {
		return err
	}
	depth, err := ImageCreate(context, extent.Width, extent.Height, device.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true, vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return err
	}
	swapchain.DepthAttachment = depth

	core.LogInfo("swapchain created with %d images at %dx%d, %d frames in flight",
		actualCount, extent.Width, extent.Height, swapchain.MaxFramesInFlight)
	return nil
}

func (swapchain *VulkanSwapchain) destroyResources(context *VulkanContext) {
	device := context.Device.LogicalDevice

	for _, framebuffer := range swapchain.Framebuffers {
		framebuffer.Destroy(context)
	}
	swapchain.Framebuffers = nil

	if swapchain.DepthAttachment != nil {
		swapchain.DepthAttachment.Destroy(context)
		swapchain.DepthAttachment = nil
	}
	// Only the views are owned here, the images belong to the swapchain.
	for _, view := range swapchain.ImageViews {
		vk.DestroyImageView(device, view, context.Allocator)
	}
	swapchain.ImageViews = nil
	swapchain.Images = nil

	if swapchain.Handle != vk.NullSwapchain {
		vk.DestroySwapchain(device, swapchain.Handle, context.Allocator)
		swapchain.Handle = vk.NullSwapchain
	}
}

// AcquireNextImageIndex blocks until the presentation engine hands out
// the next image. Returns core.ErrSwapchainOutOfDate when the chain
// must be recreated before rendering can continue.
func (swapchain *VulkanSwapchain) AcquireNextImageIndex(context *VulkanContext, timeoutNS uint64,
	imageAvailableSemaphore vk.Semaphore, fence vk.Fence) (uint32, error) {

	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, swapchain.Handle, timeoutNS,
		imageAvailableSemaphore, fence, &imageIndex)
	switch result {
	case vk.Success, vk.Suboptimal:
		return imageIndex, nil
	case vk.ErrorOutOfDate:
		return 0, core.ErrSwapchainOutOfDate
	default:
		return 0, fmt.Errorf("vkAcquireNextImageKHR failed with %s", VulkanResultString(result))
	}
}

// Present queues the image for presentation, waiting on every given
// semaphore before the image is shown.
func (swapchain *VulkanSwapchain) Present(context *VulkanContext, waitSemaphores []vk.Semaphore, presentImageIndex uint32) error {
	device := context.Device
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitSemaphores)),
		PWaitSemaphores:    waitSemaphores,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.Handle},
		PImageIndices:      []uint32{presentImageIndex},
	}

	var result vk.Result
	err := lockPool.SafeQueueCall(uint32(device.PresentQueueIndex), func() error {
		result = vk.QueuePresent(device.PresentQueue, &presentInfo)
		return nil
	})
	if err != nil {
		return err
	}
	switch result {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return core.ErrSwapchainOutOfDate
	default:
		return fmt.Errorf("vkQueuePresentKHR failed with %s", VulkanResultString(result))
	}
}

func choosePresentMode(preference string, available []vk.PresentMode) vk.PresentMode {
	var wanted vk.PresentMode
	switch preference {
	case "mailbox":
		wanted = vk.PresentModeMailbox
	case "immediate":
		wanted = vk.PresentModeImmediate
	default:
		// FIFO is the only mode the spec guarantees.
		return vk.PresentModeFifo
	}
	for _, mode := range available {
		if mode == wanted {
			return mode
		}
	}
	core.LogWarn("present mode %q not supported, falling back to fifo", preference)
	return vk.PresentModeFifo
}

func clampUint32(value, low, high uint32) uint32 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
