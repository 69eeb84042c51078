package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/core"
)

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

type VulkanDevice struct {
	PhysicalDevice   vk.PhysicalDevice
	LogicalDevice    vk.Device
	SwapchainSupport *VulkanSwapchainSupportInfo

	GraphicsQueueIndex int32
	PresentQueueIndex  int32
	TransferQueueIndex int32

	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	TransferQueue vk.Queue

	GraphicsCommandPool vk.CommandPool
	TransferCommandPool vk.CommandPool

	Properties vk.PhysicalDeviceProperties
	Features   vk.PhysicalDeviceFeatures
	Memory     vk.PhysicalDeviceMemoryProperties

	DepthFormat vk.Format
}

type vulkanPhysicalDeviceRequirements struct {
	SamplerAnisotropy    bool
	DeviceExtensionNames []string
}

// Queue family indices use -1 for "not found". Zero is a valid family.
type vulkanPhysicalDeviceQueueFamilyInfo struct {
	GraphicsFamilyIndex int32
	PresentFamilyIndex  int32
	TransferFamilyIndex int32
}

const portabilitySubsetExtensionName = "VK_KHR_portability_subset"

// DeviceCreate picks a physical device, creates the logical device with
// its queues and sets up the graphics command pool.
func DeviceCreate(context *VulkanContext) error {
	if err := selectPhysicalDevice(context); err != nil {
		return err
	}
	device := context.Device

	core.LogInfo("creating logical device")
	// Collect the distinct families actually in use.
	familyIndices := []int32{device.GraphicsQueueIndex}
	if device.PresentQueueIndex != device.GraphicsQueueIndex {
		familyIndices = append(familyIndices, device.PresentQueueIndex)
	}
	if device.TransferQueueIndex != device.GraphicsQueueIndex && device.TransferQueueIndex != device.PresentQueueIndex {
		familyIndices = append(familyIndices, device.TransferQueueIndex)
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(familyIndices))
	for i, family := range familyIndices {
		queueCreateInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(family),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	extensions := []string{vk.KhrSwapchainExtensionName}
	if deviceHasExtension(device.PhysicalDevice, portabilitySubsetExtensionName) {
		// Required whenever the implementation advertises it.
		extensions = append(extensions, portabilitySubsetExtensionName)
	}

	deviceFeatures := vk.PhysicalDeviceFeatures{
		SamplerAnisotropy: vk.True,
	}

	var logicalDevice vk.Device
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
	}
	if result := vk.CreateDevice(device.PhysicalDevice, &deviceCreateInfo, context.Allocator, &logicalDevice); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateDevice failed with %s", VulkanResultString(result))
	}
	device.LogicalDevice = logicalDevice

	var graphicsQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, uint32(device.GraphicsQueueIndex), 0, &graphicsQueue)
	device.GraphicsQueue = graphicsQueue

	var presentQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, uint32(device.PresentQueueIndex), 0, &presentQueue)
	device.PresentQueue = presentQueue

	var transferQueue vk.Queue
	vk.GetDeviceQueue(device.LogicalDevice, uint32(device.TransferQueueIndex), 0, &transferQueue)
	device.TransferQueue = transferQueue

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(device.GraphicsQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if result := vk.CreateCommandPool(device.LogicalDevice, &poolCreateInfo, context.Allocator, &pool); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateCommandPool failed with %s", VulkanResultString(result))
	}
	device.GraphicsCommandPool = pool

	transferPoolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(device.TransferQueueIndex),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}
	var transferPool vk.CommandPool
	if result := vk.CreateCommandPool(device.LogicalDevice, &transferPoolCreateInfo, context.Allocator, &transferPool); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateCommandPool failed with %s", VulkanResultString(result))
	}
	device.TransferCommandPool = transferPool

	core.LogInfo("logical device created")
	return nil
}

func DeviceDestroy(context *VulkanContext) {
	device := context.Device
	if device == nil {
		return
	}
	device.GraphicsQueue = nil
	device.PresentQueue = nil
	device.TransferQueue = nil

	if device.TransferCommandPool != vk.NullCommandPool {
		vk.DestroyCommandPool(device.LogicalDevice, device.TransferCommandPool, context.Allocator)
		device.TransferCommandPool = vk.NullCommandPool
	}
	if device.GraphicsCommandPool != vk.NullCommandPool {
		vk.DestroyCommandPool(device.LogicalDevice, device.GraphicsCommandPool, context.Allocator)
		device.GraphicsCommandPool = vk.NullCommandPool
	}
	if device.LogicalDevice != nil {
		vk.DestroyDevice(device.LogicalDevice, context.Allocator)
		device.LogicalDevice = nil
	}
	device.PhysicalDevice = nil
	device.GraphicsQueueIndex = -1
	device.PresentQueueIndex = -1
	device.TransferQueueIndex = -1
}

func selectPhysicalDevice(context *VulkanContext) error {
	var deviceCount uint32
	if result := vk.EnumeratePhysicalDevices(context.Instance, &deviceCount, nil); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkEnumeratePhysicalDevices failed with %s", VulkanResultString(result))
	}
	if deviceCount == 0 {
		return errors.New("no devices with Vulkan support were found")
	}
	physicalDevices := make([]vk.PhysicalDevice, deviceCount)
	if result := vk.EnumeratePhysicalDevices(context.Instance, &deviceCount, physicalDevices); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkEnumeratePhysicalDevices failed with %s", VulkanResultString(result))
	}

	requirements := vulkanPhysicalDeviceRequirements{
		SamplerAnisotropy:    true,
		DeviceExtensionNames: []string{vk.KhrSwapchainExtensionName},
	}

	bestScore := -1
	for _, candidate := range physicalDevices {
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(candidate, &properties)
		properties.Deref()

		var features vk.PhysicalDeviceFeatures
		vk.GetPhysicalDeviceFeatures(candidate, &features)
		features.Deref()

		var memory vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(candidate, &memory)
		memory.Deref()

		queueInfo, swapchainSupport, ok := physicalDeviceMeetsRequirements(candidate, context.Surface, &features, &requirements)
		if !ok {
			core.LogDebug("device '%s' does not meet requirements, skipping", vk.ToString(properties.DeviceName[:]))
			continue
		}

		score := 1
		if properties.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			score += 1000
		}
		// A single family serving every purpose avoids ownership
		// transfers later on.
		if queueInfo.GraphicsFamilyIndex == queueInfo.PresentFamilyIndex &&
			queueInfo.GraphicsFamilyIndex == queueInfo.TransferFamilyIndex {
			score += 100
		}
		if score <= bestScore {
			continue
		}
		bestScore = score

		context.Device = &VulkanDevice{
			PhysicalDevice:     candidate,
			SwapchainSupport:   swapchainSupport,
			GraphicsQueueIndex: queueInfo.GraphicsFamilyIndex,
			PresentQueueIndex:  queueInfo.PresentFamilyIndex,
			TransferQueueIndex: queueInfo.TransferFamilyIndex,
			Properties:         properties,
			Features:           features,
			Memory:             memory,
		}
	}

	if context.Device == nil {
		return errors.New("no physical devices were found which meet the requirements")
	}

	apiVersion := vk.Version(context.Device.Properties.ApiVersion)
	core.LogInfo("selected device '%s' (Vulkan %d.%d.%d)",
		vk.ToString(context.Device.Properties.DeviceName[:]),
		apiVersion.Major(), apiVersion.Minor(), apiVersion.Patch())
	return nil
}

func physicalDeviceMeetsRequirements(device vk.PhysicalDevice, surface vk.Surface,
	features *vk.PhysicalDeviceFeatures, requirements *vulkanPhysicalDeviceRequirements) (*vulkanPhysicalDeviceQueueFamilyInfo, *VulkanSwapchainSupportInfo, bool) {

	queueInfo := &vulkanPhysicalDeviceQueueFamilyInfo{
		GraphicsFamilyIndex: -1,
		PresentFamilyIndex:  -1,
		TransferFamilyIndex: -1,
	}

	var familyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &familyCount, nil)
	families := make([]vk.QueueFamilyProperties, familyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &familyCount, families)

	for i := uint32(0); i < familyCount; i++ {
		families[i].Deref()
		flags := families[i].QueueFlags

		supportsGraphics := flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		supportsTransfer := flags&vk.QueueFlags(vk.QueueTransferBit) != 0

		var presentSupport vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(device, i, surface, &presentSupport)
		supportsPresent := presentSupport == vk.True

		if supportsGraphics && supportsTransfer && supportsPresent {
			queueInfo.GraphicsFamilyIndex = int32(i)
			queueInfo.PresentFamilyIndex = int32(i)
			queueInfo.TransferFamilyIndex = int32(i)
			break
		}
		if supportsGraphics && queueInfo.GraphicsFamilyIndex == -1 {
			queueInfo.GraphicsFamilyIndex = int32(i)
		}
		if supportsPresent && queueInfo.PresentFamilyIndex == -1 {
			queueInfo.PresentFamilyIndex = int32(i)
		}
		if supportsTransfer && queueInfo.TransferFamilyIndex == -1 {
			queueInfo.TransferFamilyIndex = int32(i)
		}
	}

	// Graphics queues accept transfer work even without the explicit bit.
	if queueInfo.TransferFamilyIndex == -1 {
		queueInfo.TransferFamilyIndex = queueInfo.GraphicsFamilyIndex
	}

	if queueInfo.GraphicsFamilyIndex == -1 || queueInfo.PresentFamilyIndex == -1 {
		return nil, nil, false
	}

	for _, required := range requirements.DeviceExtensionNames {
		if !deviceHasExtension(device, required) {
			return nil, nil, false
		}
	}

	if requirements.SamplerAnisotropy && features.SamplerAnisotropy != vk.True {
		return nil, nil, false
	}

	swapchainSupport, err := DeviceQuerySwapchainSupport(device, surface)
	if err != nil {
		return nil, nil, false
	}
	if len(swapchainSupport.Formats) == 0 || len(swapchainSupport.PresentModes) == 0 {
		return nil, nil, false
	}

	return queueInfo, swapchainSupport, true
}

func deviceHasExtension(device vk.PhysicalDevice, name string) bool {
	var extensionCount uint32
	vk.EnumerateDeviceExtensionProperties(device, "", &extensionCount, nil)
	if extensionCount == 0 {
		return false
	}
	extensions := make([]vk.ExtensionProperties, extensionCount)
	vk.EnumerateDeviceExtensionProperties(device, "", &extensionCount, extensions)
	for i := range extensions {
		extensions[i].Deref()
		if vk.ToString(extensions[i].ExtensionName[:]) == name {
			return true
		}
	}
	return false
}

// DeviceQuerySwapchainSupport fetches the surface capabilities, formats
// and present modes for the given device.
func DeviceQuerySwapchainSupport(device vk.PhysicalDevice, surface vk.Surface) (*VulkanSwapchainSupportInfo, error) {
	support := &VulkanSwapchainSupportInfo{}

	var capabilities vk.SurfaceCapabilities
	if result := vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkGetPhysicalDeviceSurfaceCapabilitiesKHR failed with %s", VulkanResultString(result))
	}
	capabilities.Deref()
	support.Capabilities = capabilities

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)
	if formatCount > 0 {
		support.Formats = make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, support.Formats)
		for i := range support.Formats {
			support.Formats[i].Deref()
		}
	}

	var presentModeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentModeCount, nil)
	if presentModeCount > 0 {
		support.PresentModes = make([]vk.PresentMode, presentModeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentModeCount, support.PresentModes)
	}

	return support, nil
}

// DetectDepthFormat finds the first depth format usable as a depth
// stencil attachment, preferring optimal tiling.
func (device *VulkanDevice) DetectDepthFormat() error {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	required := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)

	for _, format := range candidates {
		var properties vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(device.PhysicalDevice, format, &properties)
		properties.Deref()

		if properties.OptimalTilingFeatures&required == required {
			device.DepthFormat = format
			return nil
		}
		if properties.LinearTilingFeatures&required == required {
			device.DepthFormat = format
			return nil
		}
	}
	return errors.New("no supported depth format found")
}
