package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// VulkanTextureData is what the backend stores behind
// metadata.Texture.InternalData.
type VulkanTextureData struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

// TextureCreate uploads RGBA pixels into a device local image and makes
// the sampler described by the map settings. The upload runs on the
// graphics queue because the final layout transition targets the
// fragment shader stage.
func TextureCreate(context *VulkanContext, texture *metadata.Texture, textureMap *metadata.TextureMap, pixels []uint8) (*VulkanTextureData, error) {
	imageSize := vk.DeviceSize(texture.Width * texture.Height * uint32(texture.ChannelCount))
	if vk.DeviceSize(len(pixels)) < imageSize {
		return nil, fmt.Errorf("texture %s: have %d pixel bytes, need %d", texture.Name, len(pixels), imageSize)
	}

	staging, err := BufferCreate(context, imageSize,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)
	if err := staging.LoadData(context, 0, pixels[:imageSize]); err != nil {
		return nil, err
	}

	image, err := ImageCreate(context, texture.Width, texture.Height, vk.FormatR8g8b8a8Unorm,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true, vk.ImageAspectFlags(vk.ImageAspectColorBit))
	if err != nil {
		return nil, err
	}

	device := context.Device
	commandBuffer, err := AllocateAndBeginSingleUse(context, device.GraphicsCommandPool)
	if err != nil {
		image.Destroy(context)
		return nil, err
	}
	if err := image.TransitionLayout(commandBuffer, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		image.Destroy(context)
		return nil, err
	}
	image.CopyFromBuffer(commandBuffer, staging.Handle)
	if err := image.TransitionLayout(commandBuffer, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal); err != nil {
		image.Destroy(context)
		return nil, err
	}
	if err := EndSingleUse(context, device.GraphicsCommandPool, commandBuffer, device.GraphicsQueue, uint32(device.GraphicsQueueIndex)); err != nil {
		image.Destroy(context)
		return nil, err
	}

	sampler, err := samplerCreate(context, textureMap)
	if err != nil {
		image.Destroy(context)
		return nil, err
	}

	return &VulkanTextureData{
		Image:   image,
		Sampler: sampler,
	}, nil
}

func (data *VulkanTextureData) Destroy(context *VulkanContext) {
	if data.Sampler != vk.NullSampler {
		vk.DestroySampler(context.Device.LogicalDevice, data.Sampler, context.Allocator)
		data.Sampler = vk.NullSampler
	}
	if data.Image != nil {
		data.Image.Destroy(context)
		data.Image = nil
	}
}

func samplerCreate(context *VulkanContext, textureMap *metadata.TextureMap) (vk.Sampler, error) {
	createInfo := vk.SamplerCreateInfo{
		SType:            vk.StructureTypeSamplerCreateInfo,
		MinFilter:        convertFilter(textureMap.FilterMinify),
		MagFilter:        convertFilter(textureMap.FilterMagnify),
		AddressModeU:     convertRepeat(textureMap.RepeatU),
		AddressModeV:     convertRepeat(textureMap.RepeatV),
		AddressModeW:     vk.SamplerAddressModeRepeat,
		AnisotropyEnable: vk.True,
		MaxAnisotropy:    16,
		BorderColor:      vk.BorderColorIntOpaqueBlack,
		CompareOp:        vk.CompareOpAlways,
		MipmapMode:       vk.SamplerMipmapModeLinear,
	}
	var sampler vk.Sampler
	if result := vk.CreateSampler(context.Device.LogicalDevice, &createInfo, context.Allocator, &sampler); !VulkanResultIsSuccess(result) {
		return vk.NullSampler, fmt.Errorf("vkCreateSampler failed with %s", VulkanResultString(result))
	}
	return sampler, nil
}

func convertFilter(filter metadata.TextureFilter) vk.Filter {
	if filter == metadata.TextureFilterModeNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func convertRepeat(repeat metadata.TextureRepeat) vk.SamplerAddressMode {
	switch repeat {
	case metadata.TextureRepeatMirroredRepeat:
		return vk.SamplerAddressModeMirroredRepeat
	case metadata.TextureRepeatClampToEdge:
		return vk.SamplerAddressModeClampToEdge
	case metadata.TextureRepeatClampToBorder:
		return vk.SamplerAddressModeClampToBorder
	default:
		return vk.SamplerAddressModeRepeat
	}
}
