package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// Every pipeline shares two descriptor sets. Set 0 holds scene lifetime
// data: the material table at binding 0 and the sampler array at
// binding 1, where every unused slot points at the default texture.
// Set 1 holds per frame data: the frame uniforms at binding 0 and the
// light table at binding 1. Object data travels in push constants.

// PushConstantsSize is the size of the push constant block shared by
// all pipelines: a mat4 plus a material index padded out to 16 bytes.
const PushConstantsSize = 80

func DescriptorStateCreate(context *VulkanContext) error {
	device := context.Device.LogicalDevice

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeStorageBuffer, DescriptorCount: 1},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: VULKAN_MAX_SAMPLER_COUNT},
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 2},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       2,
	}
	var pool vk.DescriptorPool
	if result := vk.CreateDescriptorPool(device, &poolInfo, context.Allocator, &pool); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreateDescriptorPool failed with %s", VulkanResultString(result))
	}
	context.DescriptorPool = pool

	globalBindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: VULKAN_MAX_SAMPLER_COUNT,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	globalLayout, err := descriptorSetLayoutCreate(context, globalBindings)
	if err != nil {
		return err
	}
	context.GlobalDescriptorSetLayout = globalLayout

	frameBindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	frameLayout, err := descriptorSetLayoutCreate(context, frameBindings)
	if err != nil {
		return err
	}
	context.FrameDescriptorSetLayout = frameLayout

	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     context.DescriptorPool,
		DescriptorSetCount: 2,
		PSetLayouts:        []vk.DescriptorSetLayout{globalLayout, frameLayout},
	}
	sets := make([]vk.DescriptorSet, 2)
	if result := vk.AllocateDescriptorSets(device, &allocateInfo, &sets[0]); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkAllocateDescriptorSets failed with %s", VulkanResultString(result))
	}
	context.GlobalDescriptorSet = sets[0]
	context.FrameDescriptorSet = sets[1]

	pushConstantRange := vk.PushConstantRange{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		Offset:     0,
		Size:       PushConstantsSize,
	}
	layoutInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         2,
		PSetLayouts:            []vk.DescriptorSetLayout{globalLayout, frameLayout},
		PushConstantRangeCount: 1,
		PPushConstantRanges:    []vk.PushConstantRange{pushConstantRange},
	}
	var pipelineLayout vk.PipelineLayout
	if result := vk.CreatePipelineLayout(device, &layoutInfo, context.Allocator, &pipelineLayout); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkCreatePipelineLayout failed with %s", VulkanResultString(result))
	}
	context.PipelineLayout = pipelineLayout

	return nil
}

func DescriptorStateDestroy(context *VulkanContext) {
	device := context.Device.LogicalDevice

	if context.PipelineLayout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, context.PipelineLayout, context.Allocator)
		context.PipelineLayout = vk.NullPipelineLayout
	}
	if context.GlobalDescriptorSetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(device, context.GlobalDescriptorSetLayout, context.Allocator)
		context.GlobalDescriptorSetLayout = vk.NullDescriptorSetLayout
	}
	if context.FrameDescriptorSetLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(device, context.FrameDescriptorSetLayout, context.Allocator)
		context.FrameDescriptorSetLayout = vk.NullDescriptorSetLayout
	}
	if context.DescriptorPool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(device, context.DescriptorPool, context.Allocator)
		context.DescriptorPool = vk.NullDescriptorPool
	}
}

func descriptorSetLayoutCreate(context *VulkanContext, bindings []vk.DescriptorSetLayoutBinding) (vk.DescriptorSetLayout, error) {
	createInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var layout vk.DescriptorSetLayout
	if result := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &createInfo, context.Allocator, &layout); !VulkanResultIsSuccess(result) {
		return vk.NullDescriptorSetLayout, fmt.Errorf("vkCreateDescriptorSetLayout failed with %s", VulkanResultString(result))
	}
	return layout, nil
}

// WriteBufferDescriptor points a buffer binding of the given set at the
// whole of the given buffer.
func WriteBufferDescriptor(context *VulkanContext, set vk.DescriptorSet, binding uint32, descriptorType vk.DescriptorType, buffer *VulkanBuffer) {
	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: buffer.Handle,
		Offset: 0,
		Range:  buffer.TotalSize,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  descriptorType,
		PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}

// WriteSamplerSlot binds one texture into the sampler array.
func WriteSamplerSlot(context *VulkanContext, slot uint32, view vk.ImageView, sampler vk.Sampler) {
	imageInfo := vk.DescriptorImageInfo{
		Sampler:     sampler,
		ImageView:   view,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          context.GlobalDescriptorSet,
		DstBinding:      1,
		DstArrayElement: slot,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}

// FillSamplerSlots points the entire sampler array at one texture.
// Shaders can then index the array with any slot without tripping
// validation on unwritten descriptors.
func FillSamplerSlots(context *VulkanContext, view vk.ImageView, sampler vk.Sampler) {
	imageInfos := make([]vk.DescriptorImageInfo, VULKAN_MAX_SAMPLER_COUNT)
	for i := range imageInfos {
		imageInfos[i] = vk.DescriptorImageInfo{
			Sampler:     sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          context.GlobalDescriptorSet,
		DstBinding:      1,
		DstArrayElement: 0,
		DescriptorCount: VULKAN_MAX_SAMPLER_COUNT,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo:      imageInfos,
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}
