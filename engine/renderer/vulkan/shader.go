package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// ShaderModuleCreate wraps compiled SPIR-V byte code in a module.
func ShaderModuleCreate(context *VulkanContext, code []byte) (vk.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return vk.NullShaderModule, fmt.Errorf("SPIR-V length %d is not a multiple of four", len(code))
	}
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    repackUint32(code),
	}
	var module vk.ShaderModule
	if result := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module); !VulkanResultIsSuccess(result) {
		return vk.NullShaderModule, fmt.Errorf("vkCreateShaderModule failed with %s", VulkanResultString(result))
	}
	return module, nil
}

func shaderStage(module vk.ShaderModule, stage vk.ShaderStageFlagBits) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: module,
		PName:  VulkanSafeString("main"),
	}
}
