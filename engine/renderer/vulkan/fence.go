package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/core"
)

type VulkanFence struct {
	Handle     vk.Fence
	IsSignaled bool
}

func FenceCreate(context *VulkanContext, createSignaled bool) (*VulkanFence, error) {
	fence := &VulkanFence{
		IsSignaled: createSignaled,
	}
	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if createSignaled {
		createInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var handle vk.Fence
	if result := vk.CreateFence(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkCreateFence failed with %s", VulkanResultString(result))
	}
	fence.Handle = handle
	return fence, nil
}

// Wait blocks until the fence signals or the timeout expires. Returns
// true if the fence is signaled.
func (fence *VulkanFence) Wait(context *VulkanContext, timeoutNS uint64) bool {
	if fence.IsSignaled {
		return true
	}
	result := vk.WaitForFences(context.Device.LogicalDevice, 1, []vk.Fence{fence.Handle}, vk.True, timeoutNS)
	switch result {
	case vk.Success:
		fence.IsSignaled = true
		return true
	case vk.Timeout:
		core.LogWarn("fence wait timed out")
	case vk.ErrorDeviceLost:
		core.LogError("fence wait failed, device lost")
	default:
		core.LogError("fence wait failed with %s", VulkanResultString(result))
	}
	return false
}

func (fence *VulkanFence) Reset(context *VulkanContext) error {
	if !fence.IsSignaled {
		return nil
	}
	if result := vk.ResetFences(context.Device.LogicalDevice, 1, []vk.Fence{fence.Handle}); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkResetFences failed with %s", VulkanResultString(result))
	}
	fence.IsSignaled = false
	return nil
}

func (fence *VulkanFence) Destroy(context *VulkanContext) {
	if fence.Handle != vk.NullFence {
		vk.DestroyFence(context.Device.LogicalDevice, fence.Handle, context.Allocator)
		fence.Handle = vk.NullFence
	}
	fence.IsSignaled = false
}
