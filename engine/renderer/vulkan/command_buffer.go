package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type VulkanCommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY VulkanCommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_IN_RENDER_PASS
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
	COMMAND_BUFFER_STATE_NOT_ALLOCATED
)

type VulkanCommandBuffer struct {
	Handle vk.CommandBuffer
	State  VulkanCommandBufferState
}

func CommandBufferAllocate(context *VulkanContext, pool vk.CommandPool, isPrimary bool) (*VulkanCommandBuffer, error) {
	level := vk.CommandBufferLevelPrimary
	if !isPrimary {
		level = vk.CommandBufferLevelSecondary
	}
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              level,
		CommandBufferCount: 1,
	}
	// AllocateCommandBuffers writes the handles into the slice.
	handles := make([]vk.CommandBuffer, 1)
	if result := vk.AllocateCommandBuffers(context.Device.LogicalDevice, &allocateInfo, handles); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkAllocateCommandBuffers failed with %s", VulkanResultString(result))
	}
	return &VulkanCommandBuffer{
		Handle: handles[0],
		State:  COMMAND_BUFFER_STATE_READY,
	}, nil
}

func CommandBufferFree(context *VulkanContext, pool vk.CommandPool, buffer *VulkanCommandBuffer) {
	vk.FreeCommandBuffers(context.Device.LogicalDevice, pool, 1, []vk.CommandBuffer{buffer.Handle})
	buffer.Handle = nil
	buffer.State = COMMAND_BUFFER_STATE_NOT_ALLOCATED
}

func (buffer *VulkanCommandBuffer) Begin(isSingleUse, isRenderpassContinue, isSimultaneousUse bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if isSingleUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}
	if isRenderpassContinue {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageRenderPassContinueBit)
	}
	if isSimultaneousUse {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit)
	}
	if result := vk.BeginCommandBuffer(buffer.Handle, &beginInfo); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkBeginCommandBuffer failed with %s", VulkanResultString(result))
	}
	buffer.State = COMMAND_BUFFER_STATE_RECORDING
	return nil
}

func (buffer *VulkanCommandBuffer) End() error {
	if result := vk.EndCommandBuffer(buffer.Handle); !VulkanResultIsSuccess(result) {
		return fmt.Errorf("vkEndCommandBuffer failed with %s", VulkanResultString(result))
	}
	buffer.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	return nil
}

func (buffer *VulkanCommandBuffer) UpdateSubmitted() {
	buffer.State = COMMAND_BUFFER_STATE_SUBMITTED
}

func (buffer *VulkanCommandBuffer) Reset() {
	buffer.State = COMMAND_BUFFER_STATE_READY
}

// AllocateAndBeginSingleUse grabs a one time command buffer and starts
// recording into it.
func AllocateAndBeginSingleUse(context *VulkanContext, pool vk.CommandPool) (*VulkanCommandBuffer, error) {
	buffer, err := CommandBufferAllocate(context, pool, true)
	if err != nil {
		return nil, err
	}
	if err := buffer.Begin(true, false, false); err != nil {
		return nil, err
	}
	return buffer, nil
}

// EndSingleUse finishes recording, submits on the given queue and waits
// for the work to complete before freeing the buffer.
func EndSingleUse(context *VulkanContext, pool vk.CommandPool, buffer *VulkanCommandBuffer, queue vk.Queue, queueFamily uint32) error {
	if err := buffer.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{buffer.Handle},
	}
	err := lockPool.SafeQueueCall(queueFamily, func() error {
		if result := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkQueueSubmit failed with %s", VulkanResultString(result))
		}
		if result := vk.QueueWaitIdle(queue); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkQueueWaitIdle failed with %s", VulkanResultString(result))
		}
		return nil
	})
	if err != nil {
		return err
	}

	CommandBufferFree(context, pool, buffer)
	return nil
}
