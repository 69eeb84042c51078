package vulkan

import (
	"fmt"
	"math"
	"unsafe"

	vk "github.com/goki/vulkan"
)

type VulkanBuffer struct {
	Handle              vk.Buffer
	Memory              vk.DeviceMemory
	TotalSize           vk.DeviceSize
	Usage               vk.BufferUsageFlags
	MemoryPropertyFlags vk.MemoryPropertyFlags
	// Mapped stays non nil while the buffer is persistently mapped.
	Mapped unsafe.Pointer
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryPropertyFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	buffer := &VulkanBuffer{
		TotalSize:           size,
		Usage:               usage,
		MemoryPropertyFlags: memoryPropertyFlags,
	}

	device := context.Device
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}
	if device.GraphicsQueueIndex != device.TransferQueueIndex {
		// The transfer queue writes what the graphics queue reads.
		createInfo.SharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(device.GraphicsQueueIndex),
			uint32(device.TransferQueueIndex),
		}
	}

	var handle vk.Buffer
	if result := vk.CreateBuffer(device.LogicalDevice, &createInfo, context.Allocator, &handle); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkCreateBuffer failed with %s", VulkanResultString(result))
	}
	buffer.Handle = handle

	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device.LogicalDevice, buffer.Handle, &memoryRequirements)
	memoryRequirements.Deref()

	memoryTypeIndex, err := context.FindMemoryIndex(memoryRequirements.MemoryTypeBits, memoryPropertyFlags)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memoryRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	}
	var memory vk.DeviceMemory
	if result := vk.AllocateMemory(device.LogicalDevice, &allocateInfo, context.Allocator, &memory); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkAllocateMemory failed with %s", VulkanResultString(result))
	}
	buffer.Memory = memory

	if result := vk.BindBufferMemory(device.LogicalDevice, buffer.Handle, buffer.Memory, 0); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkBindBufferMemory failed with %s", VulkanResultString(result))
	}

	return buffer, nil
}

func (buffer *VulkanBuffer) Destroy(context *VulkanContext) {
	buffer.Unmap(context)
	if buffer.Handle != vk.NullBuffer {
		vk.DestroyBuffer(context.Device.LogicalDevice, buffer.Handle, context.Allocator)
		buffer.Handle = vk.NullBuffer
	}
	if buffer.Memory != vk.NullDeviceMemory {
		vk.FreeMemory(context.Device.LogicalDevice, buffer.Memory, context.Allocator)
		buffer.Memory = vk.NullDeviceMemory
	}
	buffer.TotalSize = 0
}

func (buffer *VulkanBuffer) Map(context *VulkanContext) (unsafe.Pointer, error) {
	if buffer.Mapped != nil {
		return buffer.Mapped, nil
	}
	var data unsafe.Pointer
	if result := vk.MapMemory(context.Device.LogicalDevice, buffer.Memory, 0, buffer.TotalSize, 0, &data); !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkMapMemory failed with %s", VulkanResultString(result))
	}
	buffer.Mapped = data
	return data, nil
}

func (buffer *VulkanBuffer) Unmap(context *VulkanContext) {
	if buffer.Mapped != nil {
		vk.UnmapMemory(context.Device.LogicalDevice, buffer.Memory)
		buffer.Mapped = nil
	}
}

// LoadData writes into a host visible buffer. A buffer that is not
// persistently mapped is mapped for the duration of the write.
func (buffer *VulkanBuffer) LoadData(context *VulkanContext, offset vk.DeviceSize, data []byte) error {
	if offset+vk.DeviceSize(len(data)) > buffer.TotalSize {
		return fmt.Errorf("write of %d bytes at offset %d exceeds buffer size %d", len(data), offset, buffer.TotalSize)
	}
	wasMapped := buffer.Mapped != nil
	if !wasMapped {
		if _, err := buffer.Map(context); err != nil {
			return err
		}
	}
	vk.Memcopy(unsafe.Add(buffer.Mapped, int(offset)), data)
	if !wasMapped {
		buffer.Unmap(context)
	}
	return nil
}

// CopyTo submits a copy into dest on the transfer queue and waits for
// it to finish.
func (buffer *VulkanBuffer) CopyTo(context *VulkanContext, dest *VulkanBuffer, srcOffset, dstOffset, size vk.DeviceSize) error {
	device := context.Device
	commandBuffer, err := AllocateAndBeginSingleUse(context, device.TransferCommandPool)
	if err != nil {
		return err
	}
	region := vk.BufferCopy{
		SrcOffset: srcOffset,
		DstOffset: dstOffset,
		Size:      size,
	}
	vk.CmdCopyBuffer(commandBuffer.Handle, buffer.Handle, dest.Handle, 1, []vk.BufferCopy{region})
	return EndSingleUse(context, device.TransferCommandPool, commandBuffer, device.TransferQueue, uint32(device.TransferQueueIndex))
}

// UploadToDeviceLocal creates a device local buffer and fills it
// through a temporary staging buffer. Used for data written once, like
// geometry and the material table.
func UploadToDeviceLocal(context *VulkanContext, data []byte, usage vk.BufferUsageFlags) (*VulkanBuffer, error) {
	size := vk.DeviceSize(len(data))
	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, 0, data); err != nil {
		return nil, err
	}

	deviceLocal, err := BufferCreate(context, size,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	if err := staging.CopyTo(context, deviceLocal, 0, 0, size); err != nil {
		deviceLocal.Destroy(context)
		return nil, err
	}
	return deviceLocal, nil
}

type pendingUpload struct {
	commandBuffer *VulkanCommandBuffer
	pool          vk.CommandPool
	fence         *VulkanFence
	staging       *VulkanBuffer
}

// UploadWithSignal refills a device local buffer through a staging copy
// without waiting for it. The submission signals the given semaphore,
// which the caller hands to the presentation engine so the frame is not
// shown before the copy lands. Completion is tracked with a fence and
// the staging resources are reaped on a later frame.
func (buffer *VulkanBuffer) UploadWithSignal(context *VulkanContext, data []byte, signal vk.Semaphore) error {
	size := vk.DeviceSize(len(data))
	if size > buffer.TotalSize {
		return fmt.Errorf("upload of %d bytes does not fit the %d byte buffer", size, buffer.TotalSize)
	}
	if len(context.pendingUploads) >= VULKAN_MAX_PENDING_UPLOADS {
		context.ReapUploads(true)
	}

	device := context.Device
	staging, err := BufferCreate(context, size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	if err := staging.LoadData(context, 0, data); err != nil {
		staging.Destroy(context)
		return err
	}

	commandBuffer, err := AllocateAndBeginSingleUse(context, device.TransferCommandPool)
	if err != nil {
		staging.Destroy(context)
		return err
	}
	vk.CmdCopyBuffer(commandBuffer.Handle, staging.Handle, buffer.Handle, 1, []vk.BufferCopy{{Size: size}})
	if err := commandBuffer.End(); err != nil {
		staging.Destroy(context)
		return err
	}

	fence, err := FenceCreate(context, false)
	if err != nil {
		staging.Destroy(context)
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal},
	}
	err = lockPool.SafeQueueCall(uint32(device.TransferQueueIndex), func() error {
		if result := vk.QueueSubmit(device.TransferQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); !VulkanResultIsSuccess(result) {
			return fmt.Errorf("vkQueueSubmit failed with %s", VulkanResultString(result))
		}
		return nil
	})
	if err != nil {
		fence.Destroy(context)
		staging.Destroy(context)
		return err
	}
	commandBuffer.UpdateSubmitted()

	context.pendingUploads = append(context.pendingUploads, &pendingUpload{
		commandBuffer: commandBuffer,
		pool:          device.TransferCommandPool,
		fence:         fence,
		staging:       staging,
	})
	return nil
}

// ReapUploads frees the resources of finished staging copies. When
// block is set it waits for every outstanding copy first.
func (context *VulkanContext) ReapUploads(block bool) {
	remaining := context.pendingUploads[:0]
	for _, upload := range context.pendingUploads {
		done := upload.fence.IsSignaled
		if !done {
			if block {
				done = upload.fence.Wait(context, math.MaxUint64)
			} else {
				done = vk.GetFenceStatus(context.Device.LogicalDevice, upload.fence.Handle) == vk.Success
			}
		}
		if !done {
			remaining = append(remaining, upload)
			continue
		}
		CommandBufferFree(context, upload.pool, upload.commandBuffer)
		upload.fence.Destroy(context)
		upload.staging.Destroy(context)
	}
	context.pendingUploads = remaining
}
