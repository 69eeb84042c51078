package vulkan

import (
	"errors"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/math"
)

// VulkanGeometryData keeps one device local buffer per vertex
// attribute, matching the separate streams the scene pipeline consumes,
// plus the index buffer.
type VulkanGeometryData struct {
	ID          uint32
	Generation  uint32
	VertexCount uint32
	IndexCount  uint32

	PositionBuffer *VulkanBuffer
	TexcoordBuffer *VulkanBuffer
	NormalBuffer   *VulkanBuffer
	IndexBuffer    *VulkanBuffer
}

// GeometryCreate splits the vertices into their attribute streams and
// uploads everything to device local memory.
func GeometryCreate(context *VulkanContext, vertices []math.Vertex3D, indices []uint32) (*VulkanGeometryData, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("geometry requires both vertices and indices")
	}

	positions := make([]float32, 0, len(vertices)*3)
	texcoords := make([]float32, 0, len(vertices)*2)
	normals := make([]float32, 0, len(vertices)*3)
	for _, vertex := range vertices {
		positions = append(positions, vertex.Position.X, vertex.Position.Y, vertex.Position.Z)
		texcoords = append(texcoords, vertex.Texcoord.X, vertex.Texcoord.Y)
		normals = append(normals, vertex.Normal.X, vertex.Normal.Y, vertex.Normal.Z)
	}

	geometry := &VulkanGeometryData{
		VertexCount: uint32(len(vertices)),
		IndexCount:  uint32(len(indices)),
	}

	vertexUsage := vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	var err error
	if geometry.PositionBuffer, err = UploadToDeviceLocal(context, float32Bytes(positions), vertexUsage); err != nil {
		return nil, err
	}
	if geometry.TexcoordBuffer, err = UploadToDeviceLocal(context, float32Bytes(texcoords), vertexUsage); err != nil {
		geometry.Destroy(context)
		return nil, err
	}
	if geometry.NormalBuffer, err = UploadToDeviceLocal(context, float32Bytes(normals), vertexUsage); err != nil {
		geometry.Destroy(context)
		return nil, err
	}
	if geometry.IndexBuffer, err = UploadToDeviceLocal(context, uint32Bytes(indices), vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)); err != nil {
		geometry.Destroy(context)
		return nil, err
	}

	return geometry, nil
}

func (geometry *VulkanGeometryData) Destroy(context *VulkanContext) {
	for _, buffer := range []*VulkanBuffer{
		geometry.PositionBuffer,
		geometry.TexcoordBuffer,
		geometry.NormalBuffer,
		geometry.IndexBuffer,
	} {
		if buffer != nil {
			buffer.Destroy(context)
		}
	}
	geometry.PositionBuffer = nil
	geometry.TexcoordBuffer = nil
	geometry.NormalBuffer = nil
	geometry.IndexBuffer = nil
}

// Draw binds all three attribute streams and issues the indexed draw.
func (geometry *VulkanGeometryData) Draw(commandBuffer *VulkanCommandBuffer) {
	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 3,
		[]vk.Buffer{geometry.PositionBuffer.Handle, geometry.TexcoordBuffer.Handle, geometry.NormalBuffer.Handle},
		[]vk.DeviceSize{0, 0, 0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, geometry.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(commandBuffer.Handle, geometry.IndexCount, 1, 0, 0, 0)
}

// DrawPositionsOnly binds just the position stream, used by pipelines
// that ignore the other attributes.
func (geometry *VulkanGeometryData) DrawPositionsOnly(commandBuffer *VulkanCommandBuffer) {
	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1,
		[]vk.Buffer{geometry.PositionBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(commandBuffer.Handle, geometry.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(commandBuffer.Handle, geometry.IndexCount, 1, 0, 0, 0)
}
