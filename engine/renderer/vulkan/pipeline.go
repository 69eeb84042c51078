package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

type VulkanPipeline struct {
	Handle vk.Pipeline
	Config metadata.PipelineConfig
}

// PipelineCreate builds a graphics pipeline against the shared pipeline
// layout and the main render pass. Viewport and scissor are dynamic so
// pipelines survive window resizes.
func PipelineCreate(context *VulkanContext, config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) (*VulkanPipeline, error) {
	vertexModule, err := ShaderModuleCreate(context, vertexSPV)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s vertex stage: %w", config.Name, err)
	}
	defer vk.DestroyShaderModule(context.Device.LogicalDevice, vertexModule, context.Allocator)

	fragmentModule, err := ShaderModuleCreate(context, fragmentSPV)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s fragment stage: %w", config.Name, err)
	}
	defer vk.DestroyShaderModule(context.Device.LogicalDevice, fragmentModule, context.Allocator)

	stages := []vk.PipelineShaderStageCreateInfo{
		shaderStage(vertexModule, vk.ShaderStageVertexBit),
		shaderStage(fragmentModule, vk.ShaderStageFragmentBit),
	}

	bindings, attributes := vertexInput(config.Layout)
	vertexInputState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: vk.PrimitiveTopologyTriangleList,
	}

	// Placeholder values, replaced by the dynamic state every frame.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports: []vk.Viewport{{
			Width:    float32(context.FramebufferWidth),
			Height:   float32(context.FramebufferHeight),
			MaxDepth: 1,
		}},
		ScissorCount: 1,
		PScissors: []vk.Rect2D{{
			Extent: vk.Extent2D{Width: context.FramebufferWidth, Height: context.FramebufferHeight},
		}},
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: vk.PolygonModeFill,
		LineWidth:   1,
		CullMode:    cullModeFlags(config.CullMode),
		// The projection already flips Y, which keeps counter clockwise
		// models counter clockwise on screen.
		FrontFace: vk.FrontFaceCounterClockwise,
	}

	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		MinSampleShading:     1,
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:          vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthCompareOp: vk.CompareOpLess,
	}
	if config.DepthTest {
		depthStencil.DepthTestEnable = vk.True
	}
	if config.DepthWrite {
		depthStencil.DepthWriteEnable = vk.True
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	if config.Blend {
		colorBlendAttachment.BlendEnable = vk.True
		colorBlendAttachment.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		colorBlendAttachment.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		colorBlendAttachment.ColorBlendOp = vk.BlendOpAdd
		colorBlendAttachment.SrcAlphaBlendFactor = vk.BlendFactorOne
		colorBlendAttachment.DstAlphaBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		colorBlendAttachment.AlphaBlendOp = vk.BlendOpAdd
	}
	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
	}
	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlending,
		PDynamicState:       &dynamicState,
		Layout:              context.PipelineLayout,
		RenderPass:          context.MainRenderPass.Handle,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	result := vk.CreateGraphicsPipelines(context.Device.LogicalDevice, vk.NullPipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo}, context.Allocator, pipelines)
	if !VulkanResultIsSuccess(result) {
		return nil, fmt.Errorf("vkCreateGraphicsPipelines failed for %s with %s", config.Name, VulkanResultString(result))
	}

	return &VulkanPipeline{
		Handle: pipelines[0],
		Config: config,
	}, nil
}

func (pipeline *VulkanPipeline) Destroy(context *VulkanContext) {
	if pipeline.Handle != vk.NullPipeline {
		vk.DestroyPipeline(context.Device.LogicalDevice, pipeline.Handle, context.Allocator)
		pipeline.Handle = vk.NullPipeline
	}
}

func (pipeline *VulkanPipeline) Bind(commandBuffer *VulkanCommandBuffer) {
	vk.CmdBindPipeline(commandBuffer.Handle, vk.PipelineBindPointGraphics, pipeline.Handle)
}

func vertexInput(layout metadata.VertexLayout) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	switch layout {
	case metadata.VertexLayoutPosition:
		return []vk.VertexInputBindingDescription{
				{Binding: 0, Stride: 12, InputRate: vk.VertexInputRateVertex},
			}, []vk.VertexInputAttributeDescription{
				{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
			}
	case metadata.VertexLayoutScreen:
		return []vk.VertexInputBindingDescription{
				{Binding: 0, Stride: 16, InputRate: vk.VertexInputRateVertex},
			}, []vk.VertexInputAttributeDescription{
				{Location: 0, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: 0},
				{Location: 1, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: 8},
			}
	default:
		// Positions, texture coordinates and normals as separate streams.
		return []vk.VertexInputBindingDescription{
				{Binding: 0, Stride: 12, InputRate: vk.VertexInputRateVertex},
				{Binding: 1, Stride: 8, InputRate: vk.VertexInputRateVertex},
				{Binding: 2, Stride: 12, InputRate: vk.VertexInputRateVertex},
			}, []vk.VertexInputAttributeDescription{
				{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
				{Location: 1, Binding: 1, Format: vk.FormatR32g32Sfloat, Offset: 0},
				{Location: 2, Binding: 2, Format: vk.FormatR32g32b32Sfloat, Offset: 0},
			}
	}
}

func cullModeFlags(mode metadata.FaceCullMode) vk.CullModeFlags {
	switch mode {
	case metadata.FaceCullModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case metadata.FaceCullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.FaceCullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	default:
		return vk.CullModeFlags(vk.CullModeBackBit)
	}
}
