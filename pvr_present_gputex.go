// pvr_present_gputex.go - GPU-resident texture presenter for compositor integration

//go:build !headless

package main

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// GPUTexPresenter uploads every published frame into a GPU-resident,
// sampled Vulkan image instead of a window. CORE already resolves shading
// entirely in software before a frame reaches here, so this carries none
// of the triangle pipeline machinery a hardware rasterizer backend would
// need: no shader modules, no vertex buffer, no render pass. It keeps only
// the offscreen-image/staging-buffer/command-submission idiom, inverted
// from readback (GPU->CPU) to upload (CPU->GPU), so a host compositor can
// sample the image directly instead of reading GetFrame() back to the CPU.
type GPUTexPresenter struct {
	mutex sync.RWMutex

	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	graphicsQueue  vk.Queue
	queueFamily    uint32

	width, height int

	image       vk.Image
	imageMemory vk.DeviceMemory
	imageView   vk.ImageView

	stagingBuffer       vk.Buffer
	stagingBufferMemory vk.DeviceMemory

	commandPool   vk.CommandPool
	commandBuffer vk.CommandBuffer
	fence         vk.Fence

	initialized bool
	started     bool
	config      DisplayConfig
	frameCount  uint64
	refreshRate int

	// software is the fallback sink used whenever Vulkan init fails; it
	// accepts and counts frames but does not display or retain them.
	software *HeadlessPresenter
}

func NewGPUTexPresenter() (*GPUTexPresenter, error) {
	p := &GPUTexPresenter{
		width:       pvrDefaultWidth,
		height:      pvrDefaultHeight,
		refreshRate: 60,
		software:    NewHeadlessPresenter(),
		config:      DisplayConfig{Width: pvrDefaultWidth, Height: pvrDefaultHeight, Scale: 1},
	}
	return p, nil
}

func (p *GPUTexPresenter) Start() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started {
		return nil
	}
	if err := p.initVulkan(); err != nil {
		fmt.Printf("presenter: vulkan texture init failed, falling back to headless: %v\n", err)
		p.initialized = false
	} else {
		p.initialized = true
	}
	p.started = true
	return p.software.Start()
}

func (p *GPUTexPresenter) initVulkan() error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString("PVR GPU Texture Presenter"),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString("PVR"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 1, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}

	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("loading vulkan library: %w", err)
	}
	if err := vk.Init(); err != nil {
		return fmt.Errorf("initializing vulkan loader: %w", err)
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return fmt.Errorf("vkCreateInstance failed: %d", res)
	}
	p.instance = instance
	vk.InitInstance(instance)

	if err := p.selectPhysicalDevice(); err != nil {
		return err
	}
	if err := p.createDevice(); err != nil {
		return err
	}
	if err := p.createCommandPool(); err != nil {
		return err
	}
	if err := p.createImage(); err != nil {
		return err
	}
	if err := p.createStagingBuffer(); err != nil {
		return err
	}
	if err := p.createCommandBuffer(); err != nil {
		return err
	}
	return p.createFence()
}

func (p *GPUTexPresenter) selectPhysicalDevice() error {
	var deviceCount uint32
	vk.EnumeratePhysicalDevices(p.instance, &deviceCount, nil)
	if deviceCount == 0 {
		return fmt.Errorf("no Vulkan-capable GPUs found")
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	vk.EnumeratePhysicalDevices(p.instance, &deviceCount, devices)

	for _, device := range devices {
		var queueFamilyCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
		queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

		for i, qf := range queueFamilies {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				p.physicalDevice = device
				p.queueFamily = uint32(i)
				return nil
			}
		}
	}
	return fmt.Errorf("no suitable GPU with a graphics queue found")
}

func (p *GPUTexPresenter) createDevice() error {
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: p.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
	}

	var device vk.Device
	if res := vk.CreateDevice(p.physicalDevice, &deviceCreateInfo, nil, &device); res != vk.Success {
		return fmt.Errorf("vkCreateDevice failed: %d", res)
	}
	p.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, p.queueFamily, 0, &queue)
	p.graphicsQueue = queue
	return nil
}

func (p *GPUTexPresenter) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: p.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(p.device, &poolInfo, nil, &pool); res != vk.Success {
		return fmt.Errorf("vkCreateCommandPool failed: %d", res)
	}
	p.commandPool = pool
	return nil
}

// createImage allocates the GPU-resident target: sampled (for a
// compositor to read) and transfer-dst (for UpdateFrame to write into).
func (p *GPUTexPresenter) createImage() error {
	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.FormatR8g8b8a8Unorm,
		Extent:    vk.Extent3D{Width: uint32(p.width), Height: uint32(p.height), Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferDstBit),
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if res := vk.CreateImage(p.device, &imageInfo, nil, &image); res != vk.Success {
		return fmt.Errorf("vkCreateImage failed: %d", res)
	}
	p.image = image

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(p.device, image, &memReqs)
	memReqs.Deref()

	memTypeIndex, err := p.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(p.device, &allocInfo, nil, &memory); res != vk.Success {
		return fmt.Errorf("vkAllocateMemory (image) failed: %d", res)
	}
	p.imageMemory = memory
	vk.BindImageMemory(p.device, image, memory, 0)

	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   vk.FormatR8g8b8a8Unorm,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(p.device, &viewInfo, nil, &view); res != vk.Success {
		return fmt.Errorf("vkCreateImageView failed: %d", res)
	}
	p.imageView = view
	return nil
}

func (p *GPUTexPresenter) createStagingBuffer() error {
	bufferSize := vk.DeviceSize(p.width * p.height * 4)
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        bufferSize,
		Usage:       vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if res := vk.CreateBuffer(p.device, &bufferInfo, nil, &buffer); res != vk.Success {
		return fmt.Errorf("vkCreateBuffer (staging) failed: %d", res)
	}
	p.stagingBuffer = buffer

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(p.device, buffer, &memReqs)
	memReqs.Deref()

	memTypeIndex, err := p.findMemoryType(memReqs.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}
	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(p.device, &allocInfo, nil, &memory); res != vk.Success {
		return fmt.Errorf("vkAllocateMemory (staging) failed: %d", res)
	}
	p.stagingBufferMemory = memory
	vk.BindBufferMemory(p.device, buffer, memory, 0)
	return nil
}

func (p *GPUTexPresenter) createCommandBuffer() error {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	buffers := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(p.device, &allocInfo, buffers); res != vk.Success {
		return fmt.Errorf("vkAllocateCommandBuffers failed: %d", res)
	}
	p.commandBuffer = buffers[0]
	return nil
}

func (p *GPUTexPresenter) createFence() error {
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	var fence vk.Fence
	if res := vk.CreateFence(p.device, &fenceInfo, nil, &fence); res != vk.Success {
		return fmt.Errorf("vkCreateFence failed: %d", res)
	}
	p.fence = fence
	return nil
}

func (p *GPUTexPresenter) findMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.physicalDevice, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memProps.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("failed to find suitable memory type")
}

func (p *GPUTexPresenter) Stop() error {
	p.mutex.Lock()
	p.started = false
	p.mutex.Unlock()
	return p.software.Stop()
}

func (p *GPUTexPresenter) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.initialized {
		vk.DeviceWaitIdle(p.device)
		vk.DestroyFence(p.device, p.fence, nil)
		vk.DestroyBuffer(p.device, p.stagingBuffer, nil)
		vk.FreeMemory(p.device, p.stagingBufferMemory, nil)
		vk.DestroyImageView(p.device, p.imageView, nil)
		vk.DestroyImage(p.device, p.image, nil)
		vk.FreeMemory(p.device, p.imageMemory, nil)
		vk.DestroyCommandPool(p.device, p.commandPool, nil)
		vk.DestroyDevice(p.device, nil)
		vk.DestroyInstance(p.instance, nil)
		p.initialized = false
	}
	p.started = false
	return p.software.Close()
}

func (p *GPUTexPresenter) IsStarted() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.started
}

func (p *GPUTexPresenter) SetDisplayConfig(config DisplayConfig) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.config = config
	return p.software.SetDisplayConfig(config)
}

func (p *GPUTexPresenter) GetDisplayConfig() DisplayConfig {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.config
}

// UpdateFrame uploads an RGBA8 buffer into the GPU texture via the
// host-visible staging buffer, then blits it into the device-local image.
func (p *GPUTexPresenter) UpdateFrame(buffer []byte) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.frameCount++
	if !p.initialized {
		return p.software.UpdateFrame(buffer)
	}

	want := p.width * p.height * 4
	if len(buffer) < want {
		return &PresentError{Operation: "update frame", Details: fmt.Sprintf("buffer too small: got %d, want %d", len(buffer), want)}
	}

	var data unsafe.Pointer
	vk.MapMemory(p.device, p.stagingBufferMemory, 0, vk.DeviceSize(want), 0, &data)
	copy((*[1 << 30]byte)(data)[:want], buffer[:want])
	vk.UnmapMemory(p.device, p.stagingBufferMemory)

	vk.ResetFences(p.device, 1, []vk.Fence{p.fence})
	vk.ResetCommandBuffer(p.commandBuffer, 0)

	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	vk.BeginCommandBuffer(p.commandBuffer, &beginInfo)

	region := vk.BufferImageCopy{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageOffset: vk.Offset3D{X: 0, Y: 0, Z: 0},
		ImageExtent: vk.Extent3D{Width: uint32(p.width), Height: uint32(p.height), Depth: 1},
	}
	vk.CmdCopyBufferToImage(p.commandBuffer, p.stagingBuffer, p.image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
	vk.EndCommandBuffer(p.commandBuffer)

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{p.commandBuffer},
	}
	vk.QueueSubmit(p.graphicsQueue, 1, []vk.SubmitInfo{submitInfo}, p.fence)
	vk.WaitForFences(p.device, 1, []vk.Fence{p.fence}, vk.True, ^uint64(0))
	return nil
}

func (p *GPUTexPresenter) WaitForVSync() error { return nil }

func (p *GPUTexPresenter) GetFrameCount() uint64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.frameCount
}

func (p *GPUTexPresenter) GetRefreshRate() int { return p.refreshRate }

// TextureHandle exposes the raw Vulkan image/view for a host compositor to
// sample directly, bypassing GetFrame()/CPU readback entirely.
func (p *GPUTexPresenter) TextureHandle() (vk.Image, vk.ImageView, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.image, p.imageView, p.initialized
}
