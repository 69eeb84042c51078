package vulkan

import "sync"

// VulkanLockPool serializes submissions per queue family. Queues are
// external synchronization objects, so every vkQueueSubmit and
// vkQueuePresent touching the same queue must be guarded.
type VulkanLockPool struct {
	mu     sync.Mutex
	queues map[uint32]*sync.Mutex
}

var lockPool = NewVulkanLockPool()

func NewVulkanLockPool() *VulkanLockPool {
	return &VulkanLockPool{
		queues: make(map[uint32]*sync.Mutex),
	}
}

func (p *VulkanLockPool) get(queueFamily uint32) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.queues[queueFamily]
	if !ok {
		m = &sync.Mutex{}
		p.queues[queueFamily] = m
	}
	return m
}

// SafeQueueCall runs fn while holding the lock for the given queue
// family. The pool lock itself is released before fn runs so separate
// families do not contend with each other.
func (p *VulkanLockPool) SafeQueueCall(queueFamily uint32, fn func() error) error {
	m := p.get(queueFamily)
	m.Lock()
	defer m.Unlock()
	return fn()
}
