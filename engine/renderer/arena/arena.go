// Package arena implements the transient GPU buffer arena described in
// SPEC_FULL.md §4.B: a single host-visible, host-coherent GPU buffer that
// is bump-allocated once per frame and reset wholesale at frame start.
// It exists so per-frame data (uniform updates, dynamic vertex pushes)
// never needs its own CreateBuffer/Release round-trip, grounded on the
// teacher's wgpu_renderer_backend.go InitMeshBuffers/InitBindGroup buffer
// creation calls.
package arena

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// alignment is the byte alignment every allocation is rounded up to,
// matching common GPU uniform/storage offset alignment requirements.
const alignment = 16

// Allocation is a transient range within the arena's backing buffer,
// valid only until the next Reset.
type Allocation struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Size   uint64
}

// Arena is a process-wide, single-instance, frame-scoped bump allocator
// over one GPU buffer. It is not safe for concurrent use: callers must
// serialize Allocate/Reset with the frame loop, matching §5's single
// frame-loop-goroutine ownership model.
type Arena struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	buf    *wgpu.Buffer
	cap    uint64
	offset uint64
}

// New creates an Arena backed by a single buffer of capacityBytes,
// usable as vertex, index, uniform, and copy-destination data.
func New(device *wgpu.Device, queue *wgpu.Queue, capacityBytes uint64) (*Arena, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Transient Arena Buffer",
		Size:  capacityBytes,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageIndex |
			wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("arena: create buffer: %w", err)
	}
	return &Arena{device: device, queue: queue, buf: buf, cap: capacityBytes}, nil
}

// Allocate bump-allocates size bytes 16-byte aligned and uploads data
// into the allocation (data may be nil or shorter than size, for
// allocations the caller writes to incrementally via WriteBuffer
// elsewhere). Returns an error — exhaustion is a fatal condition per
// §4.B, so callers should treat it as unrecoverable for the frame.
func (a *Arena) Allocate(size uint64, data []byte) (Allocation, error) {
	aligned := (a.offset + alignment - 1) / alignment * alignment
	if aligned+size > a.cap {
		return Allocation{}, fmt.Errorf("arena: out of memory: requested %d bytes at offset %d, capacity %d", size, aligned, a.cap)
	}
	if len(data) > 0 {
		a.queue.WriteBuffer(a.buf, aligned, data)
	}
	a.offset = aligned + size
	return Allocation{Buffer: a.buf, Offset: aligned, Size: size}, nil
}

// Reset reclaims the entire arena for reuse. Callers must not retain any
// Allocation returned since the previous Reset.
func (a *Arena) Reset() {
	a.offset = 0
}

// Used reports how many bytes of the arena are currently allocated.
func (a *Arena) Used() uint64 {
	return a.offset
}

// Capacity reports the arena's total backing buffer size.
func (a *Arena) Capacity() uint64 {
	return a.cap
}

// Release frees the backing GPU buffer. The Arena must not be used
// afterward.
func (a *Arena) Release() {
	if a.buf != nil {
		a.buf.Release()
		a.buf = nil
	}
}
