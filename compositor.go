package overlayfx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPrimitiveVertices bounds the 3D primitive queue per frame. The
// backends size their dynamic vertex buffers to this capacity; excess
// vertices are dropped with a warning rather than growing the buffer
// mid-frame.
const MaxPrimitiveVertices = 65536

// FrameInfo carries the per-frame inputs every draw call receives
// explicitly: elapsed time, viewport resolution, and the 3D
// view-projection for the primitive path. There is no ambient global
// time or resolution anywhere in the compositor.
type FrameInfo struct {
	// Time is the elapsed time in seconds.
	Time float32

	// Width and Height are the viewport size in pixels.
	Width, Height int

	// ViewProjection transforms ElectricArc geometry to clip space.
	// Ignored when no 3D instances are active.
	ViewProjection mgl32.Mat4
}

// Resolution returns the viewport size as the float pair the parameter
// blocks carry.
func (f FrameInfo) Resolution() [2]float32 {
	return [2]float32{float32(f.Width), float32(f.Height)}
}

// Prefix builds the common 2D parameter-block prefix for this frame
// with the given gate. The fullscreen quad is generated in clip space,
// so the world-to-clip transform is identity unless the caller placed
// the quad with QuadTransform.
func (f FrameInfo) Prefix(gate PortalGate) QuadPrefix {
	return QuadPrefix{
		WorldClip:  mgl32.Ident4(),
		Time:       f.Time,
		Gate:       gate,
		Resolution: f.Resolution(),
	}
}

// QuadTransform returns the world-to-clip transform placing a w×h quad
// with its center at (x, y) on a screenW×screenH viewport, for hosts
// that composite the overlay as a positioned rectangle instead of a
// fullscreen pass.
func QuadTransform(x, y, w, h, screenW, screenH float32) mgl32.Mat4 {
	proj := mgl32.Ortho(-screenW/2, screenW/2, -screenH/2, screenH/2, 0, 1)
	world := mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(w, h, 1))
	return proj.Mul4(world)
}

// FrameRenderer executes one frame's effect dispatch against a bound
// target and source. The render and gpu packages provide
// implementations; both receive instances in caller order and must not
// reorder or cull them, since later effects observe the accumulated
// result of earlier ones.
type FrameRenderer interface {
	RenderFrame(info FrameInfo, instances []EffectInstance, primitives []Vertex3D) error
}

// Compositor orchestrates per-frame effect dispatch: it holds the
// ordered effect instances and the 3D primitive queue, and hands both
// to a FrameRenderer each frame.
//
// All methods are safe for concurrent use, but per-frame work follows
// the immediate-mode discipline of the underlying graphics API:
// RenderFrame runs synchronously on the caller's goroutine, which must
// be the one owning the device context.
type Compositor struct {
	mu         sync.Mutex
	renderer   FrameRenderer
	instances  []EffectInstance
	primitives []Vertex3D
	dropped    int
}

// NewCompositor creates a compositor that dispatches to the given
// renderer.
func NewCompositor(r FrameRenderer) (*Compositor, error) {
	if r == nil {
		return nil, errors.New("overlayfx: nil frame renderer")
	}
	return &Compositor{renderer: r}, nil
}

// SetEffects replaces the active effect instances. Order is
// significant: instances draw in exactly this order every frame.
func (c *Compositor) SetEffects(instances ...EffectInstance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = append(c.instances[:0], instances...)
}

// AddEffect appends an effect instance after the existing ones.
func (c *Compositor) AddEffect(inst EffectInstance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = append(c.instances, inst)
}

// Effects returns a copy of the active instances in dispatch order.
func (c *Compositor) Effects() []EffectInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EffectInstance, len(c.instances))
	copy(out, c.instances)
	return out
}

// QueueTriangles appends 3D vertices for the ElectricArc draw path.
// The vertices must form a triangle list. The queue is cleared after
// each frame; vertices beyond MaxPrimitiveVertices are dropped.
func (c *Compositor) QueueTriangles(verts ...Vertex3D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room := MaxPrimitiveVertices - len(c.primitives)
	if room <= 0 {
		c.dropped += len(verts)
		return
	}
	if len(verts) > room {
		c.dropped += len(verts) - room
		verts = verts[:room]
	}
	c.primitives = append(c.primitives, verts...)
}

// Frame renders one frame: every active instance draws in order, then
// the primitive queue is cleared. A frame either completes submission
// or is dropped whole by the caller; there is no partial retry here.
func (c *Compositor) Frame(info FrameInfo) error {
	c.mu.Lock()
	instances := append([]EffectInstance(nil), c.instances...)
	primitives := append([]Vertex3D(nil), c.primitives...)
	c.primitives = c.primitives[:0]
	dropped := c.dropped
	c.dropped = 0
	c.mu.Unlock()

	if dropped > 0 {
		Logger().Warn("primitive queue overflow, vertices dropped",
			"dropped", dropped, "capacity", MaxPrimitiveVertices)
	}

	if err := c.renderer.RenderFrame(info, instances, primitives); err != nil {
		return fmt.Errorf("overlayfx: frame: %w", err)
	}
	return nil
}
