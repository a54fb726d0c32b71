package render

import "sync"

// FrameExchange hands source textures from the UI producer thread to
// the compositor thread without sharing a buffer mid-write. It is an
// explicit double buffer: the producer draws into the back texture and
// publishes it; the compositor acquires the most recently published
// front texture.
//
// The contract is release/acquire, not a lock around the pixels: after
// Publish the producer owns the other buffer, and the buffer returned
// by Acquire stays valid and unwritten until the producer's next
// Publish. The compositor must finish its frame before then. With one
// publish per rendered frame this holds by construction.
type FrameExchange struct {
	mu    sync.Mutex
	front *SourceTexture
	back  *SourceTexture
	gen   uint64
}

// NewFrameExchange allocates a double-buffered exchange of the given
// texture size.
func NewFrameExchange(width, height int) *FrameExchange {
	return &FrameExchange{
		front: NewSourceTexture(width, height),
		back:  NewSourceTexture(width, height),
	}
}

// Back returns the texture the producer may write. It is never the
// texture a concurrent Acquire returns.
func (e *FrameExchange) Back() *SourceTexture {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.back
}

// Publish makes the back texture visible to Acquire and hands the
// previous front texture to the producer for the next frame. Returns
// the new generation number.
func (e *FrameExchange) Publish() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.front, e.back = e.back, e.front
	e.gen++
	return e.gen
}

// Resize reallocates both buffers at the new size. Pending content is
// discarded; the generation keeps counting so consumers notice the
// next publish.
func (e *FrameExchange) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.front = NewSourceTexture(width, height)
	e.back = NewSourceTexture(width, height)
}

// Acquire returns the most recently published texture and its
// generation. Generation 0 means nothing has been published yet; the
// texture is then the initial blank front buffer.
func (e *FrameExchange) Acquire() (*SourceTexture, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.front, e.gen
}
