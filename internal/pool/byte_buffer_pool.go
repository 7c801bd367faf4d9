package pool

import (
	"fmt"
	"io"
	"sync"
)

// Default sizes of the pooled buffers.
const (
	ScratchBufferDefaultSize  = 1024 * 16        // 16KiB
	ScratchBufferMaxThreshold = 1024 * 256       // 256KiB
	ImageBufferDefaultSize    = 1024 * 64        // 64KiB
	ImageBufferMaxThreshold   = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is a growable byte slice that can be used both as a sequential
// writer and as a random access file image (io.ReaderAt and io.WriterAt).
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

var (
	_ io.ReaderAt = (*ByteBuffer)(nil)
	_ io.WriterAt = (*ByteBuffer)(nil)
	_ io.Writer   = (*ByteBuffer)(nil)
)

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// WrapByteBuffer returns a ByteBuffer over data without copying it.
func WrapByteBuffer(data []byte) *ByteBuffer {
	return &ByteBuffer{B: data}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Size returns the length of the buffer as a file size.
func (bb *ByteBuffer) Size() int64 {
	return int64(len(bb.B))
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// Small buffers grow by ScratchBufferDefaultSize, larger ones by 25% of
// their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ScratchBufferDefaultSize
	if cap(bb.B) > 4*ScratchBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ReadAt reads len(p) bytes starting at offset off.
// It returns io.EOF when fewer than len(p) bytes are available.
func (bb *ByteBuffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("pool: negative offset %d", off)
	}
	if off >= int64(len(bb.B)) {
		return 0, io.EOF
	}

	n := copy(p, bb.B[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt writes p at offset off, extending the buffer when needed.
// A gap between the current end and off is zero filled.
func (bb *ByteBuffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("pool: negative offset %d", off)
	}

	end := int(off) + len(p)
	if end > len(bb.B) {
		cur := len(bb.B)
		bb.Grow(end - cur)
		bb.B = bb.B[:end]
		if int(off) > cur {
			clear(bb.B[cur:off])
		}
	}

	return copy(bb.B[off:], p), nil
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// Buffers that grew beyond maxThreshold are dropped instead of being
// returned to the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	scratchDefaultPool = NewByteBufferPool(ScratchBufferDefaultSize, ScratchBufferMaxThreshold)
	imageDefaultPool   = NewByteBufferPool(ImageBufferDefaultSize, ImageBufferMaxThreshold)
)

// GetScratchBuffer retrieves a ByteBuffer from the default scratch pool.
func GetScratchBuffer() *ByteBuffer {
	return scratchDefaultPool.Get()
}

// PutScratchBuffer returns a ByteBuffer to the default scratch pool.
func PutScratchBuffer(bb *ByteBuffer) {
	scratchDefaultPool.Put(bb)
}

// GetImageBuffer retrieves a ByteBuffer from the file image pool.
func GetImageBuffer() *ByteBuffer {
	return imageDefaultPool.Get()
}

// PutImageBuffer returns a ByteBuffer to the file image pool.
func PutImageBuffer(bb *ByteBuffer) {
	imageDefaultPool.Put(bb)
}
