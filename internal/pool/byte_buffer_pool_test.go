package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 1024, bb.Cap(), "new buffer should have specified capacity")
}

func TestByteBuffer_WriteReset(t *testing.T) {
	bb := NewByteBuffer(ScratchBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	_, _ = bb.Write([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.Bytes())
	assert.Equal(t, int64(11), bb.Size())

	originalCap := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		assert.Equal(t, 100, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		_, _ = bb.Write([]byte("0123456789"))
		bb.Grow(1)
		assert.Equal(t, 10+ScratchBufferDefaultSize, bb.Cap())
		assert.Equal(t, []byte("0123456789"), bb.Bytes())
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(ScratchBufferDefaultSize * 3)
		assert.Equal(t, ScratchBufferDefaultSize*3, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * ScratchBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})
}

func TestByteBuffer_WriteAt(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.WriteAt([]byte("abc"), 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{0, 0, 'a', 'b', 'c'}, bb.Bytes())

	_, err = bb.WriteAt([]byte("XY"), 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 'X', 'Y', 'b', 'c'}, bb.Bytes())

	_, err = bb.WriteAt([]byte("Z"), 4)
	require.NoError(t, err)
	require.Equal(t, 5, bb.Len())

	_, err = bb.WriteAt([]byte("x"), -1)
	require.Error(t, err)
}

func TestByteBuffer_WriteAtClearsReusedMemory(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write(bytes.Repeat([]byte{0xff}, 16))
	bb.Reset()

	_, err := bb.WriteAt([]byte{1}, 8)
	require.NoError(t, err)
	require.Equal(t, append(make([]byte, 8), 1), bb.Bytes())
}

func TestByteBuffer_ReadAt(t *testing.T) {
	bb := WrapByteBuffer([]byte("netcdf"))

	p := make([]byte, 3)
	n, err := bb.ReadAt(p, 1)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("etc"), p)

	n, err = bb.ReadAt(p, 4)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)
	require.Equal(t, []byte("df"), p[:n])

	n, err = bb.ReadAt(p, 6)
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, n)

	_, err = bb.ReadAt(p, -2)
	require.Error(t, err)

	r := io.NewSectionReader(bb, 0, bb.Size())
	all, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, []byte("netcdf"), all)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := WrapByteBuffer([]byte("image"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "image", out.String())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(64, 128)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	_, _ = bb.Write([]byte("data"))
	p.Put(bb)

	reused := p.Get()
	require.Equal(t, 0, reused.Len(), "pooled buffers are handed out empty")

	big := NewByteBuffer(256)
	p.Put(big)
	p.Put(nil)
}

func TestDefaultPools(t *testing.T) {
	bb := GetImageBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	PutImageBuffer(bb)

	sb := GetScratchBuffer()
	require.NotNil(t, sb)
	PutScratchBuffer(sb)
}

func TestByteBufferPool_Concurrent(t *testing.T) {
	p := NewByteBufferPool(64, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bb := p.Get()
				_, _ = bb.WriteAt([]byte{byte(id)}, int64(j%16))
				p.Put(bb)
			}
		}(i)
	}
	wg.Wait()
}
