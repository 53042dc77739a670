package server

// frameBuffer is a fixed-capacity byte buffer with an explicit fill cursor.
// It never grows, so a client can hold at most one frame of server memory
// per direction.
type frameBuffer struct {
	buf []byte
	n   int
}

func newFrameBuffer(size int) frameBuffer {
	return frameBuffer{buf: make([]byte, size)}
}

// Len is the number of buffered bytes.
func (b *frameBuffer) Len() int { return b.n }

// Full reports whether the buffer holds a complete frame.
func (b *frameBuffer) Full() bool { return b.n == len(b.buf) }

// Bytes returns the buffered bytes. The slice aliases the buffer.
func (b *frameBuffer) Bytes() []byte { return b.buf[:b.n] }

// Space returns the unfilled tail, for reading into.
func (b *frameBuffer) Space() []byte { return b.buf[b.n:] }

// Fill marks n more bytes of Space as buffered.
func (b *frameBuffer) Fill(n int) {
	b.n += n
}

// Consume drops the first n bytes and moves the rest to the front.
func (b *frameBuffer) Consume(n int) {
	if n >= b.n {
		b.n = 0
		return
	}
	copy(b.buf, b.buf[n:b.n])
	b.n -= n
}

// Load replaces the contents with src, which must fit.
func (b *frameBuffer) Load(src []byte) {
	b.n = copy(b.buf, src)
}

// Reset empties the buffer.
func (b *frameBuffer) Reset() {
	b.n = 0
}
