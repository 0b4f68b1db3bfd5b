package handler

import (
	"bytes"
	"sync"
)

// bufferPool reuses encoding buffers across responses. Most bodies are
// small price and report payloads; deep decision trees grow the buffer
// once and the pool keeps the larger backing array for the next tree.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// getBuffer retrieves a buffer from the pool
func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer resets the buffer and returns it to the pool
func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
