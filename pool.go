package seri

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 << 10
	poolInitCap = 512
)

// output buffer pool for Marshal
var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

func getBuf() []byte {
	return (*bufPool.Get().(*[]byte))[:0]
}

func putBuf(buf []byte) {
	if cap(buf) == 0 || cap(buf) > poolMaxCap {
		return // reject oversized
	}
	buf = buf[:0]
	bufPool.Put(&buf)
}
