package lambdust

import (
	"fmt"
	"strings"
	"sync"
)

// Bytevector is R7RS's fixed-length sequence of bytes (spec §3).
type Bytevector struct {
	header GCHeader
	mu     sync.RWMutex
	Bytes  []byte
}

func NewBytevector(data []byte) *Bytevector {
	bv := &Bytevector{Bytes: data}
	bv.header = *newHeader(TagBytevector, uint32(len(data)))
	return bv
}

func NewBytevectorOfLength(n int, fill byte) *Bytevector {
	data := make([]byte, n)
	for i := range data {
		data[i] = fill
	}
	return NewBytevector(data)
}

func (*Bytevector) Kind() ValueKind             { return KindBytevector }
func (bv *Bytevector) gcHeader() *GCHeader       { return &bv.header }
func (bv *Bytevector) traceRefs(func(Traceable)) {}

func (bv *Bytevector) Length() int {
	bv.mu.RLock()
	defer bv.mu.RUnlock()
	return len(bv.Bytes)
}

func (bv *Bytevector) Ref(i int) (byte, error) {
	bv.mu.RLock()
	defer bv.mu.RUnlock()
	if i < 0 || i >= len(bv.Bytes) {
		return 0, TypeErrorf("bytevector-u8-ref: index %d out of bounds [0,%d)", i, len(bv.Bytes))
	}
	return bv.Bytes[i], nil
}

func (bv *Bytevector) Set(i int, val byte) error {
	bv.mu.Lock()
	defer bv.mu.Unlock()
	if i < 0 || i >= len(bv.Bytes) {
		return TypeErrorf("bytevector-u8-set!: index %d out of bounds [0,%d)", i, len(bv.Bytes))
	}
	bv.Bytes[i] = val
	return nil
}

func (bv *Bytevector) Snapshot() []byte {
	bv.mu.RLock()
	defer bv.mu.RUnlock()
	out := make([]byte, len(bv.Bytes))
	copy(out, bv.Bytes)
	return out
}

func (bv *Bytevector) writeForm(sb *strings.Builder)   { bv.render(sb) }
func (bv *Bytevector) displayForm(sb *strings.Builder) { bv.render(sb) }

func (bv *Bytevector) render(sb *strings.Builder) {
	data := bv.Snapshot()
	sb.WriteString("#u8(")
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(sb, "%d", b)
	}
	sb.WriteByte(')')
}
