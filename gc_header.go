package lambdust

import "sync/atomic"

// Generation is one of the three heap generations (spec §4.4).
type Generation uint8

const (
	GenYoung Generation = iota
	GenOld
	GenPermanent
)

func (g Generation) String() string {
	switch g {
	case GenYoung:
		return "young"
	case GenOld:
		return "old"
	case GenPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// TypeTag enables the collector to trace references without walking the
// value payload dynamically (spec §3: "a type tag enabling the collector
// to trace references without walking the value payload dynamically").
type TypeTag uint8

const (
	TagPair TypeTag = iota
	TagMutablePair
	TagVector
	TagBytevector
	TagMutableString
	TagInternedString
	TagBigInt
	TagRational
	TagComplex
	TagHashTable
	TagSet
	TagBag
	TagDeque
	TagQueue
	TagClosure
	TagPrimitive
	TagContinuation
	TagPort
	TagPromise
	TagRecord
	TagRecordType
	TagParameter
	TagErrorObject
	TagCharSet
	TagForeign
)

var globalAllocCounter uint64

// GCHeader is embedded as the first field of every heap-allocated value
// (spec §3: "Every heap allocation carries: generation id ... mark bit,
// forwarding pointer ..., precise size, and a type tag"). AllocID is a
// monotonically increasing allocation-order id that stands in for a real
// memory address: it is what mutable-value hashing anchors to so a
// hash-table key built from a mutable pair/string/vector keeps a stable
// hash across mutation (spec §3 "Equality").
type GCHeader struct {
	AllocID   uint64
	Tag       TypeTag
	Size      uint32
	gen       Generation
	mark      bool
	grey      bool // tri-color marking state during concurrent major GC
	forwarded bool // set transiently while a minor collection evacuates this header
	survived  uint8
}

// newHeader allocates a fresh header tagged Young. Nothing in this
// package ever tags a header Permanent.
func newHeader(tag TypeTag, size uint32) *GCHeader {
	return &GCHeader{
		AllocID: atomic.AddUint64(&globalAllocCounter, 1),
		Tag:     tag,
		Size:    size,
		gen:     GenYoung,
	}
}

// Generation returns the header's current generation.
func (h *GCHeader) Generation() Generation { return h.gen }

// Traceable is implemented by every heap value so the collector can walk
// the object graph without a dynamic payload walk — it dispatches once on
// TypeTag and then calls this fixed method.
type Traceable interface {
	gcHeader() *GCHeader
	traceRefs(visit func(Traceable))
}
