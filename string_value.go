package lambdust

import (
	"strconv"
	"strings"
	"sync"
)

// StringValue is implemented by both string variants so code that only
// needs to read characters (equal?, string->list, display) doesn't need
// to branch on mutability.
type StringValue interface {
	Value
	RuneString() string
	Length() int
}

// InternedString is an immutable, shared, interned literal string (spec
// §3: "Literal strings are immutable (stored as shared interned byte
// sequences)"). Two literal occurrences of the same text share one
// allocation.
type InternedString struct {
	header GCHeader
	text   string
}

var internTable = struct {
	mu sync.RWMutex
	m  map[string]*InternedString
}{m: make(map[string]*InternedString, 256)}

// InternString returns the shared InternedString for text, allocating it
// the first time text is seen.
func InternString(text string) *InternedString {
	internTable.mu.RLock()
	if s, ok := internTable.m[text]; ok {
		internTable.mu.RUnlock()
		return s
	}
	internTable.mu.RUnlock()

	internTable.mu.Lock()
	defer internTable.mu.Unlock()
	if s, ok := internTable.m[text]; ok {
		return s
	}
	s := &InternedString{text: text}
	s.header = *newHeader(TagInternedString, uint32(len(text)))
	internTable.m[text] = s
	return s
}

func (*InternedString) Kind() ValueKind                   { return KindString }
func (s *InternedString) gcHeader() *GCHeader             { return &s.header }
func (s *InternedString) traceRefs(func(Traceable))       {}
func (s *InternedString) RuneString() string              { return s.text }
func (s *InternedString) Length() int                     { return len([]rune(s.text)) }
func (s *InternedString) writeForm(sb *strings.Builder)   { sb.WriteString(strconv.Quote(s.text)) }
func (s *InternedString) displayForm(sb *strings.Builder) { sb.WriteString(s.text) }

// MutableString is produced by `make-string` and the character-by-
// character constructors (spec §3). `string-set!` is only legal on this
// variant.
type MutableString struct {
	header GCHeader
	mu     sync.RWMutex
	runes  []rune
}

func NewMutableString(runes []rune) *MutableString {
	s := &MutableString{runes: runes}
	s.header = *newHeader(TagMutableString, uint32(len(runes)))
	return s
}

func NewMutableStringOfLength(n int, fill rune) *MutableString {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = fill
	}
	return NewMutableString(runes)
}

func (*MutableString) Kind() ValueKind             { return KindString }
func (s *MutableString) gcHeader() *GCHeader       { return &s.header }
func (s *MutableString) traceRefs(func(Traceable)) {}

func (s *MutableString) RuneString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.runes)
}

func (s *MutableString) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runes)
}

func (s *MutableString) Ref(i int) (rune, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.runes) {
		return 0, TypeErrorf("string-ref: index %d out of bounds [0,%d)", i, len(s.runes))
	}
	return s.runes[i], nil
}

// Set mutates a single character; set-car!/set-cdr!'s analogue for
// strings, per spec §3's mutable/immutable split.
func (s *MutableString) Set(i int, r rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.runes) {
		return TypeErrorf("string-set!: index %d out of bounds [0,%d)", i, len(s.runes))
	}
	s.runes[i] = r
	return nil
}

func (s *MutableString) writeForm(sb *strings.Builder) {
	sb.WriteString(strconv.Quote(s.RuneString()))
}
func (s *MutableString) displayForm(sb *strings.Builder) { sb.WriteString(s.RuneString()) }

// StringIsMutable reports whether s can be the target of string-set!.
func StringIsMutable(v Value) bool {
	_, ok := v.(*MutableString)
	return ok
}
