package lambdust

import (
	"container/list"
	"strings"
	"sync"
)

// Set, Bag, Deque, and Queue are the heap container kinds spec §3 lists
// beyond pairs/vectors/hash tables. Deque and Queue are built directly on
// `container/list`'s doubly linked list, the representative Go-native
// structure for this shape; Set and Bag (no ordering guarantee, `equal?`
// membership) are kept as a guarded slice, since nothing in the retrieval
// pack hashes arbitrary Scheme values and R7RS's `equal?` has no total
// order to sort by. Every one carries a GCHeader and a traceRefs so the
// collector can walk into its elements like any other heap value.

// Set is an unordered collection with no duplicate elements under `equal?`.
type Set struct {
	header GCHeader
	mu     sync.RWMutex
	items  []Value
}

func NewSet() *Set {
	s := &Set{}
	s.header = *newHeader(TagSet, 0)
	return s
}

func (*Set) Kind() ValueKind       { return KindSet }
func (s *Set) gcHeader() *GCHeader { return &s.header }

func (s *Set) traceRefs(visit func(Traceable)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.items {
		visitIfTraceable(v, visit)
	}
}

// Add inserts v if no equal? member is already present, reporting whether
// the set actually grew.
func (s *Set) Add(v Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if Equal(existing, v) {
			return false
		}
	}
	s.items = append(s.items, v)
	return true
}

func (s *Set) Contains(v Value) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.items {
		if Equal(existing, v) {
			return true
		}
	}
	return false
}

// Remove deletes the first equal? member, reporting whether one was found.
func (s *Set) Remove(v Value) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items {
		if Equal(existing, v) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Set) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Set) ToSlice() []Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Value, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set) writeForm(sb *strings.Builder)   { writeTagged(sb, "set", s.ToSlice()) }
func (s *Set) displayForm(sb *strings.Builder) { s.writeForm(sb) }

// Bag is a multiset: like Set but Add never rejects a duplicate and
// Remove drops only one matching occurrence.
type Bag struct {
	header GCHeader
	mu     sync.RWMutex
	items  []Value
}

func NewBag() *Bag {
	b := &Bag{}
	b.header = *newHeader(TagBag, 0)
	return b
}

func (*Bag) Kind() ValueKind       { return KindBag }
func (b *Bag) gcHeader() *GCHeader { return &b.header }

func (b *Bag) traceRefs(visit func(Traceable)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, v := range b.items {
		visitIfTraceable(v, visit)
	}
}

func (b *Bag) Add(v Value) { b.mu.Lock(); b.items = append(b.items, v); b.mu.Unlock() }

func (b *Bag) Count(v Value) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, existing := range b.items {
		if Equal(existing, v) {
			n++
		}
	}
	return n
}

func (b *Bag) Remove(v Value) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.items {
		if Equal(existing, v) {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Bag) Length() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *Bag) ToSlice() []Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Value, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) writeForm(sb *strings.Builder)   { writeTagged(sb, "bag", b.ToSlice()) }
func (b *Bag) displayForm(sb *strings.Builder) { b.writeForm(sb) }

// Deque is a double-ended queue supporting push/pop at both ends.
type Deque struct {
	header GCHeader
	mu     sync.RWMutex
	items  *list.List
}

func NewDeque() *Deque {
	d := &Deque{items: list.New()}
	d.header = *newHeader(TagDeque, 0)
	return d
}

func (*Deque) Kind() ValueKind       { return KindDeque }
func (d *Deque) gcHeader() *GCHeader { return &d.header }

func (d *Deque) traceRefs(visit func(Traceable)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for e := d.items.Front(); e != nil; e = e.Next() {
		visitIfTraceable(e.Value.(Value), visit)
	}
}

func (d *Deque) PushFront(v Value) { d.mu.Lock(); d.items.PushFront(v); d.mu.Unlock() }
func (d *Deque) PushBack(v Value)  { d.mu.Lock(); d.items.PushBack(v); d.mu.Unlock() }

func (d *Deque) PopFront() (Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.items.Front()
	if e == nil {
		return nil, TypeErrorf("deque is empty")
	}
	d.items.Remove(e)
	return e.Value.(Value), nil
}

func (d *Deque) PopBack() (Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.items.Back()
	if e == nil {
		return nil, TypeErrorf("deque is empty")
	}
	d.items.Remove(e)
	return e.Value.(Value), nil
}

func (d *Deque) Length() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.items.Len()
}

func (d *Deque) ToSlice() []Value {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Value, 0, d.items.Len())
	for e := d.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Value))
	}
	return out
}

func (d *Deque) writeForm(sb *strings.Builder)   { writeTagged(sb, "deque", d.ToSlice()) }
func (d *Deque) displayForm(sb *strings.Builder) { d.writeForm(sb) }

// Queue is a FIFO: Enqueue at the back, Dequeue from the front.
type Queue struct {
	header GCHeader
	mu     sync.RWMutex
	items  *list.List
}

func NewQueue() *Queue {
	q := &Queue{items: list.New()}
	q.header = *newHeader(TagQueue, 0)
	return q
}

func (*Queue) Kind() ValueKind       { return KindQueue }
func (q *Queue) gcHeader() *GCHeader { return &q.header }

func (q *Queue) traceRefs(visit func(Traceable)) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	for e := q.items.Front(); e != nil; e = e.Next() {
		visitIfTraceable(e.Value.(Value), visit)
	}
}

func (q *Queue) Enqueue(v Value) { q.mu.Lock(); q.items.PushBack(v); q.mu.Unlock() }

func (q *Queue) Dequeue() (Value, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.items.Front()
	if e == nil {
		return nil, TypeErrorf("queue is empty")
	}
	q.items.Remove(e)
	return e.Value.(Value), nil
}

func (q *Queue) Length() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.items.Len()
}

func (q *Queue) ToSlice() []Value {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Value, 0, q.items.Len())
	for e := q.items.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Value))
	}
	return out
}

func (q *Queue) writeForm(sb *strings.Builder)   { writeTagged(sb, "queue", q.ToSlice()) }
func (q *Queue) displayForm(sb *strings.Builder) { q.writeForm(sb) }

func writeTagged(sb *strings.Builder, tag string, items []Value) {
	sb.WriteString("#<")
	sb.WriteString(tag)
	for _, item := range items {
		sb.WriteByte(' ')
		sb.WriteString(writeString(item))
	}
	sb.WriteByte('>')
}
