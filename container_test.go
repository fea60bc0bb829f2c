package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddContainsRemove(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Add(SmallInt(1)))
	assert.True(t, s.Add(SmallInt(2)))
	assert.False(t, s.Add(SmallInt(1)), "equal? duplicate must not grow the set")
	assert.Equal(t, 2, s.Length())

	assert.True(t, s.Contains(SmallInt(2)))
	assert.False(t, s.Contains(SmallInt(3)))

	assert.True(t, s.Remove(SmallInt(1)))
	assert.False(t, s.Remove(SmallInt(1)), "removing twice reports no member found")
	assert.Equal(t, 1, s.Length())
}

func TestBag_CountsDuplicates(t *testing.T) {
	b := NewBag()
	b.Add(SmallInt(7))
	b.Add(SmallInt(7))
	b.Add(SmallInt(8))
	assert.Equal(t, 2, b.Count(SmallInt(7)))
	assert.Equal(t, 3, b.Length())

	assert.True(t, b.Remove(SmallInt(7)))
	assert.Equal(t, 1, b.Count(SmallInt(7)))
}

func TestDeque_PushPopBothEnds(t *testing.T) {
	d := NewDeque()
	d.PushBack(SmallInt(1))
	d.PushBack(SmallInt(2))
	d.PushFront(SmallInt(0))

	v, err := d.PopFront()
	require.NoError(t, err)
	assert.Equal(t, SmallInt(0), v)

	v, err = d.PopBack()
	require.NoError(t, err)
	assert.Equal(t, SmallInt(2), v)

	assert.Equal(t, 1, d.Length())

	_, err = d.PopFront()
	require.NoError(t, err)

	_, err = d.PopFront()
	require.Error(t, err, "popping an empty deque is an error, not a panic")
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue(SmallInt(1))
	q.Enqueue(SmallInt(2))
	q.Enqueue(SmallInt(3))

	for _, want := range []SmallInt{1, 2, 3} {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err := q.Dequeue()
	require.Error(t, err)
}

func TestContainerPrimitives_RegisteredAndCallable(t *testing.T) {
	ev := newTestEvaluator()

	setPrim, ok := ev.Prims.Lookup("set-add!")
	require.True(t, ok, "set-add! must be registered by registerContainerPrimitives")

	setCtor, ok := ev.Prims.Lookup("set")
	require.True(t, ok)
	s, err := setCtor.Fn(nil)
	require.NoError(t, err)

	_, err = setPrim.Fn([]Value{s, SmallInt(42)})
	require.NoError(t, err)

	containsPrim, ok := ev.Prims.Lookup("set-contains?")
	require.True(t, ok)
	v, err := containsPrim.Fn([]Value{s, SmallInt(42)})
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), v)

	queueCtor, ok := ev.Prims.Lookup("make-queue")
	require.True(t, ok, "make-queue must be registered")
	q, err := queueCtor.Fn(nil)
	require.NoError(t, err)
	_, ok = q.(*Queue)
	assert.True(t, ok)
}
