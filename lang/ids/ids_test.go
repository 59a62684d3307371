package ids_test

import (
	"testing"

	"github.com/soul-lang/soulc/lang/ids"
	"github.com/stretchr/testify/require"
)

type nodeID = ids.Int

func TestGeneratorAlloc(t *testing.T) {
	g := ids.NewGenerator[nodeID]()
	a := g.Alloc()
	b := g.Alloc()
	c := g.Alloc()
	require.Equal(t, nodeID(0), a)
	require.Equal(t, nodeID(1), b)
	require.Equal(t, nodeID(2), c)
	require.Equal(t, 3, g.Len())
}

func TestFromLastContinues(t *testing.T) {
	g := ids.FromLast[nodeID](4)
	require.Equal(t, nodeID(5), g.Alloc())
}

func TestErrorSentinel(t *testing.T) {
	require.True(t, ids.IsError[nodeID](ids.Error))
	require.False(t, ids.IsError[nodeID](0))
}

func TestArenaSetAheadOfInsert(t *testing.T) {
	a := ids.NewArena[nodeID, string]()
	a.Set(3, "three")
	v, ok := a.Get(3)
	require.True(t, ok)
	require.Equal(t, "three", v)

	_, ok = a.Get(1)
	require.True(t, ok) // zero-valued gap, but in range
	require.Equal(t, 4, a.Len())

	_, ok = a.Get(99)
	require.False(t, ok)
}

func TestArenaInsertReturnsID(t *testing.T) {
	a := ids.NewArena[nodeID, string]()
	id0 := a.Insert("a")
	id1 := a.Insert("b")
	require.Equal(t, nodeID(0), id0)
	require.Equal(t, nodeID(1), id1)
	require.Equal(t, "b", a.MustGet(id1))
}

func TestArenaAllOrdered(t *testing.T) {
	a := ids.NewArena[nodeID, int]()
	a.Insert(10)
	a.Insert(20)
	a.Insert(30)

	var seen []int
	a.All(func(id nodeID, v int) bool {
		seen = append(seen, v)
		return true
	})
	require.Equal(t, []int{10, 20, 30}, seen)
}
