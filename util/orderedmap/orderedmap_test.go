package orderedmap_test

import (
	"fmt"
	"testing"

	"github.com/ccore-lang/ccore/util/orderedmap"
	"github.com/stretchr/testify/require"
)

func TestLoadStore(t *testing.T) {
	t.Parallel()

	pairs := [][2]int{{1, 2}, {2, 3}, {3, 4}}
	m := orderedmap.New[int, int]()
	for _, p := range pairs {
		k, v := p[0], p[1]
		m.Store(k, v)
		loadedV, ok := m.Load(k)
		require.True(t, ok)
		require.Equal(t, v, loadedV)
		require.Equal(t, v, m.Value(k))
	}

	v, ok := m.Load(-1)
	require.False(t, ok)
	require.Empty(t, v)
	require.Empty(t, m.Value(-1))

	require.Equal(t, len(pairs), m.Len())
}

func TestInsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	pairs := make([][2]int, 0, 100)
	for i := 0; i < 100; i++ {
		pairs = append(pairs, [2]int{i, i + 1})
	}

	m := orderedmap.New[int, int]()
	for _, p := range pairs {
		m.Store(p[0], p[1])
	}

	expectedKeys := make([]int, 0, len(pairs))
	for _, p := range pairs {
		expectedKeys = append(expectedKeys, p[0])
	}

	// Repeated reads must always see the same insertion order (overwriting
	// is covered by TestOverwriteDoesNotMove) — this is what the hash-node
	// table relies on for reproducible diagnostics.
	for i := 0; i < 5; i++ {
		t.Run(fmt.Sprintf("Run%d", i), func(t *testing.T) {
			t.Parallel()
			var keys []int
			for _, p := range m.Pairs {
				keys = append(keys, p.Key)
			}
			require.Equal(t, expectedKeys, keys)
		})
	}
}

func TestOverwriteDoesNotMove(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Store("z", 1)
	m.Store("a", 2)
	m.Store("m", 3)
	m.Store("a", 20)

	var keys []string
	for _, p := range m.Pairs {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
	require.Equal(t, 20, m.Value("a"))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Delete("a")

	_, ok := m.Load("a")
	require.False(t, ok)
	require.Equal(t, 1, m.Len())
}

type fooer interface{ Foo() int }

type fooImpl struct{ n int }

func (f *fooImpl) Foo() int { return f.n }

func TestStoringInterfaces(t *testing.T) {
	t.Parallel()

	m := orderedmap.New[int, fooer]()
	m.Store(1, &fooImpl{n: 7})

	v, ok := m.Load(1)
	require.True(t, ok)
	require.Equal(t, 7, v.Foo())
}
