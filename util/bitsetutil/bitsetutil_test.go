package bitsetutil_test

import (
	"testing"

	"github.com/ccore-lang/ccore/util/bitsetutil"
	"github.com/stretchr/testify/assert"
)

func TestAddReportsChange(t *testing.T) {
	s := bitsetutil.New(8)
	assert.True(t, s.Add(3))
	assert.False(t, s.Add(3), "re-adding an existing member must report no change")
	assert.True(t, s.Test(3))
}

func TestUnionReportsChange(t *testing.T) {
	a := bitsetutil.New(8)
	a.Add(1)
	b := bitsetutil.New(8)
	b.Add(1)
	b.Add(2)

	assert.True(t, a.Union(b))
	assert.False(t, a.Union(b), "unioning in an already-subsumed set must report no change")
	assert.Equal(t, []uint{1, 2}, a.Slice())
}

func TestCloneIsIndependent(t *testing.T) {
	a := bitsetutil.New(8)
	a.Add(5)
	b := a.Clone()
	b.Add(6)

	assert.Equal(t, []uint{5}, a.Slice())
	assert.Equal(t, []uint{5, 6}, b.Slice())
}
