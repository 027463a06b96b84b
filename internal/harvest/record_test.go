package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectedSet_AddKeepsFirstSeen(t *testing.T) {
	s := NewCollectedSet()

	added := s.Add(
		ItemRecord{URL: "a", HasVariant: true},
		ItemRecord{URL: "b"},
		ItemRecord{URL: "a"},
		ItemRecord{URL: ""},
	)

	assert.Equal(t, []ItemRecord{{URL: "a", HasVariant: true}, {URL: "b"}}, added)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	assert.Empty(t, s.Add(ItemRecord{URL: "b", HasVariant: true}))
	assert.Equal(t, []string{"a", "b"}, s.URLs())
}

func TestCollectedSet_SeedDuplicatesCollapse(t *testing.T) {
	s := NewCollectedSet(
		ItemRecord{URL: "x"},
		ItemRecord{URL: "y"},
		ItemRecord{URL: "x", HasVariant: true},
	)

	assert.Equal(t, []ItemRecord{{URL: "x"}, {URL: "y"}}, s.Items())
}

func TestCollectedSet_ItemsIsACopy(t *testing.T) {
	s := NewCollectedSet(ItemRecord{URL: "x"})

	items := s.Items()
	items[0].URL = "mutated"

	assert.Equal(t, []string{"x"}, s.URLs())
}

func TestResult_Fulfilled(t *testing.T) {
	r := &Result{Items: NewCollectedSet(ItemRecord{URL: "a"}), Target: 2}
	assert.False(t, r.Fulfilled())

	r.Items.Add(ItemRecord{URL: "b"})
	assert.True(t, r.Fulfilled())
}
