package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		articles bool
		expect   string
	}{
		{
			name:   "no items",
			items:  []string{},
			expect: "",
		},
		{
			name:   "one item",
			items:  []string{"brass key"},
			expect: "brass key",
		},
		{
			name:   "two items",
			items:  []string{"brass key", "lantern"},
			expect: "brass key and lantern",
		},
		{
			name:   "three items get an oxford comma",
			items:  []string{"brass key", "lantern", "note"},
			expect: "brass key, lantern, and note",
		},
		{
			name:     "articles added",
			items:    []string{"brass key", "envelope"},
			articles: true,
			expect:   "a brass key and an envelope",
		},
		{
			name:     "capitalized item is lowered behind its article",
			items:    []string{"Lantern"},
			articles: true,
			expect:   "a lantern",
		},
		{
			name:     "all-caps item keeps its case",
			items:    []string{"IOU"},
			articles: true,
			expect:   "AN IOU",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := MakeTextList(tc.items, tc.articles)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ArticleFor(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		definite bool
		expect   string
	}{
		{name: "indefinite consonant", input: "key", expect: "a"},
		{name: "indefinite vowel", input: "envelope", expect: "an"},
		{name: "indefinite capitalized", input: "Envelope", expect: "An"},
		{name: "indefinite all caps", input: "IOU", expect: "AN"},
		{name: "definite", input: "key", definite: true, expect: "the"},
		{name: "definite capitalized", input: "Key", definite: true, expect: "The"},
		{name: "definite all caps", input: "KEY", definite: true, expect: "THE"},
		{name: "empty string", input: "", expect: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ArticleFor(tc.input, tc.definite)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_TitleCase(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Drawing Room", TitleCase("drawing room"))
	assert.Equal("North", TitleCase("north"))
	assert.Equal("", TitleCase(""))
}

func Test_OrderedKeys(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"west": 1, "east": 2, "north": 3}

	assert.Equal([]string{"east", "north", "west"}, OrderedKeys(m))
	assert.Empty(OrderedKeys(map[string]int{}))
}

func Test_StringSet(t *testing.T) {
	assert := assert.New(t)

	s := NewStringSet()
	assert.True(s.Empty())

	s.Add("motive")
	s.Add("weapon")
	s.Add("motive")
	assert.Equal(2, s.Len())
	assert.True(s.Has("motive"))
	assert.False(s.Has("alibi"))

	assert.Equal([]string{"motive", "weapon"}, s.Elements())
	assert.True(s.HasAll([]string{"motive"}))
	assert.False(s.HasAll([]string{"motive", "alibi"}))

	cp := s.Copy()
	cp.Add("alibi")
	assert.False(s.Has("alibi"))

	s.Remove("weapon")
	assert.False(s.Has("weapon"))
	assert.Equal("{motive}", s.String())
}
