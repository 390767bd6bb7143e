package nv

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestNaturalOrderSorts(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "numeric runs",
			input:    []string{"folder10", "folder2", "folder1"},
			expected: []string{"folder1", "folder2", "folder10"},
		},
		{
			name:     "file names",
			input:    []string{"b.png", "a.png", "c10.png", "c2.png"},
			expected: []string{"a.png", "b.png", "c2.png", "c10.png"},
		},
		{
			name:     "case does not dominate",
			input:    []string{"Banana", "apple", "cherry"},
			expected: []string{"apple", "Banana", "cherry"},
		},
		{
			name:     "kana",
			input:    []string{"う", "あ", "い"},
			expected: []string{"あ", "い", "う"},
		},
		{
			name:     "empty sorts first",
			input:    []string{"a", "", "1"},
			expected: []string{"", "1", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Clone(tt.input)
			slices.SortStableFunc(got, CompareNames)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNaturalOrderIsTotal(t *testing.T) {
	names := []string{"", "1", "01", "001", "a", "A", "a1", "a01", "a10", "b", "あ", "ア", "漫画", "folder 2", "folder2"}
	order := NewNaturalOrder(language.Japanese)

	for _, a := range names {
		assert.Zero(t, order.Compare(a, a), "Compare(%q, %q)", a, a)
		for _, b := range names {
			if a == b {
				continue
			}
			ab := order.Compare(a, b)
			ba := order.Compare(b, a)
			assert.NotZero(t, ab, "distinct names %q and %q must not tie", a, b)
			assert.Equal(t, ab < 0, ba > 0, "Compare(%q, %q) is not antisymmetric", a, b)
		}
	}
}

func TestNaturalOrderCachedKeysAreStable(t *testing.T) {
	order := NewNaturalOrder(language.English)
	assert.Equal(t, language.English, order.Locale())

	first := order.Compare("page2", "page10")
	// Second call is served from the key cache
	second := order.Compare("page2", "page10")
	assert.Negative(t, first)
	assert.Equal(t, first, second)
}

func TestCompareEntries(t *testing.T) {
	assert.Negative(t, CompareFolderEntries(FolderEntry{Name: "vol2", Path: "/z"}, FolderEntry{Name: "vol10", Path: "/a"}))
	assert.Zero(t, CompareImageEntries(ImageEntry{ID: "/x/p.png", Name: "p.png"}, ImageEntry{ID: "/y/p.png", Name: "p.png"}))
	assert.Same(t, defaultOrder, DefaultNaturalOrder())
	assert.True(t, DefaultNaturalOrder().Less("2", "10"))
}
