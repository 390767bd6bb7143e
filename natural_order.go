package nv

import (
	"bytes"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/maruel/natural"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collationKeyCacheSize bounds the number of collation keys kept per NaturalOrder
const collationKeyCacheSize = 4096

// NaturalOrder compares names with locale-aware collation and numeric ordering,
// so "c2" sorts before "c10" and kana/kanji folder names sort the way a
// Japanese reader expects
type NaturalOrder struct {
	tag language.Tag

	mu   sync.Mutex // collator and buffer are not safe for concurrent use
	col  *collate.Collator
	buf  collate.Buffer
	keys *lru.Cache[string, []byte]
}

// NewNaturalOrder creates a NaturalOrder collating for the given locale
func NewNaturalOrder(tag language.Tag) *NaturalOrder {
	keys, err := lru.New[string, []byte](collationKeyCacheSize)
	if err != nil {
		logger.WithError(err).Error("Failed to create collation key cache")
	}
	return &NaturalOrder{
		tag:  tag,
		col:  collate.New(tag, collate.Numeric),
		keys: keys,
	}
}

// Locale returns the collation locale
func (o *NaturalOrder) Locale() language.Tag {
	return o.tag
}

// Compare returns a negative number when a sorts before b, zero when the names
// are identical and a positive number otherwise. Distinct names that collate
// equal (e.g. "01" and "1") are broken by natural order, then byte order, so
// the result is a total order
func (o *NaturalOrder) Compare(a, b string) int {
	if a == b {
		return 0
	}

	if c := bytes.Compare(o.key(a), o.key(b)); c != 0 {
		return c
	}

	if natural.Less(a, b) {
		return -1
	}
	if natural.Less(b, a) {
		return 1
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts strictly before b
func (o *NaturalOrder) Less(a, b string) bool {
	return o.Compare(a, b) < 0
}

func (o *NaturalOrder) key(s string) []byte {
	if s == "" {
		return nil
	}

	if o.keys != nil {
		if k, ok := o.keys.Get(s); ok {
			return k
		}
	}

	o.mu.Lock()
	k := append([]byte(nil), o.col.KeyFromString(&o.buf, s)...)
	o.buf.Reset()
	o.mu.Unlock()

	if o.keys != nil {
		o.keys.Add(s, k)
	}
	return k
}

// defaultOrder is the ordering used when callers do not supply one
var defaultOrder = NewNaturalOrder(language.Japanese)

// DefaultNaturalOrder returns the package default ordering (Japanese collation)
func DefaultNaturalOrder() *NaturalOrder {
	return defaultOrder
}

// CompareNames compares two names with the default ordering
func CompareNames(a, b string) int {
	return defaultOrder.Compare(a, b)
}

// CompareFolderEntries orders folder entries by name
func CompareFolderEntries(a, b FolderEntry) int {
	return defaultOrder.Compare(a.Name, b.Name)
}

// CompareImageEntries orders image entries by name. The ID is not consulted:
// equal names compare as 0
func CompareImageEntries(a, b ImageEntry) int {
	return defaultOrder.Compare(a.Name, b.Name)
}
