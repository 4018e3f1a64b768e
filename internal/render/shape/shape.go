// Package shape converts cell text into drawable glyphs: the base
// rune, its combining marks, and the columns the cluster occupies.
// Conversions are memoized in an LRU cache because the same handful
// of cluster strings repeats across every frame.
package shape

import (
	"container/list"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Glyph is the terminal form of one cell's text.
type Glyph struct {
	Main  rune
	Comb  []rune
	Width int
}

// Space is the glyph painted for empty cell text.
var Space = Glyph{Main: ' ', Width: 1}

// Cache memoizes text-to-glyph conversion with LRU eviction.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	text  string
	glyph Glyph
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Glyph returns the glyph for text, computing and caching it on miss.
func (c *Cache) Glyph(text string) Glyph {
	if text == "" || text == " " {
		return Space
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[text]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).glyph
	}

	g := parse(text)

	if c.lru.Len() >= c.maxSize {
		c.evictOldest()
	}
	elem := c.lru.PushFront(&cacheEntry{text: text, glyph: g})
	c.items[text] = elem
	return g
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *Cache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).text)
}

// parse extracts the first grapheme cluster of text. The engine sends
// one cluster per cell, so anything past the first is dropped.
func parse(text string) Glyph {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text, -1)
	if cluster == "" {
		return Space
	}

	runes := []rune(cluster)
	g := Glyph{Main: runes[0]}
	if len(runes) > 1 {
		g.Comb = runes[1:]
	}

	g.Width = runewidth.StringWidth(cluster)
	if g.Width < 1 {
		// Bare combining marks and zero-width sequences still occupy
		// the cell they were assigned to.
		g.Width = 1
	} else if g.Width > 2 {
		g.Width = 2
	}
	return g
}
