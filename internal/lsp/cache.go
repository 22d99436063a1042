package lsp

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"todohl/internal/rank"
	"todohl/internal/source"
)

const defaultCacheSize = 128

// resultCache memoizes unfiltered scan results by content digest. The scan is
// a pure function of the text, so a hit is indistinguishable from a rescan.
type resultCache struct {
	entries *lru.Cache[source.Digest, rank.Result]
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	entries, err := lru.New[source.Digest, rank.Result](size)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &resultCache{entries: entries}
}

// scan returns the ranked annotations of file, computing them on a miss.
func (c *resultCache) scan(file *source.File) (rank.Result, bool) {
	if res, ok := c.entries.Get(file.Hash); ok {
		return res, true
	}
	res := rank.Scan(file.Text())
	c.entries.Add(file.Hash, res)
	return res, false
}

func (c *resultCache) len() int {
	return c.entries.Len()
}
