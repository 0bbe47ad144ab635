package cpchain

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/catsearch/board"
)

type cacheKey struct {
	hash   uint64
	maxLen int
}

// Cache memoizes Compute by mask and length limit. The zero Cache is not
// usable; call NewCache.
type Cache struct {
	sync.Mutex
	chains map[cacheKey]Chain
}

func NewCache() *Cache {
	return &Cache{chains: make(map[cacheKey]Chain)}
}

// Chain returns Compute(desired, maxLen), building it on first use. The
// returned chain is shared; don't modify its steps.
func (c *Cache) Chain(desired *board.Board, maxLen int) Chain {
	key := cacheKey{hash: desired.Hash(), maxLen: maxLen}
	c.Lock()
	defer c.Unlock()
	if ch, ok := c.chains[key]; ok {
		log.Debug().Uint64("key", key.hash).Msg("getting chain from cache")
		return ch
	}
	log.Debug().Uint64("key", key.hash).Int("pop", desired.Pop()).Msg("loading chain into cache")
	ch := Compute(desired, maxLen)
	c.chains[key] = ch
	return ch
}

func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.chains)
}
