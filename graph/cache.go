package graph

import (
	"fmt"
	"strings"

	"github.com/ThePletch/steam-vr-wheel/logx"
	"github.com/ThePletch/steam-vr-wheel/vr"
)

// Cache is the process-wide constructor table (spec §3.3, §4.2): a
// multiton that collapses semantically identical nodes — same kind,
// same parameters, same dependency identities — into a single
// instance, so a sub-expression referenced many times in a mapping is
// computed once per tick. Append-only for the life of the engine;
// nothing in the tick scheduler ever mutates it (spec §5).
type Cache struct {
	nodes  map[string]*Node
	nextID uint64
	hits   int
	misses int
}

// NewCache returns an empty constructor cache.
func NewCache() *Cache {
	return &Cache{nodes: make(map[string]*Node)}
}

// Stats returns cumulative hit/miss counts since the cache was
// created, for DEBUG logging (spec §7) and cache-sharing tests (spec
// §8 invariant 10).
func (c *Cache) Stats() (hits, misses int) { return c.hits, c.misses }

// cacheKey computes the lookup key from kind identity, a
// kind-specific canonicalized parameter string, and the identity of
// each dependency (spec §3.3: "Dependencies are compared by identity
// ... configuration parameters are compared structurally"). Node ids
// are assigned once at construction and never reused, so identity
// comparison reduces to an integer compare.
func cacheKey(kind Kind, paramKey string, deps []*Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|", kind, paramKey)
	for _, d := range deps {
		fmt.Fprintf(&b, "%d,", d.id)
	}
	return b.String()
}

// getOrBuild returns the cached node for (kind, paramKey, deps), or
// builds, stores, and returns a new one on a miss. build runs at most
// once per distinct key.
func (c *Cache) getOrBuild(kind Kind, paramKey string, deps []*Node, build func() (config, state)) *Node {
	key := cacheKey(kind, paramKey, deps)
	if existing, ok := c.nodes[key]; ok {
		c.hits++
		logx.Debugf("graph: cache hit kind=%d", kind)
		return existing
	}
	c.misses++
	c.nextID++
	cfg, st := build()
	n := &Node{id: c.nextID, kind: kind, deps: deps, cfg: cfg, st: st, lastUpdated: -1}
	c.nodes[key] = n
	logx.Debugf("graph: cache miss kind=%d (new node id=%d)", kind, n.id)
	return n
}

// NewVRStateSource creates the graph root bound to a VR runtime
// source. It is constructed directly, not through getOrBuild: a
// mapping has exactly one, built once by the host before any other
// node (spec §4.1, §4.6).
func (c *Cache) NewVRStateSource(src *vr.Source) *Node {
	c.nextID++
	return &Node{
		id:          c.nextID,
		kind:        KindVRStateSource,
		cfg:         config{vrSource: src},
		lastUpdated: -1,
	}
}
