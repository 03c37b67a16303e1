package typegen

import (
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"
)

// Digest is a content fingerprint of one corpus file
type Digest [blake2b.Size256]byte

// String returns the first 12 hex characters, enough for log lines
func (d Digest) String() string {
	return hex.EncodeToString(d[:6])
}

// digestOf fingerprints path and content together so that identical files
// at different paths get separate units
func digestOf(path string, src []byte) Digest {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(src)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// unitCache keeps parsed units keyed by content digest. An unchanged file
// is parsed once per Builder, however many runs reuse it. Units pushed out
// of the cache are queued until release hands them back.
type unitCache struct {
	units   *lru.Cache[Digest, *ParsedUnit]
	evicted []*ParsedUnit
}

func newUnitCache(size int) (*unitCache, error) {
	c := &unitCache{}
	units, err := lru.NewWithEvict[Digest, *ParsedUnit](size, func(_ Digest, u *ParsedUnit) {
		c.evicted = append(c.evicted, u)
	})
	if err != nil {
		return nil, err
	}
	c.units = units
	return c, nil
}

// release returns and forgets the units evicted since the last call
func (c *unitCache) release() []*ParsedUnit {
	out := c.evicted
	c.evicted = nil
	return out
}

func (c *unitCache) get(d Digest) (*ParsedUnit, bool) {
	return c.units.Get(d)
}

func (c *unitCache) add(u *ParsedUnit) {
	c.units.Add(u.Digest, u)
}

func (c *unitCache) len() int {
	return c.units.Len()
}
