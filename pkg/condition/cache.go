package condition

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidPattern is wrapped by errors returned for malformed `matches`
// operands.
var ErrInvalidPattern = errors.New("condition: invalid pattern")

// patternCache keeps compiled ECMAScript patterns keyed by source text.
// Compile failures are not cached.
type patternCache struct {
	entries *lru.Cache[string, *regexp2.Regexp]
}

func newPatternCache(size int) *patternCache {
	entries, err := lru.New[string, *regexp2.Regexp](size)
	if err != nil {
		// lru.New only fails for non-positive sizes, which NewEvaluator rules out.
		panic(err)
	}
	return &patternCache{entries: entries}
}

func (c *patternCache) compile(pattern string) (*regexp2.Regexp, error) {
	if re, ok := c.entries.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	c.entries.Add(pattern, re)
	return re, nil
}

func (c *patternCache) len() int {
	return c.entries.Len()
}
