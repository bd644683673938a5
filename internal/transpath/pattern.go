package transpath

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// FieldPattern matches concrete parameter paths against a wildcard pattern.
// "|ARY|" matches any single array index and "|OBJ|" matches any single object
// key. Compiled patterns are immutable and safe for concurrent use.
type FieldPattern struct {
	pattern string
	re      *regexp.Regexp
}

var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]*FieldPattern)
)

// CompilePattern compiles a wildcard pattern, reusing a cached compilation
// when the same pattern string was seen before.
func CompilePattern(pattern string) (*FieldPattern, error) {
	patternMu.RLock()
	cached, ok := patternCache[pattern]
	patternMu.RUnlock()
	if ok {
		return cached, nil
	}

	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, regexp.QuoteMeta("|ARY|"), `\d+`)
	expr = strings.ReplaceAll(expr, regexp.QuoteMeta("|OBJ|"), `[^.]+`)

	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("compile field pattern %q: %w", pattern, err)
	}

	fp := &FieldPattern{pattern: pattern, re: re}

	patternMu.Lock()
	patternCache[pattern] = fp
	patternMu.Unlock()

	return fp, nil
}

// Pattern returns the original pattern string.
func (fp *FieldPattern) Pattern() string { return fp.pattern }

// Matches tests a concrete dotted path against the pattern.
func (fp *FieldPattern) Matches(path string) bool { return fp.re.MatchString(path) }

// MatchesPath tests a structured path against the pattern.
func (fp *FieldPattern) MatchesPath(p Path) bool { return fp.Matches(p.String()) }
