package transpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidStructure reports a path string that does not follow the
// dotted-segment grammar.
var ErrInvalidStructure = errors.New("invalid path structure")

// ErrPathNotFound reports a Set whose target container is absent or has the
// wrong shape.
var ErrPathNotFound = errors.New("path not found")

// SegmentKind discriminates the three segment variants.
type SegmentKind int

const (
	// KindKey is an object key access.
	KindKey SegmentKind = iota
	// KindIndex is an array index access.
	KindIndex
	// KindParameter is an index into a command's parameters array.
	KindParameter
)

// Segment is one step in a structural address into the document tree.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// KeySegment builds an object-key segment.
func KeySegment(key string) Segment { return Segment{Kind: KindKey, Key: key} }

// IndexSegment builds an array-index segment.
func IndexSegment(i int) Segment { return Segment{Kind: KindIndex, Index: i} }

// ParameterSegment builds a within-command parameter segment.
func ParameterSegment(i int) Segment { return Segment{Kind: KindParameter, Index: i} }

func (s Segment) String() string {
	switch s.Kind {
	case KindKey:
		return s.Key
	case KindParameter:
		return "parameters." + strconv.Itoa(s.Index)
	default:
		return strconv.Itoa(s.Index)
	}
}

// Path is an ordered sequence of segments addressing one value inside a
// document tree. The zero value is the root.
type Path []Segment

// Parse decodes the canonical dotted form. A bare name is a key, a bare
// non-negative integer is an index, and a "parameters" key directly followed
// by an integer folds into a single parameter segment.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))

	for i := 0; i < len(parts); i++ {
		part := parts[i]
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidStructure, s)
		}

		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 {
				return nil, fmt.Errorf("%w: negative index in %q", ErrInvalidStructure, s)
			}
			path = append(path, IndexSegment(n))
			continue
		}

		if part == "parameters" && i+1 < len(parts) {
			if n, err := strconv.Atoi(parts[i+1]); err == nil && n >= 0 {
				path = append(path, ParameterSegment(n))
				i++
				continue
			}
		}

		path = append(path, KeySegment(part))
	}

	return path, nil
}

// MustParse is Parse for compile-time-known paths; it panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the canonical dotted form; Parse(p.String()) == p for every
// path built by this package.
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// MarshalText serializes the path for JSON cache documents.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the dotted form back into segments.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// AppendKey returns a new path with a key segment appended. The receiver is
// never aliased, so held copies stay stable.
func (p Path) AppendKey(key string) Path { return p.append(KeySegment(key)) }

// AppendIndex returns a new path with an index segment appended.
func (p Path) AppendIndex(i int) Path { return p.append(IndexSegment(i)) }

// AppendParameter returns a new path with a parameter segment appended.
func (p Path) AppendParameter(i int) Path { return p.append(ParameterSegment(i)) }

func (p Path) append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Parent returns the path without its last segment, or nil for the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// UnitID derives a deterministic unit identifier from the path plus a kind
// suffix. Identical paths always yield identical ids.
func (p Path) UnitID(suffix string) string {
	if suffix == "" {
		return p.String()
	}
	return p.String() + "_" + suffix
}

// Get descends the document segment by segment. Absence at any step is a
// normal outcome, reported by ok == false, never an error.
func (p Path) Get(doc any) (any, bool) {
	current := doc
	for _, seg := range p {
		var ok bool
		current, ok = descend(current, seg)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func descend(node any, seg Segment) (any, bool) {
	switch seg.Kind {
	case KindKey:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[seg.Key]
		return v, ok
	case KindParameter:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = obj["parameters"]
		if !ok {
			return nil, false
		}
		fallthrough
	default:
		arr, ok := node.([]any)
		if !ok || seg.Index >= len(arr) {
			return nil, false
		}
		return arr[seg.Index], true
	}
}

// Set replaces exactly one value in place. It fails with ErrPathNotFound when
// descent to the parent does not resolve to a container of the shape the final
// segment requires. Setting the root is not supported.
func (p Path) Set(doc any, value any) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: cannot set root", ErrPathNotFound)
	}

	parent, ok := p.Parent().Get(doc)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPathNotFound, p.Parent())
	}

	last := p[len(p)-1]
	switch last.Kind {
	case KindKey:
		obj, ok := parent.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not an object", ErrPathNotFound, p.Parent())
		}
		obj[last.Key] = value
	case KindParameter:
		obj, ok := parent.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not an object", ErrPathNotFound, p.Parent())
		}
		arr, ok := obj["parameters"].([]any)
		if !ok || last.Index >= len(arr) {
			return fmt.Errorf("%w: %s has no parameter %d", ErrPathNotFound, p.Parent(), last.Index)
		}
		arr[last.Index] = value
	default:
		arr, ok := parent.([]any)
		if !ok {
			return fmt.Errorf("%w: %s is not an array", ErrPathNotFound, p.Parent())
		}
		if last.Index >= len(arr) {
			return fmt.Errorf("%w: index %d out of bounds at %s", ErrPathNotFound, last.Index, p.Parent())
		}
		arr[last.Index] = value
	}
	return nil
}
