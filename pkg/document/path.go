package document

import (
	"strconv"
	"strings"
)

// KeyPath identifies a location inside a document tree for error reporting.
// Paths are immutable: Child and Index return a new path backed by its own
// segment slice, so sibling branches of a recursive walk never alias.
type KeyPath struct {
	segments []pathSegment
}

type pathSegment struct {
	key     string
	index   int
	isIndex bool
}

// RootPath returns the path of the document root.
func RootPath() KeyPath {
	return KeyPath{}
}

// Child returns the path extended with a mapping key.
func (p KeyPath) Child(key string) KeyPath {
	return p.extend(pathSegment{key: key})
}

// Index returns the path extended with a sequence index.
func (p KeyPath) Index(i int) KeyPath {
	return p.extend(pathSegment{index: i, isIndex: true})
}

func (p KeyPath) extend(seg pathSegment) KeyPath {
	segments := make([]pathSegment, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = seg
	return KeyPath{segments: segments}
}

// Len returns the number of segments.
func (p KeyPath) Len() int {
	return len(p.segments)
}

// String renders the path in dotted/bracketed form, e.g. "services[2].name".
// The root path renders as "$".
func (p KeyPath) String() string {
	if len(p.segments) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, seg := range p.segments {
		if seg.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}
