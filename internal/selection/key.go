package selection

import "strings"

// KeyKind tells whether a key is rooted at an operation or a fragment.
type KeyKind int

const (
	KeyOperation KeyKind = iota
	KeyFragment
)

func (k KeyKind) String() string {
	if k == KeyFragment {
		return "fragment"
	}
	return "operation"
}

// Key is the path-based identity of a generated type. Two nodes with equal
// keys denote the same type.
type Key struct {
	Kind KeyKind
	Root string
	Path []string
}

// ImplementationSegment names the concrete default shape of a named
// fragment.
const ImplementationSegment = "Implementation"

// ShapeMarker prefixes path segments that name a fragment shape rather than
// a response name. GraphQL names cannot contain it, so a field aliased like
// a type never shares a key with that type's shape.
const ShapeMarker = "..."

func OperationKey(name string) Key {
	return Key{Kind: KeyOperation, Root: name, Path: []string{name}}
}

// FragmentKey is the root of a named fragment's interface shape.
func FragmentKey(name string) Key {
	return Key{Kind: KeyFragment, Root: name, Path: []string{name}}
}

// FragmentImplementationKey is the root of a named fragment's default
// implementation shape.
func FragmentImplementationKey(name string) Key {
	return Key{Kind: KeyFragment, Root: name, Path: []string{name, ShapeMarker + ImplementationSegment}}
}

// Child returns the key of the node called name below k.
func (k Key) Child(name string) Key {
	path := make([]string, len(k.Path)+1)
	copy(path, k.Path)
	path[len(k.Path)] = name
	return Key{Kind: k.Kind, Root: k.Root, Path: path}
}

// Shape returns the key of the fragment shape called name below k.
func (k Key) Shape(name string) Key { return k.Child(ShapeMarker + name) }

// SegmentName returns the name a path segment was built from.
func SegmentName(segment string) string { return strings.TrimPrefix(segment, ShapeMarker) }

func (k Key) Equal(o Key) bool {
	if k.Kind != o.Kind || k.Root != o.Root || len(k.Path) != len(o.Path) {
		return false
	}
	for i := range k.Path {
		if k.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// Last returns the final path segment.
func (k Key) Last() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1]
}

// String is the canonical textual form, e.g. "operation:HeroQuery/hero".
// Equal keys always render identically.
func (k Key) String() string {
	return k.Kind.String() + ":" + strings.Join(k.Path, "/")
}

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// KeySet is an ordered set of keys. The first element is the canonical key;
// the rest are alternates.
type KeySet []Key

func NewKeySet(keys ...Key) KeySet {
	return KeySet(nil).Union(keys)
}

// Primary returns the canonical key.
func (s KeySet) Primary() Key {
	if len(s) == 0 {
		return Key{}
	}
	return s[0]
}

// Alternates returns every key after the canonical one.
func (s KeySet) Alternates() KeySet {
	if len(s) < 2 {
		return nil
	}
	return s[1:]
}

func (s KeySet) Contains(k Key) bool {
	for _, have := range s {
		if have.Equal(k) {
			return true
		}
	}
	return false
}

// Child maps every key to its child called name, preserving order.
func (s KeySet) Child(name string) KeySet {
	out := make(KeySet, len(s))
	for i, k := range s {
		out[i] = k.Child(name)
	}
	return out
}

// Shape maps every key to its fragment shape called name.
func (s KeySet) Shape(name string) KeySet {
	out := make(KeySet, len(s))
	for i, k := range s {
		out[i] = k.Shape(name)
	}
	return out
}

// Union appends the keys of o that s does not hold yet. s is never
// modified; when nothing is added s itself is returned.
func (s KeySet) Union(o []Key) KeySet {
	var out KeySet
	for _, k := range o {
		if s.Contains(k) || out.Contains(k) {
			continue
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return s
	}
	return append(append(make(KeySet, 0, len(s)+len(out)), s...), out...)
}

// Prepend makes k canonical, keeping the previous keys as alternates.
func (s KeySet) Prepend(k Key) KeySet {
	if len(s) > 0 && s[0].Equal(k) {
		return s
	}
	out := KeySet{k}
	for _, have := range s {
		if !have.Equal(k) {
			out = append(out, have)
		}
	}
	return out
}

// SameSet reports whether s and o hold the same keys, in any order.
func (s KeySet) SameSet(o KeySet) bool {
	if len(s) != len(o) {
		return false
	}
	for _, k := range s {
		if !o.Contains(k) {
			return false
		}
	}
	return true
}

func (s KeySet) Strings() []string {
	out := make([]string, len(s))
	for i, k := range s {
		out[i] = k.String()
	}
	return out
}
