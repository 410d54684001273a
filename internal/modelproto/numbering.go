package modelproto

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Field numbers are derived from names so that adding or removing a field
// in a selection does not renumber its siblings.
const (
	maxTag           = 1<<15 - 1
	reservedTagStart = 19000
	reservedTagEnd   = 19999
)

func allocateFieldNumbers(fieldBuilders []*protobuilder.FieldBuilder) {
	names := make([]string, len(fieldBuilders))
	for i, fb := range fieldBuilders {
		names[i] = string(fb.Name())
	}
	for i, n := range hashedTags(names) {
		fieldBuilders[i].SetNumber(protoreflect.FieldNumber(n))
	}
}

func allocateEnumValueNumbers(enumValueBuilders []*protobuilder.EnumValueBuilder) {
	names := make([]string, len(enumValueBuilders))
	for i, evb := range enumValueBuilders {
		names[i] = string(evb.Name())
	}
	for i, n := range hashedTags(names) {
		enumValueBuilders[i].SetNumber(protoreflect.EnumNumber(n))
	}
}

// hashedTags assigns every name a tag in 1..maxTag outside the range
// reserved by protobuf. A name starts at its hash; collisions probe
// linearly. Names are placed in sorted order so that the result does not
// depend on declaration order.
func hashedTags(names []string) []int {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return names[order[i]] < names[order[j]] })

	tags := make([]int, len(names))
	used := make(map[int]bool, len(names))
	for _, idx := range order {
		tag := int(xxhash.Sum64String(names[idx])%maxTag) + 1
		for used[tag] || (tag >= reservedTagStart && tag <= reservedTagEnd) {
			tag++
			if tag > maxTag {
				tag = 1
			}
		}
		used[tag] = true
		tags[idx] = tag
	}
	return tags
}
