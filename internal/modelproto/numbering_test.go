package modelproto

import "testing"

func TestHashedTags(t *testing.T) {
	names := []string{"id", "name", "friends", "appears_in"}
	tags := hashedTags(names)
	reversed := hashedTags([]string{"appears_in", "friends", "name", "id"})

	seen := map[int]bool{}
	for i, tag := range tags {
		if tag < 1 || tag > maxTag {
			t.Fatalf("tag %d of %s out of range", tag, names[i])
		}
		if tag >= reservedTagStart && tag <= reservedTagEnd {
			t.Fatalf("tag %d of %s is reserved", tag, names[i])
		}
		if seen[tag] {
			t.Fatalf("tag %d assigned twice", tag)
		}
		seen[tag] = true
		if want := reversed[len(names)-1-i]; want != tag {
			t.Fatalf("tag of %s depends on order: %d != %d", names[i], tag, want)
		}
	}
}

func TestHashedTagsCollision(t *testing.T) {
	tags := hashedTags([]string{"same", "same"})
	if tags[0] == tags[1] {
		t.Fatalf("colliding names share tag %d", tags[0])
	}
	lo, hi := min(tags[0], tags[1]), max(tags[0], tags[1])
	if hi-lo != 1 && !(lo == 1 && hi == maxTag) {
		t.Fatalf("expected linear probe, got %v", tags)
	}
}
