package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type desiredRec struct {
	Key  string
	Name string
}

type actualRec struct {
	Key      string
	Resource string
}

func desiredKey(d desiredRec) string { return d.Key }
func actualKey(a actualRec) string   { return a.Key }

func insertKeys[D, A any](cs Changeset[D, A], key Keyer[D]) []string {
	keys := make([]string, 0, len(cs.Inserts))
	for _, d := range cs.Inserts {
		keys = append(keys, key(d))
	}
	return keys
}

func deleteKeys[D, A any](cs Changeset[D, A], key Keyer[A]) []string {
	keys := make([]string, 0, len(cs.Deletes))
	for _, a := range cs.Deletes {
		keys = append(keys, key(a))
	}
	return keys
}

func TestDiffPartition(t *testing.T) {
	desired := []desiredRec{{Key: "a"}, {Key: "b"}}
	actual := []actualRec{{Key: "b"}, {Key: "c"}}

	cs := Diff(desired, actual, desiredKey, actualKey)

	assert.Equal(t, []string{"a"}, insertKeys(cs, desiredKey))
	assert.Equal(t, []string{"c"}, deleteKeys(cs, actualKey))
	assert.Len(t, cs.Updates, 1)
	assert.Equal(t, "b", cs.Updates[0].Desired.Key)
	assert.Equal(t, "b", cs.Updates[0].Actual.Key)

	// Buckets partition the key union exactly.
	union := map[string]int{}
	for _, k := range insertKeys(cs, desiredKey) {
		union[k]++
	}
	for _, p := range cs.Updates {
		union[desiredKey(p.Desired)]++
	}
	for _, k := range deleteKeys(cs, actualKey) {
		union[k]++
	}
	assert.Len(t, union, 3)
	for key, count := range union {
		assert.Equal(t, 1, count, "key %s appears in more than one bucket", key)
	}
}

func TestDiffIdempotent(t *testing.T) {
	desired := []desiredRec{{Key: "a"}, {Key: "b"}}
	actual := []actualRec{{Key: "a"}, {Key: "b"}}

	cs := Diff(desired, actual, desiredKey, actualKey)

	assert.Empty(t, cs.Inserts)
	assert.Empty(t, cs.Deletes)
	assert.Len(t, cs.Updates, 2)
}

func TestDiffDeterministic(t *testing.T) {
	desired := []desiredRec{{Key: "d"}, {Key: "a"}, {Key: "c"}}
	actual := []actualRec{{Key: "c"}, {Key: "x"}, {Key: "y"}}

	first := Diff(desired, actual, desiredKey, actualKey)
	for i := 0; i < 10; i++ {
		again := Diff(desired, actual, desiredKey, actualKey)
		assert.Equal(t, insertKeys(first, desiredKey), insertKeys(again, desiredKey))
		assert.Equal(t, deleteKeys(first, actualKey), deleteKeys(again, actualKey))
	}
}

func TestDiffSkipsActualWithoutKey(t *testing.T) {
	desired := []desiredRec{{Key: "a"}}
	actual := []actualRec{{Key: "", Resource: "people/anon"}, {Key: "b"}}

	cs := Diff(desired, actual, desiredKey, actualKey)

	// The keyless entity is neither matched nor deleted.
	assert.Equal(t, []string{"a"}, insertKeys(cs, desiredKey))
	assert.Equal(t, []string{"b"}, deleteKeys(cs, actualKey))
	assert.Empty(t, cs.Updates)
}

func TestDiffDuplicateKeysLastWins(t *testing.T) {
	desired := []desiredRec{{Key: "a", Name: "first"}, {Key: "a", Name: "second"}}
	actual := []actualRec{}

	cs := Diff(desired, actual, desiredKey, actualKey)

	assert.Len(t, cs.Inserts, 1)
	assert.Equal(t, "second", cs.Inserts[0].Name)
}

func TestExcludePinnedOwners(t *testing.T) {
	desired := []desiredRec{{Key: "a"}, {Key: "b"}}
	actual := []actualRec{{Key: "b"}, {Key: "c"}}

	cs := Diff(desired, actual, desiredKey, actualKey).Exclude("c")

	assert.Equal(t, []string{"a"}, insertKeys(cs, desiredKey))
	assert.Empty(t, cs.Deletes)
}

func TestExcludeFromInserts(t *testing.T) {
	desired := []desiredRec{{Key: "a"}, {Key: "owner"}}
	actual := []actualRec{}

	cs := Diff(desired, actual, desiredKey, actualKey).Exclude("owner")

	assert.Equal(t, []string{"a"}, insertKeys(cs, desiredKey))
}

func TestChangesetEmpty(t *testing.T) {
	cs := Diff([]desiredRec{}, []actualRec{}, desiredKey, actualKey)
	assert.True(t, cs.Empty())

	cs = Diff([]desiredRec{{Key: "a"}}, []actualRec{}, desiredKey, actualKey)
	assert.False(t, cs.Empty())
}
