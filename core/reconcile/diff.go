package reconcile

// Keyer extracts the identity key from a record. An empty key means the
// record has no usable identity.
type Keyer[T any] func(T) string

// Pair couples a desired source record with the existing remote entity it
// matched by key.
type Pair[D, A any] struct {
	Desired D
	Actual  A
}

// Changeset partitions the union of a desired and an actual set into the
// three operation buckets. Every key appears in exactly one bucket.
type Changeset[D, A any] struct {
	// Inserts are desired records with no matching remote entity.
	Inserts []D
	// Updates pair each desired record with the remote entity it matched.
	Updates []Pair[D, A]
	// Deletes are remote entities with no matching desired record.
	Deletes []A

	desiredKey Keyer[D]
	actualKey  Keyer[A]
}

// Diff classifies records by identity key. Equality is on the key only;
// record contents never influence bucket membership.
//
// Actual-side entities with an empty key are excluded entirely: they are
// neither a match nor a delete candidate and are left untouched on the
// remote side. If the same key appears twice on one side, the later record
// replaces the earlier one, so buckets never contain duplicate keys.
//
// Bucket order follows first-seen input order, which makes the output
// deterministic for a fixed pair of inputs.
func Diff[D, A any](desired []D, actual []A, desiredKey Keyer[D], actualKey Keyer[A]) Changeset[D, A] {
	desiredIndex := make(map[string]D, len(desired))
	desiredOrder := make([]string, 0, len(desired))
	for _, d := range desired {
		key := desiredKey(d)
		if _, seen := desiredIndex[key]; !seen {
			desiredOrder = append(desiredOrder, key)
		}
		desiredIndex[key] = d
	}

	actualIndex := make(map[string]A, len(actual))
	actualOrder := make([]string, 0, len(actual))
	for _, a := range actual {
		key := actualKey(a)
		if key == "" {
			continue
		}
		if _, seen := actualIndex[key]; !seen {
			actualOrder = append(actualOrder, key)
		}
		actualIndex[key] = a
	}

	cs := Changeset[D, A]{
		desiredKey: desiredKey,
		actualKey:  actualKey,
	}

	for _, key := range desiredOrder {
		d := desiredIndex[key]
		if a, ok := actualIndex[key]; ok {
			cs.Updates = append(cs.Updates, Pair[D, A]{Desired: d, Actual: a})
		} else {
			cs.Inserts = append(cs.Inserts, d)
		}
	}

	for _, key := range actualOrder {
		if _, ok := desiredIndex[key]; !ok {
			cs.Deletes = append(cs.Deletes, actualIndex[key])
		}
	}

	return cs
}

// Exclude removes the pinned keys from the insert and delete buckets so
// that externally managed identities are never touched by this pass.
// Updates are left as-is: a pinned key that matched on both sides still
// belongs to the caller.
func (c Changeset[D, A]) Exclude(pinned ...string) Changeset[D, A] {
	if len(pinned) == 0 {
		return c
	}

	pinnedSet := make(map[string]struct{}, len(pinned))
	for _, key := range pinned {
		pinnedSet[key] = struct{}{}
	}

	inserts := make([]D, 0, len(c.Inserts))
	for _, d := range c.Inserts {
		if _, ok := pinnedSet[c.desiredKey(d)]; !ok {
			inserts = append(inserts, d)
		}
	}

	deletes := make([]A, 0, len(c.Deletes))
	for _, a := range c.Deletes {
		if _, ok := pinnedSet[c.actualKey(a)]; !ok {
			deletes = append(deletes, a)
		}
	}

	c.Inserts = inserts
	c.Deletes = deletes
	return c
}

// Empty reports whether the changeset contains no operations.
func (c Changeset[D, A]) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}
