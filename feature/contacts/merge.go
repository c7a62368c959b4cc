package contacts

import (
	"scma-sync/core/model"

	"google.golang.org/api/people/v1"
)

// Merge folds a source user into the existing remote person and returns
// the person to submit for update.
//
// The remote update API overwrites everything under the requested field
// mask, so an update must be built as a read-modify-write: each mergeable
// sub-field list is scanned for the entry carrying this system's
// discriminator, which is replaced in place or appended. Entries with a
// foreign tag or key survive untouched, and a category the source cannot
// produce (no phone on file, say) is left as it was rather than cleared.
//
// The resource id, group membership, display name and email address are
// never modified: the first two locate the person, the email is the match
// key, and the name is deliberately left to whatever the directory holds.
func Merge(u model.User, p Person) Person {
	if phone := newPhoneNumber(u); phone != nil {
		p.Raw.PhoneNumbers = mergePhoneNumbers(phone, p.Raw.PhoneNumbers)
	}
	if address := newAddress(u); address != nil {
		p.Raw.Addresses = mergeAddresses(address, p.Raw.Addresses)
	}
	p.Raw.UserDefined = mergeUserDefined(userDefinedValues(u), p.Raw.UserDefined)
	return p
}

// mergePhoneNumbers replaces the entry whose type matches the new entry's
// tag, or appends when no tagged entry exists yet.
func mergePhoneNumbers(entry *people.PhoneNumber, existing []*people.PhoneNumber) []*people.PhoneNumber {
	for i, candidate := range existing {
		if candidate.Type == entry.Type {
			existing[i] = entry
			return existing
		}
	}
	return append(existing, entry)
}

func mergeAddresses(entry *people.Address, existing []*people.Address) []*people.Address {
	for i, candidate := range existing {
		if candidate.Type == entry.Type {
			existing[i] = entry
			return existing
		}
	}
	return append(existing, entry)
}

// mergeUserDefined upserts the system's attribute keys through an
// order-preserving map: existing entries keep their positions (foreign
// keys included), and keys not yet present are appended in their stable
// order. This keeps repeated updates byte-identical on the wire.
func mergeUserDefined(entries []*people.UserDefined, existing []*people.UserDefined) []*people.UserDefined {
	order := make([]string, 0, len(existing)+len(entries))
	values := make(map[string]string, len(existing)+len(entries))

	for _, e := range existing {
		if _, seen := values[e.Key]; !seen {
			order = append(order, e.Key)
		}
		values[e.Key] = e.Value
	}
	for _, e := range entries {
		if _, seen := values[e.Key]; !seen {
			order = append(order, e.Key)
		}
		values[e.Key] = e.Value
	}

	merged := make([]*people.UserDefined, 0, len(order))
	for _, key := range order {
		merged = append(merged, &people.UserDefined{Key: key, Value: values[key]})
	}
	return merged
}
