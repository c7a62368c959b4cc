package contacts

import (
	"fmt"

	"scma-sync/core/model"

	"google.golang.org/api/people/v1"
)

const (
	// fieldTag marks the phone, address and email entries this system
	// owns inside a person's sub-field lists. Entries carrying any other
	// tag belong to the user or another system and are never touched.
	fieldTag = "SCMA"

	// Keys for the user-defined attribute side-channel.
	keyMemberStatus     = "SCMA Member Status"
	keyTripLeaderStatus = "SCMA Trip Leader Status"
	keyPosition         = "SCMA Position"
)

// Person wraps a remote person with the fields the sync keys on. The
// resource id is assigned by the remote service and is stable across
// updates; it is the only remote state that outlives a run.
type Person struct {
	ResourceName string
	Name         string
	Email        string
	Raw          *people.Person
}

// Key returns the reconciliation identity key: the normalized email, or
// empty for people without one, who are then excluded from diffing.
func (p Person) Key() string {
	return model.NormalizeEmail(p.Email)
}

// NameEmail renders the person as "Name <email>" for log output.
func (p Person) NameEmail() string {
	if p.Email == "" {
		return p.Name
	}
	return fmt.Sprintf("%s <%s>", p.Name, p.Email)
}

// wrapPerson extracts the display name and the keying email from a raw
// person. The tagged email is preferred; otherwise the first listed email
// is used.
func wrapPerson(p *people.Person) Person {
	w := Person{ResourceName: p.ResourceName, Raw: p}

	if len(p.Names) > 0 {
		w.Name = p.Names[0].DisplayName
	}

	for _, email := range p.EmailAddresses {
		if email.Type == fieldTag {
			w.Email = email.Value
			break
		}
	}
	if w.Email == "" && len(p.EmailAddresses) > 0 {
		w.Email = p.EmailAddresses[0].Value
	}

	return w
}

// newPhoneNumber builds the system-tagged phone entry, or nil when the
// user has no phone on file.
func newPhoneNumber(u model.User) *people.PhoneNumber {
	phone := model.NormalizePhone(u.Phone)
	if phone == "" {
		return nil
	}
	return &people.PhoneNumber{Type: fieldTag, Value: phone}
}

// newAddress builds the system-tagged address entry, or nil when the user
// has no address on file.
func newAddress(u model.User) *people.Address {
	if u.Address == "" && u.City == "" && u.State == "" && u.Zipcode == "" {
		return nil
	}
	return &people.Address{Type: fieldTag, FormattedValue: u.FormattedAddress()}
}

// userDefinedValues returns the attribute key/value pairs owned by this
// system, in their stable wire order.
func userDefinedValues(u model.User) []*people.UserDefined {
	return []*people.UserDefined{
		{Key: keyMemberStatus, Value: string(u.MemberStatus)},
		{Key: keyTripLeaderStatus, Value: u.TripLeaderValue()},
		{Key: keyPosition, Value: u.PositionValue()},
	}
}

// newPerson builds the full wire shape for a contact created from scratch,
// linked to the membership group.
func newPerson(u model.User, groupResourceName string) *people.Person {
	p := &people.Person{
		Names:          []*people.Name{{UnstructuredName: u.Name}},
		EmailAddresses: []*people.EmailAddress{{Type: fieldTag, Value: u.Email}},
		UserDefined:    userDefinedValues(u),
		Memberships: []*people.Membership{{
			ContactGroupMembership: &people.ContactGroupMembership{
				ContactGroupResourceName: groupResourceName,
			},
		}},
	}
	if phone := newPhoneNumber(u); phone != nil {
		p.PhoneNumbers = []*people.PhoneNumber{phone}
	}
	if address := newAddress(u); address != nil {
		p.Addresses = []*people.Address{address}
	}
	return p
}
