package contacts

import (
	"context"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// Scope is the OAuth scope required for contact reads and writes.
const Scope = people.ContactsScope

const (
	// groupFields restricts contact group reads to the fields the sync
	// needs.
	groupFields = "name"

	// maxGroupMembers is the page-size ceiling for group membership
	// listing.
	maxGroupMembers = 999

	// batchGetMax, batchCreateMax and batchUpdateMax are the remote
	// service's documented per-request maximums.
	batchGetMax    = 50
	batchCreateMax = 50
	batchUpdateMax = 50

	// personFieldsGet is the read mask: the identity key plus every
	// mergeable sub-field category. Unrequested fields must never reach
	// the merger, so they cannot be mistaken for authoritative state.
	personFieldsGet = "addresses,emailAddresses,names,phoneNumbers,userDefined"

	// personFieldsUpdate is the update mask: exactly the categories the
	// merger may touch, never the full entity.
	personFieldsUpdate = "addresses,phoneNumbers,userDefined"
)

// API is the subset of the Google People service used by the sync.
type API interface {
	// ListGroups returns one page of the caller's contact groups.
	ListGroups(ctx context.Context, pageToken string) (*people.ListContactGroupsResponse, error)
	// CreateGroup creates a named contact group.
	CreateGroup(ctx context.Context, req *people.CreateContactGroupRequest) (*people.ContactGroup, error)
	// GetGroup fetches a contact group with its member resource names.
	GetGroup(ctx context.Context, resourceName string, maxMembers int64) (*people.ContactGroup, error)
	// BatchGetPeople fetches person details for up to batchGetMax
	// resource names.
	BatchGetPeople(ctx context.Context, resourceNames []string, personFields string) (*people.GetPeopleResponse, error)
	// BatchCreateContacts creates up to batchCreateMax contacts.
	BatchCreateContacts(ctx context.Context, req *people.BatchCreateContactsRequest) error
	// BatchUpdateContacts updates up to batchUpdateMax contacts under the
	// request's update mask.
	BatchUpdateContacts(ctx context.Context, req *people.BatchUpdateContactsRequest) error
}

type googleAPI struct {
	svc *people.Service
}

// NewAPI builds the real People API client from an authenticated HTTP
// client.
func NewAPI(ctx context.Context, client *http.Client) (API, error) {
	svc, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}
	return &googleAPI{svc: svc}, nil
}

func (g *googleAPI) ListGroups(ctx context.Context, pageToken string) (*people.ListContactGroupsResponse, error) {
	call := g.svc.ContactGroups.List().GroupFields(groupFields)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (g *googleAPI) CreateGroup(ctx context.Context, req *people.CreateContactGroupRequest) (*people.ContactGroup, error) {
	return g.svc.ContactGroups.Create(req).Context(ctx).Do()
}

func (g *googleAPI) GetGroup(ctx context.Context, resourceName string, maxMembers int64) (*people.ContactGroup, error) {
	return g.svc.ContactGroups.Get(resourceName).
		MaxMembers(maxMembers).
		GroupFields(groupFields).
		Context(ctx).Do()
}

func (g *googleAPI) BatchGetPeople(ctx context.Context, resourceNames []string, personFields string) (*people.GetPeopleResponse, error) {
	return g.svc.People.GetBatchGet().
		ResourceNames(resourceNames...).
		PersonFields(personFields).
		Context(ctx).Do()
}

func (g *googleAPI) BatchCreateContacts(ctx context.Context, req *people.BatchCreateContactsRequest) error {
	_, err := g.svc.People.BatchCreateContacts(req).Context(ctx).Do()
	return err
}

func (g *googleAPI) BatchUpdateContacts(ctx context.Context, req *people.BatchUpdateContactsRequest) error {
	_, err := g.svc.People.BatchUpdateContacts(req).Context(ctx).Do()
	return err
}
