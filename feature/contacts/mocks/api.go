package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/api/people/v1"
)

// API is a mock implementation of contacts.API
type API struct {
	mock.Mock
}

func (m *API) ListGroups(ctx context.Context, pageToken string) (*people.ListContactGroupsResponse, error) {
	args := m.Called(ctx, pageToken)
	if rsp, ok := args.Get(0).(*people.ListContactGroupsResponse); ok {
		return rsp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) CreateGroup(ctx context.Context, req *people.CreateContactGroupRequest) (*people.ContactGroup, error) {
	args := m.Called(ctx, req)
	if group, ok := args.Get(0).(*people.ContactGroup); ok {
		return group, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) GetGroup(ctx context.Context, resourceName string, maxMembers int64) (*people.ContactGroup, error) {
	args := m.Called(ctx, resourceName, maxMembers)
	if group, ok := args.Get(0).(*people.ContactGroup); ok {
		return group, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) BatchGetPeople(ctx context.Context, resourceNames []string, personFields string) (*people.GetPeopleResponse, error) {
	args := m.Called(ctx, resourceNames, personFields)
	if rsp, ok := args.Get(0).(*people.GetPeopleResponse); ok {
		return rsp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) BatchCreateContacts(ctx context.Context, req *people.BatchCreateContactsRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *API) BatchUpdateContacts(ctx context.Context, req *people.BatchUpdateContactsRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
