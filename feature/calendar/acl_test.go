package calendar

import (
	"context"
	"testing"

	"scma-sync/feature/calendar/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func readerRule(email string) *calendar.AclRule {
	return &calendar.AclRule{
		Id:    "user:" + email,
		Role:  roleReader,
		Scope: &calendar.AclRuleScope{Type: scopeTypeUser, Value: email},
	}
}

func aclPage(rules ...*calendar.AclRule) *calendar.Acl {
	return &calendar.Acl{Items: rules}
}

func TestSyncACLInsertsAndDeletes(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, false)

	api.On("ListACL", mock.Anything, "cal-1", "").Return(
		aclPage(readerRule("user1@example.com"), readerRule("user2@example.com")), nil)
	api.On("InsertACL", mock.Anything, "cal-1", mock.MatchedBy(func(r *calendar.AclRule) bool {
		return r.Role == roleReader && r.Scope.Value == "user0@example.com"
	}), true).Return(readerRule("user0@example.com"), nil)
	api.On("DeleteACL", mock.Anything, "cal-1", "user:user2@example.com").Return(nil)

	result, err := svc.SyncACL(context.Background(),
		[]string{"user0@example.com", "user1@example.com"}, nil, true)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	api.AssertExpectations(t)
}

func TestSyncACLOwnerExclusion(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, false)

	// Desired {a,b}, actual {b,c}, owners {c}: c must not be revoked.
	api.On("ListACL", mock.Anything, "cal-1", "").Return(
		aclPage(readerRule("b@example.com"), readerRule("c@example.com")), nil)
	api.On("InsertACL", mock.Anything, "cal-1", mock.MatchedBy(func(r *calendar.AclRule) bool {
		return r.Scope.Value == "a@example.com"
	}), false).Return(readerRule("a@example.com"), nil)

	result, err := svc.SyncACL(context.Background(),
		[]string{"a@example.com", "b@example.com"},
		[]string{"c@example.com"}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempted)
	api.AssertNotCalled(t, "DeleteACL", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncACLPaginatesBeforeDiffing(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, false)

	// user1 only appears on the second page; a single-page assumption
	// would re-insert them.
	api.On("ListACL", mock.Anything, "cal-1", "").Return(
		&calendar.Acl{Items: []*calendar.AclRule{readerRule("user0@example.com")}, NextPageToken: "p2"}, nil)
	api.On("ListACL", mock.Anything, "cal-1", "p2").Return(
		aclPage(readerRule("user1@example.com")), nil)

	result, err := svc.SyncACL(context.Background(),
		[]string{"user0@example.com", "user1@example.com"}, nil, false)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempted)
	api.AssertNotCalled(t, "InsertACL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncACLIgnoresNonReaderAndNonUserRules(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, false)

	ownerRule := &calendar.AclRule{
		Id:    "user:boss@example.com",
		Role:  roleOwner,
		Scope: &calendar.AclRuleScope{Type: scopeTypeUser, Value: "boss@example.com"},
	}
	domainRule := &calendar.AclRule{
		Id:    "domain:example.com",
		Role:  roleReader,
		Scope: &calendar.AclRuleScope{Type: "domain", Value: "example.com"},
	}

	api.On("ListACL", mock.Anything, "cal-1", "").Return(aclPage(ownerRule, domainRule), nil)

	result, err := svc.SyncACL(context.Background(), nil, nil, false)

	// Neither the owner grant nor the domain rule is a delete candidate.
	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempted)
	api.AssertNotCalled(t, "DeleteACL", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncACLDryRun(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, true)

	api.On("ListACL", mock.Anything, "cal-1", "").Return(aclPage(), nil)

	result, err := svc.SyncACL(context.Background(), []string{"user0@example.com"}, nil, true)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Succeeded)
	api.AssertNotCalled(t, "InsertACL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureOwnersNeverNotifies(t *testing.T) {
	api := new(mocks.API)
	svc := newTestService(t, api, false)

	api.On("InsertACL", mock.Anything, "cal-1", mock.MatchedBy(func(r *calendar.AclRule) bool {
		return r.Role == roleOwner && r.Scope.Value == "boss@example.com"
	}), false).Return(&calendar.AclRule{}, nil)

	result, err := svc.EnsureOwners(context.Background(), []string{"Boss@Example.com"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	api.AssertExpectations(t)
}
