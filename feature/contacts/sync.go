package contacts

import (
	"context"
	"fmt"

	"scma-sync/core/model"
	"scma-sync/core/reconcile"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/api/people/v1"
)

// Service synchronizes club members with a contact group in the remote
// directory.
type Service struct {
	api               API
	log               *zap.Logger
	groupResourceName string
	dryRun            bool
}

// New locates the target contact group by name, creating it when absent.
// As with the calendar, dry run cannot create the group and fails instead.
func New(ctx context.Context, log *zap.Logger, api API, groupName string, dryRun bool) (*Service, error) {
	log.Info("Finding contact group", zap.String("group_name", groupName))

	groups, err := reconcile.ListAll(ctx, "contact groups",
		func(ctx context.Context, pageToken string) ([]*people.ContactGroup, string, error) {
			rsp, err := api.ListGroups(ctx, pageToken)
			if err != nil {
				return nil, "", err
			}
			return rsp.ContactGroups, rsp.NextPageToken, nil
		})
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		if group.Name == groupName {
			log.Info("Found contact group", zap.String("group_resource_name", group.ResourceName))
			return &Service{api: api, log: log, groupResourceName: group.ResourceName, dryRun: dryRun}, nil
		}
	}

	if dryRun {
		return nil, fmt.Errorf("contact group %q not found and dry run cannot create it", groupName)
	}

	log.Info("Contact group not found, creating", zap.String("group_name", groupName))
	created, err := api.CreateGroup(ctx, &people.CreateContactGroupRequest{
		ContactGroup:    &people.ContactGroup{Name: groupName},
		ReadGroupFields: groupFields,
	})
	if err != nil {
		return nil, fmt.Errorf("creating contact group %q: %w", groupName, err)
	}
	log.Info("Created contact group", zap.String("group_resource_name", created.ResourceName))

	return &Service{api: api, log: log, groupResourceName: created.ResourceName, dryRun: dryRun}, nil
}

// GroupResourceName returns the resolved remote group id.
func (s *Service) GroupResourceName() string {
	return s.groupResourceName
}

// SyncUsers reconciles the group's members against the desired users.
//
// Members are listed through the group (membership resource names, then
// batched detail gets), diffed by normalized email, and applied as chunked
// batch creates and merge-based batch updates. Members found remotely but
// absent from the source are never deleted; they are logged for manual
// review only.
func (s *Service) SyncUsers(ctx context.Context, users []model.User) (reconcile.Result, error) {
	members, err := s.listMembers(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}

	cs := reconcile.Diff(users, members, model.User.Key, Person.Key)
	s.log.Info("Determined contact operations",
		zap.Int("inserts", len(cs.Inserts)),
		zap.Int("updates", len(cs.Updates)),
		zap.Int("ignores", len(cs.Deletes)),
	)

	var result reconcile.Result
	var errs error

	createResult, err := s.batchCreate(ctx, cs.Inserts)
	errs = multierr.Append(errs, err)
	result.Add(createResult)

	updateResult, err := s.batchUpdate(ctx, cs.Updates)
	errs = multierr.Append(errs, err)
	result.Add(updateResult)

	for _, person := range cs.Deletes {
		s.log.Info("Ignoring contact no longer a current member; remove manually if desired",
			zap.String("person", person.NameEmail()),
		)
	}

	return result, errs
}

// listMembers fetches the group membership in two stages: resource names
// via the group, then person details in bounded batch-get chunks.
func (s *Service) listMembers(ctx context.Context) ([]Person, error) {
	group, err := s.api.GetGroup(ctx, s.groupResourceName, maxGroupMembers)
	if err != nil {
		return nil, &reconcile.ListError{Collection: "contact group members", Err: err}
	}

	names := group.MemberResourceNames
	s.log.Info("Got group member resource names", zap.Int("member_count", len(names)))
	if len(names) == 0 {
		return nil, nil
	}

	members := make([]Person, 0, len(names))
	for _, chunkNames := range chunk(names, batchGetMax) {
		rsp, err := s.api.BatchGetPeople(ctx, chunkNames, personFieldsGet)
		if err != nil {
			return nil, &reconcile.ListError{Collection: "contact group members", Err: err}
		}
		for _, pr := range rsp.Responses {
			if pr.Person == nil {
				continue
			}
			members = append(members, wrapPerson(pr.Person))
		}
	}

	s.log.Info("Got group member details", zap.Int("member_count", len(members)))
	return members, nil
}

// batchCreate inserts new contacts in chunks. Chunks run sequentially:
// the batch endpoint already combines many logical inserts, so the request
// itself is the unit of concurrency.
func (s *Service) batchCreate(ctx context.Context, inserts []model.User) (reconcile.Result, error) {
	result := reconcile.Result{Attempted: len(inserts)}
	var errs error

	for _, users := range chunk(inserts, batchCreateMax) {
		contacts := make([]*people.ContactToCreate, 0, len(users))
		described := make([]string, 0, len(users))
		for _, u := range users {
			contacts = append(contacts, &people.ContactToCreate{
				ContactPerson: newPerson(u, s.groupResourceName),
			})
			described = append(described, u.NameEmail())
		}

		s.log.Info("Adding contacts", zap.Int("count", len(users)), zap.Strings("people", described))
		if s.dryRun {
			result.Succeeded += len(users)
			result.Inserts += len(users)
			continue
		}

		if err := s.api.BatchCreateContacts(ctx, &people.BatchCreateContactsRequest{
			Contacts: contacts,
		}); err != nil {
			for _, u := range users {
				errs = multierr.Append(errs, &reconcile.WriteError{Op: reconcile.OpInsert, Key: u.Key(), Err: err})
			}
			continue
		}
		result.Succeeded += len(users)
		result.Inserts += len(users)
	}

	return result, errs
}

// batchUpdate merges each matched pair and submits chunked updates
// restricted to the sub-field categories the merger may touch.
func (s *Service) batchUpdate(ctx context.Context, updates []reconcile.Pair[model.User, Person]) (reconcile.Result, error) {
	result := reconcile.Result{Attempted: len(updates)}
	var errs error

	merged := make([]Person, 0, len(updates))
	for _, pair := range updates {
		merged = append(merged, Merge(pair.Desired, pair.Actual))
	}

	for _, persons := range chunk(merged, batchUpdateMax) {
		contacts := make(map[string]people.Person, len(persons))
		described := make([]string, 0, len(persons))
		for _, p := range persons {
			contacts[p.ResourceName] = *p.Raw
			described = append(described, p.NameEmail())
		}

		s.log.Info("Updating contacts", zap.Int("count", len(persons)), zap.Strings("people", described))
		if s.dryRun {
			result.Succeeded += len(persons)
			result.Updates += len(persons)
			continue
		}

		if err := s.api.BatchUpdateContacts(ctx, &people.BatchUpdateContactsRequest{
			Contacts:   contacts,
			ReadMask:   personFieldsGet,
			UpdateMask: personFieldsUpdate,
		}); err != nil {
			for _, p := range persons {
				errs = multierr.Append(errs, &reconcile.WriteError{Op: reconcile.OpUpdate, Key: p.Key(), Err: err})
			}
			continue
		}
		result.Succeeded += len(persons)
		result.Updates += len(persons)
	}

	return result, errs
}

// chunk splits items into runs of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	return append(chunks, items)
}
