package calendar

import (
	"context"

	"scma-sync/core/model"
	"scma-sync/core/reconcile"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

const (
	roleReader = "reader"
	roleOwner  = "owner"

	scopeTypeUser = "user"

	// aclWriteWidth stays at 1: the remote rate limiter penalizes ACL
	// write concurrency above a single in-flight request.
	aclWriteWidth = 1
)

// ruleEmail returns the diff key for an ACL rule: the normalized grantee
// email, or empty for rules without a user scope (domain/default rules),
// which are then left untouched.
func ruleEmail(rule *calendar.AclRule) string {
	if rule == nil || rule.Scope == nil || rule.Scope.Type != scopeTypeUser {
		return ""
	}
	return model.NormalizeEmail(rule.Scope.Value)
}

// EnsureOwners grants the owner role to each pinned co-owner. Owner grants
// run at startup, sequentially, and never send an invitation email.
func (s *Service) EnsureOwners(ctx context.Context, owners []string) (reconcile.Result, error) {
	units := make([]reconcile.Unit, 0, len(owners))
	for _, owner := range owners {
		email := model.NormalizeEmail(owner)
		units = append(units, reconcile.Unit{
			Op:       reconcile.OpInsert,
			Key:      email,
			Describe: "owner grant",
			Do: func(ctx context.Context) error {
				rule := &calendar.AclRule{
					Role:  roleOwner,
					Scope: &calendar.AclRuleScope{Type: scopeTypeUser, Value: email},
				}
				_, err := s.api.InsertACL(ctx, s.calendarID, rule, false)
				return err
			},
		})
	}

	return reconcile.Apply(ctx, s.log, units, reconcile.Options{
		Width:  aclWriteWidth,
		DryRun: s.dryRun,
	})
}

// SyncACL reconciles the calendar's reader grants against the desired
// member emails. Owner rules and the pinned owner list are excluded from
// the diff entirely, so externally managed identities are never touched.
// notify controls whether newly granted readers receive an invitation
// email.
func (s *Service) SyncACL(ctx context.Context, desired []string, owners []string, notify bool) (reconcile.Result, error) {
	rules, err := reconcile.ListAll(ctx, "calendar acl",
		func(ctx context.Context, pageToken string) ([]*calendar.AclRule, string, error) {
			acl, err := s.api.ListACL(ctx, s.calendarID, pageToken)
			if err != nil {
				return nil, "", err
			}
			return acl.Items, acl.NextPageToken, nil
		})
	if err != nil {
		return reconcile.Result{}, err
	}

	// Only reader grants participate in the diff. Owners are pinned and
	// other roles belong to whoever granted them.
	readers := make([]*calendar.AclRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Role == roleReader {
			readers = append(readers, rule)
		}
	}

	normalized := make([]string, 0, len(desired))
	for _, email := range desired {
		normalized = append(normalized, model.NormalizeEmail(email))
	}
	pinned := make([]string, 0, len(owners))
	for _, owner := range owners {
		pinned = append(pinned, model.NormalizeEmail(owner))
	}

	cs := reconcile.Diff(normalized, readers,
		func(email string) string { return email },
		ruleEmail,
	).Exclude(pinned...)

	s.log.Info("Determined ACL operations",
		zap.Int("inserts", len(cs.Inserts)),
		zap.Int("keeps", len(cs.Updates)),
		zap.Int("deletes", len(cs.Deletes)),
	)

	units := make([]reconcile.Unit, 0, len(cs.Inserts)+len(cs.Deletes))
	for _, email := range cs.Inserts {
		units = append(units, reconcile.Unit{
			Op:       reconcile.OpInsert,
			Key:      email,
			Describe: "reader grant",
			Do: func(ctx context.Context) error {
				rule := &calendar.AclRule{
					Role:  roleReader,
					Scope: &calendar.AclRuleScope{Type: scopeTypeUser, Value: email},
				}
				_, err := s.api.InsertACL(ctx, s.calendarID, rule, notify)
				return err
			},
		})
	}
	for _, rule := range cs.Deletes {
		email := ruleEmail(rule)
		ruleID := rule.Id
		if ruleID == "" {
			ruleID = scopeTypeUser + ":" + email
		}
		units = append(units, reconcile.Unit{
			Op:       reconcile.OpDelete,
			Key:      email,
			Describe: "reader revoke",
			Do: func(ctx context.Context) error {
				return s.api.DeleteACL(ctx, s.calendarID, ruleID)
			},
		})
	}

	// A reader that matched on both sides needs no write; updates are
	// counted for the report only.
	result, err := reconcile.Apply(ctx, s.log, units, reconcile.Options{
		Width:  aclWriteWidth,
		DryRun: s.dryRun,
	})
	return result, err
}
