package cmd

import (
	"context"
	"fmt"

	"scma-sync/core/auth"
	"scma-sync/core/config"
	"scma-sync/core/history"
	"scma-sync/core/logger"
	"scma-sync/core/model"
	"scma-sync/core/reconcile"
	"scma-sync/feature/calendar"
	"scma-sync/feature/club"
	"scma-sync/feature/contacts"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// Flags for sync commands
	syncDryRun   bool
	syncNotify   bool
	syncInput    string
	syncDates    string
	syncCalendar string
	syncGroup    string
	syncOwners   string
)

// syncCmd is the parent command for all sync operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize club records to Google",
	Long: `Synchronize the club's events and member roster to Google.

Each subcommand reconciles one target:
  events    upsert events into the calendar
  contacts  reconcile the contact group members
  acl       reconcile the calendar's reader grants
  all       run all three in order

Examples:
  # See what would change, without writing
  scma-sync sync all --dry-run

  # Sync events from a fetched snapshot
  scma-sync sync events --input snapshot.yaml

  # Share the calendar, sending notification emails for new grants
  scma-sync sync acl --notify`,
}

var syncEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Upsert club events into the calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("events", func(ctx context.Context, rt *runtime) (reconcile.Result, error) {
			return rt.syncEvents(ctx)
		})
	},
}

var syncContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Reconcile the contact group against the member roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("contacts", func(ctx context.Context, rt *runtime) (reconcile.Result, error) {
			return rt.syncContacts(ctx)
		})
	},
}

var syncACLCmd = &cobra.Command{
	Use:   "acl",
	Short: "Reconcile calendar reader grants against the member roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("acl", func(ctx context.Context, rt *runtime) (reconcile.Result, error) {
			return rt.syncACL(ctx)
		})
	},
}

var syncAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Sync events, contacts and calendar grants in one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync("all", func(ctx context.Context, rt *runtime) (reconcile.Result, error) {
			return rt.syncAll(ctx)
		})
	},
}

func init() {
	syncCmd.PersistentFlags().BoolVar(&syncDryRun, "dry-run", false, "Log planned writes without performing them")
	syncCmd.PersistentFlags().StringVar(&syncInput, "input", "", "Read events and users from a YAML snapshot instead of the club site")
	syncCmd.PersistentFlags().StringVar(&syncDates, "dates", "", "Which events to fetch: all or upcoming (default from config)")
	syncCmd.PersistentFlags().StringVar(&syncCalendar, "calendar", "", "Target calendar name (default from config)")
	syncCmd.PersistentFlags().StringVar(&syncGroup, "group", "", "Target contact group name (default from config)")
	syncCmd.PersistentFlags().StringVar(&syncOwners, "owners", "", "Comma-separated calendar owner emails (default from config)")
	syncACLCmd.Flags().BoolVar(&syncNotify, "notify", false, "Send sharing notification emails for new reader grants")
	syncAllCmd.Flags().BoolVar(&syncNotify, "notify", false, "Send sharing notification emails for new reader grants")

	syncCmd.AddCommand(syncEventsCmd)
	syncCmd.AddCommand(syncContactsCmd)
	syncCmd.AddCommand(syncACLCmd)
	syncCmd.AddCommand(syncAllCmd)
	RootCmd.AddCommand(syncCmd)
}

// runtime bundles the wired collaborators one sync run needs.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *history.Store
	source  club.Source
	aliases model.Aliases
	dryRun  bool
	notify  bool
}

// newRuntime loads configuration and wires the logger, history store,
// source and alias table.
func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Flag overrides
	if syncInput != "" {
		cfg.Club.Snapshot = syncInput
	}
	if syncDates != "" {
		cfg.Sync.Dates = syncDates
	}
	if syncCalendar != "" {
		cfg.Sync.Calendar = syncCalendar
	}
	if syncGroup != "" {
		cfg.Sync.Group = syncGroup
	}
	if syncOwners != "" {
		cfg.Sync.Owners = syncOwners
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History)
		if err != nil {
			return nil, err
		}
	}

	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	aliases, err := model.LoadAliases(cfg.Sync.AliasFile)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		log:     l,
		store:   store,
		source:  source,
		aliases: aliases,
		dryRun:  syncDryRun,
		// The flag can only switch notifications on; SYNC_NOTIFY carries
		// the standing choice.
		notify: syncNotify || cfg.Sync.Notify,
	}, nil
}

// newSource selects the club source. Turning live site pages into records
// needs a parser this binary does not carry, so live credentials alone are
// not enough; a fetched snapshot is the supported input.
func newSource(cfg *config.Config) (club.Source, error) {
	if cfg.Club.Snapshot != "" {
		return club.NewFileSource(cfg.Club.Snapshot)
	}
	return nil, fmt.Errorf("no club source configured: set --input or CLUB_SNAPSHOT to a fetched YAML snapshot")
}

func (rt *runtime) dateSelect() (model.DateSelect, error) {
	switch model.DateSelect(rt.cfg.Sync.Dates) {
	case model.DateSelectAll:
		return model.DateSelectAll, nil
	case model.DateSelectUpcoming:
		return model.DateSelectUpcoming, nil
	default:
		return "", fmt.Errorf("invalid dates selection %q (want all or upcoming)", rt.cfg.Sync.Dates)
	}
}

// runSync wires a runtime, executes one sync bucket, records the run and
// reports the summary. Any failed unit makes the command exit non-zero.
func runSync(kind string, fn func(ctx context.Context, rt *runtime) (reconcile.Result, error)) error {
	ctx := context.Background()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	run := history.NewRun(kind, rt.dryRun)
	rt.log = logger.WithRun(rt.log, run.ID)
	rt.log.Info("Starting sync", zap.String("kind", kind), zap.Bool("dry_run", rt.dryRun))

	result, syncErr := fn(ctx, rt)

	run.Inserts = result.Inserts
	run.Updates = result.Updates
	run.Deletes = result.Deletes
	run.Failed = result.Failed()
	if syncErr != nil {
		run.Error = syncErr.Error()
	}
	if err := rt.store.Record(ctx, run); err != nil {
		rt.log.Warn("Failed to record run", zap.Error(err))
	}

	logSummary(rt.log, kind, result)

	return syncError(kind, result, syncErr)
}

// syncError renders the exit error for a finished sync pass. A failure
// before any unit ran (listing, auth, source) is reported as-is; the
// failed-unit count only appears once units were attempted.
func syncError(kind string, result reconcile.Result, syncErr error) error {
	if syncErr == nil {
		return nil
	}
	if result.Attempted == 0 {
		return fmt.Errorf("sync %s: %w", kind, syncErr)
	}
	return fmt.Errorf("sync %s: %d of %d units failed: %w",
		kind, result.Failed(), result.Attempted, syncErr)
}

// calendarService authenticates and resolves the target calendar.
func (rt *runtime) calendarService(ctx context.Context) (*calendar.Service, error) {
	cred, err := auth.NewCredential(ctx, rt.log, rt.cfg.Auth, calendar.Scope)
	if err != nil {
		return nil, err
	}
	api, err := calendar.NewAPI(ctx, cred.Client(ctx))
	if err != nil {
		return nil, err
	}
	return calendar.New(ctx, rt.log, api, rt.cfg.Sync.Calendar, rt.dryRun)
}

// contactsService authenticates and resolves the target contact group.
func (rt *runtime) contactsService(ctx context.Context) (*contacts.Service, error) {
	cred, err := auth.NewCredential(ctx, rt.log, rt.cfg.Auth, contacts.Scope)
	if err != nil {
		return nil, err
	}
	api, err := contacts.NewAPI(ctx, cred.Client(ctx))
	if err != nil {
		return nil, err
	}
	return contacts.New(ctx, rt.log, api, rt.cfg.Sync.Group, rt.dryRun)
}

// fetchEvents pulls the event listing and enriches each event with its
// details before any remote write is attempted.
func (rt *runtime) fetchEvents(ctx context.Context) ([]model.Event, error) {
	sel, err := rt.dateSelect()
	if err != nil {
		return nil, err
	}

	events, err := rt.source.FetchEvents(ctx, sel)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i], err = rt.source.FetchEventDetails(ctx, events[i])
		if err != nil {
			return nil, err
		}
	}
	rt.log.Info("Fetched events", zap.Int("event_count", len(events)))
	return events, nil
}

// fetchUsers pulls the member roster with the alias remap applied.
func (rt *runtime) fetchUsers(ctx context.Context) ([]model.User, error) {
	users, err := rt.source.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	users = rt.aliases.ApplyAll(users)
	rt.log.Info("Fetched users", zap.Int("user_count", len(users)))
	return users, nil
}

func (rt *runtime) syncEvents(ctx context.Context) (reconcile.Result, error) {
	events, err := rt.fetchEvents(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	svc, err := rt.calendarService(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	return svc.SyncEvents(ctx, events)
}

func (rt *runtime) syncContacts(ctx context.Context) (reconcile.Result, error) {
	users, err := rt.fetchUsers(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	svc, err := rt.contactsService(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	return svc.SyncUsers(ctx, users)
}

func (rt *runtime) syncACL(ctx context.Context) (reconcile.Result, error) {
	users, err := rt.fetchUsers(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}
	svc, err := rt.calendarService(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}

	owners := rt.cfg.Sync.OwnerList()
	var result reconcile.Result

	ownerResult, err := svc.EnsureOwners(ctx, owners)
	result.Add(ownerResult)
	if err != nil {
		// Without the owner grants in place the reader diff would try to
		// demote them; stop here.
		return result, err
	}

	emails := make([]string, 0, len(users))
	for _, u := range users {
		if key := u.Key(); key != "" {
			emails = append(emails, key)
		}
	}

	aclResult, aclErr := svc.SyncACL(ctx, emails, owners, rt.notify)
	result.Add(aclResult)
	return result, aclErr
}

func (rt *runtime) syncAll(ctx context.Context) (reconcile.Result, error) {
	var result reconcile.Result
	var errs error

	eventResult, err := rt.syncEvents(ctx)
	result.Add(eventResult)
	errs = multierr.Append(errs, err)

	aclResult, err := rt.syncACL(ctx)
	result.Add(aclResult)
	errs = multierr.Append(errs, err)

	contactResult, err := rt.syncContacts(ctx)
	result.Add(contactResult)
	errs = multierr.Append(errs, err)

	return result, errs
}
