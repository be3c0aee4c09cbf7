// Package directory orchestrates the two-tier resolution policy: the local
// record store always takes precedence, the external validation service is
// consulted only on a local miss, and only an explicit add ever mutates the
// mapping.
package directory

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RecordStore,MembershipChecker,MutationAuthorizer,Resolver,AuditPublisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dialbook/internal/audit"
	"dialbook/internal/domain"
	"dialbook/internal/platform/metrics"
	"dialbook/internal/resolver"
	"dialbook/pkg/sentinel"
)

// fieldDelimiter separates the five record attributes in an add payload.
const fieldDelimiter = "|"

// RecordStore is the durable identifier-to-record mapping.
type RecordStore interface {
	Get(ctx context.Context, identifier string) (domain.Record, error)
	Put(ctx context.Context, identifier string, record domain.Record) error
	Delete(ctx context.Context, identifier string) error
	EnsureInitialized(ctx context.Context) error
	Snapshot(ctx context.Context) ([]byte, error)
}

// MembershipChecker gates read access. Implementations are fail-closed.
type MembershipChecker interface {
	IsMember(ctx context.Context, identity domain.Identity) bool
}

// MutationAuthorizer gates mutating operations to the single owner identity.
type MutationAuthorizer interface {
	CanMutate(identity domain.Identity) bool
}

// Resolver queries the external identity-validation service on a local miss.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (domain.PartialRecord, error)
}

// AuditPublisher records key actions. Optional; a nil publisher disables
// auditing.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates access checks, the record store, and the external
// resolver. It is the component the message channel invokes; every operation
// is a single request/response cycle with no carried session state.
type Service struct {
	store      RecordStore
	gate       MembershipChecker
	authorizer MutationAuthorizer
	resolver   Resolver

	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

// New constructs a Service. Store, gate, authorizer, and resolver are
// required; logger, metrics, and audit are optional.
func New(store RecordStore, gate MembershipChecker, authorizer MutationAuthorizer, res Resolver, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("membership gate is required")
	}
	if authorizer == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if res == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	svc := &Service{
		store:      store,
		gate:       gate,
		authorizer: authorizer,
		resolver:   res,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Lookup resolves an identifier for a requesting identity. The returned error
// is non-nil only for storage failures; every expected negative (denied
// access, miss on both tiers) is a typed outcome.
func (s *Service) Lookup(ctx context.Context, identity domain.Identity, identifier string) (*LookupResult, error) {
	identifier = domain.NormalizeIdentifier(identifier)

	if !s.gate.IsMember(ctx, identity) {
		s.observeLookup(LookupAccessDenied)
		s.emitAudit(ctx, audit.Event{
			Identity:   int64(identity),
			Action:     audit.ActionAccessDenied,
			Identifier: identifier,
		})
		return &LookupResult{Outcome: LookupAccessDenied, Identifier: identifier}, nil
	}

	record, err := s.store.Get(ctx, identifier)
	switch {
	case err == nil:
		s.observeLookup(LookupLocalRecord)
		return &LookupResult{Outcome: LookupLocalRecord, Identifier: identifier, Record: record}, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("lookup %q: %w", identifier, err)
	}

	started := time.Now()
	partial, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		result := "invalid"
		if errors.Is(err, sentinel.ErrUnavailable) {
			result = "unavailable"
			s.logger.Warn("validation service unavailable",
				"identifier", identifier, "error", err)
		} else if !errors.Is(err, resolver.ErrInvalidNumber) {
			result = "error"
			s.logger.Warn("resolution failed",
				"identifier", identifier, "error", err)
		}
		s.observeResolution(result, time.Since(started))
		s.observeLookup(LookupNoInformation)
		return &LookupResult{Outcome: LookupNoInformation, Identifier: identifier}, nil
	}
	s.observeResolution("resolved", time.Since(started))
	s.observeLookup(LookupRemoteRecord)
	return &LookupResult{Outcome: LookupRemoteRecord, Identifier: identifier, Partial: partial}, nil
}

// AddEntry inserts or overwrites a record. Authorization is checked before
// any payload parsing; fields must decompose into exactly the five expected
// attributes, each non-empty after trimming.
func (s *Service) AddEntry(ctx context.Context, identity domain.Identity, identifier, fields string) (*MutationResult, error) {
	if !s.authorizer.CanMutate(identity) {
		return s.forbidden(ctx, identity, "add", identifier), nil
	}

	identifier = domain.NormalizeIdentifier(identifier)
	record, ok := parseFields(fields)
	if identifier == "" || !ok {
		s.observeMutation("add", MutationMalformedInput)
		return &MutationResult{Outcome: MutationMalformedInput, Identifier: identifier}, nil
	}

	if err := s.store.Put(ctx, identifier, record); err != nil {
		return nil, fmt.Errorf("add entry %q: %w", identifier, err)
	}
	s.observeMutation("add", MutationAdded)
	s.emitAudit(ctx, audit.Event{
		Identity:   int64(identity),
		Action:     audit.ActionEntryAdded,
		Identifier: identifier,
	})
	return &MutationResult{Outcome: MutationAdded, Identifier: identifier}, nil
}

// DeleteEntry removes a record, reporting not-found for absent identifiers.
func (s *Service) DeleteEntry(ctx context.Context, identity domain.Identity, identifier string) (*MutationResult, error) {
	if !s.authorizer.CanMutate(identity) {
		return s.forbidden(ctx, identity, "delete", identifier), nil
	}

	identifier = domain.NormalizeIdentifier(identifier)
	err := s.store.Delete(ctx, identifier)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		s.observeMutation("delete", MutationNotFound)
		return &MutationResult{Outcome: MutationNotFound, Identifier: identifier}, nil
	case err != nil:
		return nil, fmt.Errorf("delete entry %q: %w", identifier, err)
	}
	s.observeMutation("delete", MutationDeleted)
	s.emitAudit(ctx, audit.Event{
		Identity:   int64(identity),
		Action:     audit.ActionEntryDeleted,
		Identifier: identifier,
	})
	return &MutationResult{Outcome: MutationDeleted, Identifier: identifier}, nil
}

// ExportBackup returns a byte-exact snapshot of the durable mapping. No
// filtering, no redaction.
func (s *Service) ExportBackup(ctx context.Context, identity domain.Identity) (*BackupResult, error) {
	if !s.authorizer.CanMutate(identity) {
		s.observeMutation("backup", MutationForbidden)
		s.emitAudit(ctx, audit.Event{
			Identity: int64(identity),
			Action:   audit.ActionForbidden,
			Detail:   "backup",
		})
		return &BackupResult{Forbidden: true}, nil
	}

	if err := s.store.EnsureInitialized(ctx); err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export backup: %w", err)
	}
	s.emitAudit(ctx, audit.Event{
		Identity: int64(identity),
		Action:   audit.ActionBackupExported,
	})
	return &BackupResult{Snapshot: snapshot}, nil
}

// parseFields splits a pipe-delimited payload into the five record
// attributes. Reports false on a wrong field count or any empty attribute.
func parseFields(fields string) (domain.Record, bool) {
	parts := strings.Split(fields, fieldDelimiter)
	if len(parts) != 5 {
		return domain.Record{}, false
	}
	record := domain.Record{
		Name:    parts[0],
		Father:  parts[1],
		Village: parts[2],
		State:   parts[3],
		Country: parts[4],
	}.Trimmed()
	if record.Name == "" || record.Father == "" || record.Village == "" ||
		record.State == "" || record.Country == "" {
		return domain.Record{}, false
	}
	return record, true
}

func (s *Service) forbidden(ctx context.Context, identity domain.Identity, operation, identifier string) *MutationResult {
	s.observeMutation(operation, MutationForbidden)
	s.emitAudit(ctx, audit.Event{
		Identity:   int64(identity),
		Action:     audit.ActionForbidden,
		Identifier: domain.NormalizeIdentifier(identifier),
		Detail:     operation,
	})
	return &MutationResult{Outcome: MutationForbidden, Identifier: identifier}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.Warn("audit event not recorded", "action", event.Action, "error", err)
	}
}

func (s *Service) observeLookup(outcome LookupOutcome) {
	if s.metrics != nil {
		s.metrics.ObserveLookup(string(outcome))
	}
}

func (s *Service) observeMutation(operation string, outcome MutationOutcome) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(operation, string(outcome))
	}
}

func (s *Service) observeResolution(result string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveResolution(result, elapsed)
	}
}
