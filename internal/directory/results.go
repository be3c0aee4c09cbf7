package directory

import "dialbook/internal/domain"

// LookupOutcome enumerates what a lookup resolved to. Every failure path is
// distinguishable by outcome rather than collapsed into a generic error.
type LookupOutcome string

const (
	// LookupAccessDenied means the membership check failed. It says nothing
	// about whether a record exists.
	LookupAccessDenied LookupOutcome = "access_denied"
	// LookupLocalRecord means the stored record was returned.
	LookupLocalRecord LookupOutcome = "local_record"
	// LookupRemoteRecord means the external validation service supplied a
	// partial record after a local miss.
	LookupRemoteRecord LookupOutcome = "remote_record"
	// LookupNoInformation means neither tier produced anything: local miss
	// plus an invalid number or unreachable validation service.
	LookupNoInformation LookupOutcome = "no_information"
)

// LookupResult carries the lookup outcome with whichever record tier filled
// it. Record is set only for LookupLocalRecord, Partial only for
// LookupRemoteRecord.
type LookupResult struct {
	Outcome    LookupOutcome
	Identifier string
	Record     domain.Record
	Partial    domain.PartialRecord
}

// MutationOutcome enumerates results of add/delete operations.
type MutationOutcome string

const (
	// MutationForbidden means the identity is not the configured owner. The
	// store is left untouched regardless of payload validity.
	MutationForbidden MutationOutcome = "forbidden"
	// MutationMalformedInput means the payload did not decompose into the
	// expected attributes.
	MutationMalformedInput MutationOutcome = "malformed_input"
	// MutationAdded covers both insert and overwrite; there is no distinct
	// "updated" outcome.
	MutationAdded   MutationOutcome = "added"
	MutationDeleted MutationOutcome = "deleted"
	// MutationNotFound applies to deletes of absent identifiers; the mapping
	// is unchanged.
	MutationNotFound MutationOutcome = "not_found"
)

// MutationResult is the typed outcome of AddEntry and DeleteEntry.
type MutationResult struct {
	Outcome    MutationOutcome
	Identifier string
}

// BackupResult carries a byte-exact snapshot of the durable mapping, or a
// forbidden marker when the caller is not the owner.
type BackupResult struct {
	Forbidden bool
	Snapshot  []byte
}
