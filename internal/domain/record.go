package domain

import "strings"

// UnknownField marks a PartialRecord attribute the validation service could
// not supply. Partial information is preferable to none, so resolution never
// fails on a missing field.
const UnknownField = "unknown"

// Identity is the opaque numeric user identifier supplied by the message
// channel. It is used for membership and owner checks and is never persisted.
type Identity int64

// Record is the five-field directory entry stored for an identifier. Field
// values are user-supplied and stored verbatim apart from whitespace trimming.
type Record struct {
	Name    string `json:"Name"`
	Father  string `json:"Father"`
	Village string `json:"Village"`
	State   string `json:"State"`
	Country string `json:"Country"`
}

// Trimmed returns a copy of the record with surrounding whitespace removed
// from every field.
func (r Record) Trimmed() Record {
	return Record{
		Name:    strings.TrimSpace(r.Name),
		Father:  strings.TrimSpace(r.Father),
		Village: strings.TrimSpace(r.Village),
		State:   strings.TrimSpace(r.State),
		Country: strings.TrimSpace(r.Country),
	}
}

// PartialRecord is the query-time result synthesized from the identity
// validation service on a local miss. It is never written to the store.
type PartialRecord struct {
	Country  string
	Carrier  string
	LineType string
}

// NormalizeIdentifier canonicalizes a phone-number key: surrounding
// whitespace is dropped so `" +91... "` and `"+91..."` address the same entry.
func NormalizeIdentifier(identifier string) string {
	return strings.TrimSpace(identifier)
}
