// Package resolver queries the external identity-validation service for
// numbers missing from the local store and normalizes its response into a
// partial record. It never mutates the record store.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dialbook/internal/domain"
	"dialbook/pkg/sentinel"
)

// ErrInvalidNumber reports that the validation service does not recognize the
// identifier as a valid number. Distinct from sentinel.ErrUnavailable, which
// covers the service itself being unreachable.
var ErrInvalidNumber = errors.New("invalid number")

// validateResponse mirrors the numverify validation payload. Absence of the
// validity flag decodes to false and is treated as an invalid number.
type validateResponse struct {
	Valid       bool   `json:"valid"`
	CountryName string `json:"country_name"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
}

// Numverify resolves identifiers against a numverify-compatible HTTP API.
// Each resolution is attempted exactly once with a bounded timeout.
type Numverify struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Numverify)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Numverify) {
		if client != nil {
			n.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(n *Numverify) {
		if timeout > 0 {
			n.timeout = timeout
		}
	}
}

// NewNumverify constructs a resolver against the given API base URL. A
// configured timeout applies whatever order the options arrive in, and the
// caller's client is never mutated.
func NewNumverify(baseURL, accessKey string, opts ...Option) *Numverify {
	n := &Numverify{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.timeout > 0 {
		client := *n.httpClient
		client.Timeout = n.timeout
		n.httpClient = &client
	}
	return n
}

// Resolve looks up metadata for the identifier. The identifier is trimmed and
// stripped of its leading "+" before querying. Missing response fields are
// substituted with the "unknown" marker rather than failing the resolution.
func (n *Numverify) Resolve(ctx context.Context, identifier string) (domain.PartialRecord, error) {
	if n.accessKey == "" {
		return domain.PartialRecord{}, fmt.Errorf("missing access key: %w", sentinel.ErrUnavailable)
	}

	number := strings.TrimPrefix(strings.TrimSpace(identifier), "+")

	endpoint := fmt.Sprintf("%s/api/validate?%s", n.baseURL, url.Values{
		"access_key": {n.accessKey},
		"number":     {number},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PartialRecord{}, fmt.Errorf("build validation request: %v: %w", err, sentinel.ErrUnavailable)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return domain.PartialRecord{}, fmt.Errorf("query validation service: %v: %w", err, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PartialRecord{}, fmt.Errorf("validation service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var payload validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.PartialRecord{}, fmt.Errorf("decode validation response: %v: %w", err, sentinel.ErrUnavailable)
	}

	if !payload.Valid {
		return domain.PartialRecord{}, ErrInvalidNumber
	}

	return domain.PartialRecord{
		Country:  orUnknown(payload.CountryName),
		Carrier:  orUnknown(payload.Carrier),
		LineType: orUnknown(payload.LineType),
	}, nil
}

func orUnknown(value string) string {
	if value == "" {
		return domain.UnknownField
	}
	return value
}
