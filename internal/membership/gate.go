// Package membership answers whether an identity currently satisfies the
// channel-membership access policy. Membership is only valid at the instant
// of a request: the gate re-queries the external oracle on every call and
// keeps no cache.
package membership

import (
	"context"
	"log/slog"
	"time"

	"dialbook/internal/domain"
)

// Statuses the external oracle reports that grant access.
const (
	statusMember        = "member"
	statusAdministrator = "administrator"
	statusCreator       = "creator"
)

// ChatClient queries the external membership oracle. The interface is kept
// small so tests can stub quickly.
type ChatClient interface {
	ChatMemberStatus(ctx context.Context, chat string, identity domain.Identity) (string, error)
}

// Gate checks identities against a configured chat/channel. On any query
// failure access defaults to denied, never granted.
type Gate struct {
	client  ChatClient
	chat    string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Gate)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithTimeout bounds each oracle query so a slow membership service cannot
// stall the whole request.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gate) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// New constructs a Gate for the given chat identifier.
func New(client ChatClient, chat string, opts ...Option) *Gate {
	g := &Gate{
		client:  client,
		chat:    chat,
		timeout: 5 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsMember reports whether the identity is currently a member, administrator,
// or creator of the configured chat. Fail-closed: unknown identities and
// oracle failures deny access.
func (g *Gate) IsMember(ctx context.Context, identity domain.Identity) bool {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	status, err := g.client.ChatMemberStatus(ctx, g.chat, identity)
	if err != nil {
		g.logger.Warn("membership check failed, denying access",
			"identity", int64(identity), "chat", g.chat, "error", err)
		return false
	}
	switch status {
	case statusMember, statusAdministrator, statusCreator:
		return true
	default:
		return false
	}
}
