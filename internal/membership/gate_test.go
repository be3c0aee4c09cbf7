package membership

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"dialbook/internal/domain"
)

type stubChatClient struct {
	status string
	err    error
	calls  int
}

func (c *stubChatClient) ChatMemberStatus(_ context.Context, _ string, _ domain.Identity) (string, error) {
	c.calls++
	return c.status, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsMemberStatuses(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"member", true},
		{"administrator", true},
		{"creator", true},
		{"left", false},
		{"kicked", false},
		{"restricted", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run("status "+tc.status, func(t *testing.T) {
			client := &stubChatClient{status: tc.status}
			gate := New(client, "@directory", WithLogger(discardLogger()))

			got := gate.IsMember(context.Background(), domain.Identity(1001))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsMemberFailsClosedOnOracleError(t *testing.T) {
	client := &stubChatClient{err: errors.New("oracle unreachable")}
	gate := New(client, "@directory", WithLogger(discardLogger()))

	assert.False(t, gate.IsMember(context.Background(), domain.Identity(1001)))
}

func TestIsMemberQueriesOracleEveryCall(t *testing.T) {
	client := &stubChatClient{status: "member"}
	gate := New(client, "@directory", WithLogger(discardLogger()))

	ctx := context.Background()
	gate.IsMember(ctx, domain.Identity(1001))
	gate.IsMember(ctx, domain.Identity(1001))
	assert.Equal(t, 2, client.calls)
}
