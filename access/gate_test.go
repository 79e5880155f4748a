package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/kvartirka/listingbot/core/config"
)

type fakeMemberClient struct {
	role tele.MemberStatus
	err  error

	gotChat string
	gotUser string
}

func (f *fakeMemberClient) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	f.gotChat = chat.Recipient()
	f.gotUser = user.Recipient()
	if f.err != nil {
		return nil, f.err
	}
	return &tele.ChatMember{Role: f.role}, nil
}

func newGate(client MemberClient) *Gate {
	return NewGate(client, coreconfig.ChannelConfig{Name: "@testchannel"})
}

func TestGateAllowedStatuses(t *testing.T) {
	for _, role := range []tele.MemberStatus{
		tele.Creator, tele.Administrator, tele.Member, tele.Restricted,
	} {
		t.Run(string(role), func(t *testing.T) {
			g := newGate(&fakeMemberClient{role: role})
			acc := g.RequireAccess(context.Background(), 42)
			assert.True(t, acc.Allowed)
		})
	}
}

func TestGateDeniedStatuses(t *testing.T) {
	for _, role := range []tele.MemberStatus{tele.Left, tele.Kicked} {
		t.Run(string(role), func(t *testing.T) {
			g := newGate(&fakeMemberClient{role: role})
			acc := g.RequireAccess(context.Background(), 42)
			assert.False(t, acc.Allowed)
			assert.Equal(t, "https://t.me/testchannel", acc.JoinLink)
		})
	}
}

func TestGateFailsClosed(t *testing.T) {
	g := newGate(&fakeMemberClient{err: errors.New("api: 502")})
	acc := g.RequireAccess(context.Background(), 42)
	assert.False(t, acc.Allowed)
	assert.NotEmpty(t, acc.JoinLink)
}

func TestGateAddressing(t *testing.T) {
	client := &fakeMemberClient{role: tele.Member}
	g := newGate(client)
	g.RequireAccess(context.Background(), 42)
	require.Equal(t, "@testchannel", client.gotChat)
	assert.Equal(t, "42", client.gotUser)
}

func TestGateJoinLinkOverride(t *testing.T) {
	g := NewGate(&fakeMemberClient{role: tele.Left}, coreconfig.ChannelConfig{
		Name:     "@testchannel",
		JoinLink: "https://t.me/+invite",
	})
	acc := g.RequireAccess(context.Background(), 42)
	assert.Equal(t, "https://t.me/+invite", acc.JoinLink)
}
