// Package access gates the wizard on channel membership. The check is
// fail-closed: any platform error counts as not a member, and the engine
// repeats it right before publish so a user who left mid-conversation
// cannot slip a listing through.
package access

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/kvartirka/listingbot/core/config"
	"github.com/kvartirka/listingbot/core/logger"
	"github.com/kvartirka/listingbot/wizard"
)

// MemberClient is the slice of the bot API the gate needs. *tele.Bot
// satisfies it.
type MemberClient interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// ChannelName is a Recipient for channels addressed by @username.
type ChannelName string

// Recipient implements tele.Recipient.
func (c ChannelName) Recipient() string { return string(c) }

// Gate checks channel membership for one configured channel.
type Gate struct {
	client   MemberClient
	channel  ChannelName
	joinLink string
}

// NewGate builds a Gate for the configured channel.
func NewGate(client MemberClient, cfg coreconfig.ChannelConfig) *Gate {
	return &Gate{
		client:   client,
		channel:  ChannelName(cfg.Name),
		joinLink: cfg.JoinLinkOrDefault(),
	}
}

// RequireAccess implements wizard.Gate. Creators, administrators, members
// and restricted members are allowed. Left, kicked, unknown statuses and
// every API error are denied.
func (g *Gate) RequireAccess(ctx context.Context, userID int64) wizard.Access {
	denied := wizard.Access{Allowed: false, JoinLink: g.joinLink}

	member, err := g.client.ChatMemberOf(g.channel, tele.ChatID(userID))
	if err != nil {
		logger.Warn(ctx, "access", "gate.check_failed",
			slog.Int64("user_id", userID),
			slog.String("channel", string(g.channel)),
			slog.String("error", err.Error()))
		return denied
	}

	switch member.Role {
	case tele.Creator, tele.Administrator, tele.Member, tele.Restricted:
		return wizard.Access{Allowed: true, JoinLink: g.joinLink}
	default:
		logger.Debug(ctx, "access", "gate.not_member",
			slog.Int64("user_id", userID),
			slog.String("role", string(member.Role)))
		return denied
	}
}
