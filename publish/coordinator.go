// Package publish delivers finished drafts to the broadcast channel as a
// single logical send. Delivery is at-most-once: a failed attempt is
// surfaced as a total failure and never retried, a partially delivered
// media group must not be duplicated.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/kvartirka/listingbot/access"
	coreconfig "github.com/kvartirka/listingbot/core/config"
	"github.com/kvartirka/listingbot/core/logger"
	"github.com/kvartirka/listingbot/wizard"
)

// Client is the slice of the bot API the coordinator needs. *tele.Bot
// satisfies it.
type Client interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	SendAlbum(to tele.Recipient, a tele.Album, opts ...interface{}) ([]tele.Message, error)
}

// Published describes one successfully broadcast listing, for the archive.
type Published struct {
	ListingID string
	UserID    int64
	Caption   string
	HasVideo  bool
	Photos    int
	MessageID int
	Channel   string
}

// Recorder persists published listings. Recording is best effort, a
// recorder failure never fails the publish.
type Recorder interface {
	RecordPublished(ctx context.Context, p Published) error
}

// Coordinator renders a draft and sends it to the channel.
type Coordinator struct {
	client   Client
	channel  access.ChannelName
	render   wizard.RenderFunc
	recorder Recorder
}

// New builds a Coordinator. recorder may be nil when archiving is disabled.
func New(client Client, cfg coreconfig.ChannelConfig, render wizard.RenderFunc, recorder Recorder) *Coordinator {
	return &Coordinator{
		client:   client,
		channel:  access.ChannelName(cfg.Name),
		render:   render,
		recorder: recorder,
	}
}

// Publish implements wizard.Publisher. The caption is rendered from the
// draft here, at publish time. With both video and photos the video leads
// the media group and carries the caption, photos only put the caption on
// the first photo, without media a plain message is sent.
func (c *Coordinator) Publish(ctx context.Context, d wizard.Draft) (wizard.PublishedRef, error) {
	caption := c.render(d)
	listingID := uuid.NewString()

	messageID, err := c.send(d, caption)
	if err != nil {
		return wizard.PublishedRef{}, fmt.Errorf("publish listing %s: %w", listingID, err)
	}

	logger.Info(ctx, "publish", "listing.published",
		slog.String("listing_id", listingID),
		slog.String("channel", string(c.channel)),
		slog.Int("message_id", messageID),
		slog.Bool("video", d.Video != ""),
		slog.Int("photos", len(d.Photos)))

	c.record(ctx, Published{
		ListingID: listingID,
		UserID:    d.UserID,
		Caption:   caption,
		HasVideo:  d.Video != "",
		Photos:    len(d.Photos),
		MessageID: messageID,
		Channel:   string(c.channel),
	})

	return wizard.PublishedRef{ListingID: listingID, MessageID: messageID}, nil
}

func (c *Coordinator) send(d wizard.Draft, caption string) (int, error) {
	switch {
	case d.Video != "" && len(d.Photos) > 0:
		album := make(tele.Album, 0, 1+len(d.Photos))
		album = append(album, &tele.Video{
			File:    tele.File{FileID: d.Video},
			Caption: caption,
		})
		for _, p := range d.Photos {
			album = append(album, &tele.Photo{File: tele.File{FileID: p}})
		}
		return firstMessageID(c.client.SendAlbum(c.channel, album, tele.ModeHTML))

	case d.Video != "":
		return messageID(c.client.Send(c.channel, &tele.Video{
			File:    tele.File{FileID: d.Video},
			Caption: caption,
		}, tele.ModeHTML))

	case len(d.Photos) > 0:
		album := make(tele.Album, 0, len(d.Photos))
		for i, p := range d.Photos {
			ph := &tele.Photo{File: tele.File{FileID: p}}
			if i == 0 {
				ph.Caption = caption
			}
			album = append(album, ph)
		}
		return firstMessageID(c.client.SendAlbum(c.channel, album, tele.ModeHTML))

	default:
		return messageID(c.client.Send(c.channel, caption, tele.ModeHTML, tele.NoPreview))
	}
}

func (c *Coordinator) record(ctx context.Context, p Published) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordPublished(ctx, p); err != nil {
		logger.Warn(ctx, "publish", "archive.record_failed",
			slog.String("listing_id", p.ListingID),
			slog.String("error", err.Error()))
	}
}

func messageID(msg *tele.Message, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if msg == nil {
		return 0, nil
	}
	return msg.ID, nil
}

func firstMessageID(msgs []tele.Message, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	return msgs[0].ID, nil
}
