package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/kvartirka/listingbot/core/config"
	"github.com/kvartirka/listingbot/wizard"
)

type sentAlbum struct {
	to    string
	album tele.Album
}

type sentMessage struct {
	to   string
	what interface{}
}

type fakeClient struct {
	albums   []sentAlbum
	messages []sentMessage
	err      error
}

func (f *fakeClient) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages = append(f.messages, sentMessage{to: to.Recipient(), what: what})
	return &tele.Message{ID: 101}, nil
}

func (f *fakeClient) SendAlbum(to tele.Recipient, a tele.Album, _ ...interface{}) ([]tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.albums = append(f.albums, sentAlbum{to: to.Recipient(), album: a})
	return []tele.Message{{ID: 202}, {ID: 203}}, nil
}

type fakeRecorder struct {
	records []Published
	err     error
}

func (f *fakeRecorder) RecordPublished(_ context.Context, p Published) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, p)
	return nil
}

func newCoordinator(client Client, rec Recorder) *Coordinator {
	cfg := coreconfig.ChannelConfig{Name: "@testchannel"}
	return New(client, cfg, func(wizard.Draft) string { return "<b>объявление</b>" }, rec)
}

func TestPublishVideoLeadsAlbum(t *testing.T) {
	client := &fakeClient{}
	c := newCoordinator(client, nil)

	ref, err := c.Publish(context.Background(), wizard.Draft{
		UserID: 7,
		Video:  "vid",
		Photos: []string{"p1", "p2"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ref.ListingID)
	assert.Equal(t, 202, ref.MessageID)

	require.Len(t, client.albums, 1)
	album := client.albums[0]
	assert.Equal(t, "@testchannel", album.to)
	require.Len(t, album.album, 3)

	video, ok := album.album[0].(*tele.Video)
	require.True(t, ok, "video must lead the group")
	assert.Equal(t, "vid", video.FileID)
	assert.Equal(t, "<b>объявление</b>", video.Caption)

	photo, ok := album.album[1].(*tele.Photo)
	require.True(t, ok)
	assert.Empty(t, photo.Caption, "only the leading item carries the caption")
}

func TestPublishVideoOnly(t *testing.T) {
	client := &fakeClient{}
	c := newCoordinator(client, nil)

	ref, err := c.Publish(context.Background(), wizard.Draft{Video: "vid"})
	require.NoError(t, err)
	assert.Equal(t, 101, ref.MessageID)

	require.Len(t, client.messages, 1)
	video, ok := client.messages[0].what.(*tele.Video)
	require.True(t, ok)
	assert.Equal(t, "<b>объявление</b>", video.Caption)
}

func TestPublishPhotosOnlyFirstCarriesCaption(t *testing.T) {
	client := &fakeClient{}
	c := newCoordinator(client, nil)

	_, err := c.Publish(context.Background(), wizard.Draft{Photos: []string{"p1", "p2", "p3"}})
	require.NoError(t, err)

	require.Len(t, client.albums, 1)
	album := client.albums[0].album
	require.Len(t, album, 3)
	first := album[0].(*tele.Photo)
	assert.Equal(t, "<b>объявление</b>", first.Caption)
	for _, item := range album[1:] {
		assert.Empty(t, item.(*tele.Photo).Caption)
	}
}

func TestPublishPlainMessageWithoutMedia(t *testing.T) {
	client := &fakeClient{}
	c := newCoordinator(client, nil)

	_, err := c.Publish(context.Background(), wizard.Draft{})
	require.NoError(t, err)
	require.Len(t, client.messages, 1)
	assert.Equal(t, "<b>объявление</b>", client.messages[0].what)
}

func TestPublishFailureIsTerminal(t *testing.T) {
	client := &fakeClient{err: errors.New("telegram: 502")}
	c := newCoordinator(client, nil)

	_, err := c.Publish(context.Background(), wizard.Draft{Video: "vid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish listing")
	assert.Empty(t, client.messages, "no second attempt")
}

func TestPublishRecordsArchive(t *testing.T) {
	client := &fakeClient{}
	rec := &fakeRecorder{}
	c := newCoordinator(client, rec)

	ref, err := c.Publish(context.Background(), wizard.Draft{
		UserID: 9,
		Video:  "vid",
		Photos: []string{"p1"},
	})
	require.NoError(t, err)

	require.Len(t, rec.records, 1)
	p := rec.records[0]
	assert.Equal(t, ref.ListingID, p.ListingID)
	assert.Equal(t, int64(9), p.UserID)
	assert.True(t, p.HasVideo)
	assert.Equal(t, 1, p.Photos)
	assert.Equal(t, "@testchannel", p.Channel)
}

func TestPublishSucceedsWhenRecorderFails(t *testing.T) {
	client := &fakeClient{}
	rec := &fakeRecorder{err: errors.New("db down")}
	c := newCoordinator(client, rec)

	_, err := c.Publish(context.Background(), wizard.Draft{})
	assert.NoError(t, err, "archive failure must not fail the publish")
}
