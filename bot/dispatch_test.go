package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/kvartirka/listingbot/core/telegram/helpers"
	"github.com/kvartirka/listingbot/core/telegram/sender"
	"github.com/kvartirka/listingbot/wizard"
)

// recordingContext implements the slice of tele.Context the conversation
// path touches and records outbound sends in call order.
type recordingContext struct {
	tele.Context

	user *tele.User
	text string

	// delayFirst stalls the first send, so any delivery that leaks onto a
	// worker pool would record later sends ahead of it.
	delayFirst time.Duration
	sent       []string
}

func (r *recordingContext) Sender() *tele.User { return r.user }

func (r *recordingContext) Chat() *tele.Chat { return &tele.Chat{ID: r.user.ID} }

func (r *recordingContext) Message() *tele.Message {
	return &tele.Message{Text: r.text, Sender: r.user}
}

func (r *recordingContext) Text() string { return r.text }

func (r *recordingContext) Update() tele.Update { return tele.Update{ID: 1} }

func (r *recordingContext) Get(string) interface{} { return nil }

func (r *recordingContext) Set(string, interface{}) {}

func (r *recordingContext) Send(what interface{}, _ ...interface{}) error {
	if len(r.sent) == 0 && r.delayFirst > 0 {
		time.Sleep(r.delayFirst)
	}
	r.sent = append(r.sent, fmt.Sprint(what))
	return nil
}

type allowAllGate struct{}

func (allowAllGate) RequireAccess(context.Context, int64) wizard.Access {
	return wizard.Access{Allowed: true}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, wizard.Draft) (wizard.PublishedRef, error) {
	return wizard.PublishedRef{ListingID: "id", MessageID: 1}, nil
}

func newDispatchApp(t *testing.T) *App {
	t.Helper()
	schema := wizard.MustSchema([]wizard.FieldSpec{
		{
			ID:     "district",
			Prompt: "Введите район:",
			Kind:   wizard.KindText,
			Validate: func(raw string) (string, error) {
				if raw == "-" {
					return "", fmt.Errorf("укажите район словами")
				}
				return raw, nil
			},
			Next: "price",
		},
		{ID: "price", Prompt: "Цена?", Kind: wizard.KindText, Next: ""},
	})
	eng, err := wizard.New(wizard.Options{
		Schema:    schema,
		Store:     wizard.NewMemoryStore(),
		Gate:      allowAllGate{},
		Publisher: nopPublisher{},
		Render:    func(wizard.Draft) string { return "preview" },
	})
	require.NoError(t, err)
	return &App{engine: eng}
}

// Multi-message responses must reach the user in the order the engine
// produced them even while an async sender pool is installed for the
// fire-and-forget paths.
func TestDispatchDeliversActionsInOrder(t *testing.T) {
	disp := sender.NewDispatcher(sender.Options{QueueSize: 256, Workers: 4})
	helpers.SetDispatcher(disp)
	t.Cleanup(func() {
		helpers.SetDispatcher(nil)
		disp.Close()
	})

	a := newDispatchApp(t)
	rc := &recordingContext{
		user:       &tele.User{ID: 10},
		text:       "/new",
		delayFirst: 30 * time.Millisecond,
	}
	require.NoError(t, a.HandleMessage(rc))

	require.Len(t, rc.sent, 2)
	assert.NotContains(t, rc.sent[0], "Введите район")
	assert.Contains(t, rc.sent[1], "Введите район", "the first prompt must arrive last")
}

// A rejected answer re-prompts the user and is not a handler failure: the
// rejection precedes the repeated prompt and dispatch reports success.
func TestDispatchRejectedAnswerIsNotAFailure(t *testing.T) {
	a := newDispatchApp(t)
	rc := &recordingContext{user: &tele.User{ID: 11}, text: "/new"}
	require.NoError(t, a.HandleMessage(rc))
	require.Len(t, rc.sent, 2)

	rc.text = "-"
	require.NoError(t, a.HandleMessage(rc))

	require.Len(t, rc.sent, 4)
	assert.Contains(t, rc.sent[2], "укажите район словами")
	assert.Contains(t, rc.sent[3], "Введите район")
	assert.True(t, a.InProgress(11))
}

func TestFlowControl(t *testing.T) {
	assert.True(t, flowControl(wizard.ErrNoSession))
	assert.True(t, flowControl(wizard.ErrVideoAlreadySet))
	assert.True(t, flowControl(wizard.ErrPhotoLimit))
	assert.True(t, flowControl(wizard.ErrMediaIncomplete))
	assert.True(t, flowControl(&wizard.ValidationError{FieldID: "price", Reason: "не число"}))

	assert.False(t, flowControl(nil))
	assert.False(t, flowControl(fmt.Errorf("telegram: 502")))
	assert.False(t, flowControl(&wizard.PublishError{Err: fmt.Errorf("telegram: 502")}))
}
