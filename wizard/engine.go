package wizard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/kvartirka/listingbot/core/logger"
)

// Access is the gate's verdict for one user.
type Access struct {
	Allowed bool
	// JoinLink is shown to denied users so they can gain access.
	JoinLink string
}

// Gate decides whether a user may start and publish drafts. Implementations
// must fail closed: on any doubt return a denied Access.
type Gate interface {
	RequireAccess(ctx context.Context, userID int64) Access
}

// PublishedRef identifies a successfully published listing.
type PublishedRef struct {
	ListingID string
	MessageID int
}

// Publisher delivers a finished draft to the channel in a single attempt.
type Publisher interface {
	Publish(ctx context.Context, d Draft) (PublishedRef, error)
}

// RenderFunc builds the HTML preview and caption text for a draft.
type RenderFunc func(d Draft) string

// Options configures an Engine. Schema, Store, Gate, Publisher and Render
// are required.
type Options struct {
	Schema      *Schema
	Store       Store
	Gate        Gate
	Publisher   Publisher
	Render      RenderFunc
	MediaPolicy MediaPolicy
	MaxPhotos   int
	// MaxConcurrent bounds how many users are processed simultaneously.
	MaxConcurrent int64
}

// Engine is the conversation state machine. All user events funnel through
// Handle, which serializes per user and bounds total concurrency.
type Engine struct {
	schema    *Schema
	store     Store
	gate      Gate
	publisher Publisher
	render    RenderFunc
	policy    MediaPolicy
	maxPhotos int
	sem       *semaphore.Weighted
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Schema == nil:
		return nil, fmt.Errorf("wizard: schema required")
	case opts.Store == nil:
		return nil, fmt.Errorf("wizard: store required")
	case opts.Gate == nil:
		return nil, fmt.Errorf("wizard: gate required")
	case opts.Publisher == nil:
		return nil, fmt.Errorf("wizard: publisher required")
	case opts.Render == nil:
		return nil, fmt.Errorf("wizard: render func required")
	}
	if opts.MaxPhotos <= 0 {
		opts.MaxPhotos = 9
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 32
	}
	return &Engine{
		schema:    opts.Schema,
		store:     opts.Store,
		gate:      opts.Gate,
		publisher: opts.Publisher,
		render:    opts.Render,
		policy:    opts.MediaPolicy,
		maxPhotos: opts.MaxPhotos,
		sem:       semaphore.NewWeighted(opts.MaxConcurrent),
	}, nil
}

// InProgress reports whether the user has an active session. The transport
// uses it to decide between conversation and command routing.
func (e *Engine) InProgress(userID int64) bool {
	return e.store.InProgress(userID)
}

// ActiveSessions reports the number of live sessions.
func (e *Engine) ActiveSessions() int {
	return e.store.Active()
}

// Handle processes one event for one user and returns the outbound actions.
// Events of the same user run strictly one at a time, events of distinct
// users run concurrently up to the configured bound. A panic inside a step
// is converted into a generic apology and the session is kept.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) (actions []Action, err error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.sem.Release(1)

	release := e.store.Acquire(userID)
	defer release()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "wizard", "step.panic",
				slog.Int64("user_id", userID),
				slog.String("panic", fmt.Sprint(r)))
			actions = []Action{textAction(msgInternalError)}
			err = nil
		}
	}()

	return e.step(ctx, userID, ev)
}

func (e *Engine) step(ctx context.Context, userID int64, ev Event) ([]Action, error) {
	if cmd, ok := ev.(CommandEvent); ok {
		switch cmd.Name {
		case CmdNew:
			return e.startNew(ctx, userID)
		case CmdCancel:
			return e.cancel(ctx, userID)
		}
	}

	sess, ok := e.store.Get(userID)
	if !ok {
		return []Action{textAction(msgNoSession)}, ErrNoSession
	}

	if sess.State == StateConfirm {
		return e.stepConfirm(ctx, sess, ev)
	}
	return e.stepField(ctx, sess, ev)
}

// startNew runs the entry gate and replaces any existing draft with a fresh
// session on the first field.
func (e *Engine) startNew(ctx context.Context, userID int64) ([]Action, error) {
	acc := e.gate.RequireAccess(ctx, userID)
	if !acc.Allowed {
		logger.Info(ctx, "wizard", "gate.denied",
			slog.Int64("user_id", userID), slog.String("stage", "entry"))
		return []Action{textAction(deniedMessage(acc))}, nil
	}

	replaced := e.store.InProgress(userID)
	sess := newSession(userID, e.schema.First(), e.maxPhotos)
	e.store.Put(sess)
	logger.Info(ctx, "wizard", "session.started",
		slog.Int64("user_id", userID),
		slog.Bool("replaced", replaced),
		slog.String("state", sess.State))

	first, _ := e.schema.Field(sess.State)
	actions := []Action{textAction(msgStarted)}
	if replaced {
		actions[0] = textAction(msgRestartedOverDraft)
	}
	return append(actions, promptAction(first)), nil
}

func (e *Engine) cancel(ctx context.Context, userID int64) ([]Action, error) {
	if !e.store.InProgress(userID) {
		return []Action{textAction(msgNothingToCancel)}, nil
	}
	e.store.Delete(userID)
	logger.Info(ctx, "wizard", "session.cancelled", slog.Int64("user_id", userID))
	return []Action{{Text: msgCancelled, RemoveKeyboard: true}}, nil
}

// stepField handles events while a field is being collected.
func (e *Engine) stepField(ctx context.Context, sess *Session, ev Event) ([]Action, error) {
	fs, ok := e.schema.Field(sess.State)
	if !ok {
		// Unknown state means a schema change mid-flight, start over.
		logger.Warn(ctx, "wizard", "session.state_unknown",
			slog.Int64("user_id", sess.UserID), slog.String("state", sess.State))
		e.store.Delete(sess.UserID)
		return []Action{textAction(msgNoSession)}, nil
	}

	switch fs.Kind {
	case KindVideo:
		return e.stepVideo(ctx, sess, fs, ev)
	case KindPhotos:
		return e.stepPhotos(ctx, sess, fs, ev)
	default:
		return e.stepAnswer(ctx, sess, fs, ev)
	}
}

func (e *Engine) stepVideo(ctx context.Context, sess *Session, fs FieldSpec, ev Event) ([]Action, error) {
	switch v := ev.(type) {
	case VideoEvent:
		if err := sess.Media.AddVideo(v.FileID); err != nil {
			return []Action{textAction(msgVideoAlready)}, err
		}
		logger.Info(ctx, "wizard", "media.video_added", slog.Int64("user_id", sess.UserID))
		return e.advance(ctx, sess, fs, "")
	case CommandEvent:
		if v.Name == CmdSkip {
			return e.advance(ctx, sess, fs, "")
		}
	}
	return []Action{promptAction(fs)}, nil
}

func (e *Engine) stepPhotos(ctx context.Context, sess *Session, fs FieldSpec, ev Event) ([]Action, error) {
	switch v := ev.(type) {
	case PhotoEvent:
		if err := sess.Media.AddPhoto(v.FileID); err != nil {
			return []Action{textAction(msgPhotoLimit(sess.Media.MaxPhotos()))}, err
		}
		logger.Info(ctx, "wizard", "media.photo_added",
			slog.Int64("user_id", sess.UserID),
			slog.Int("photos", sess.Media.PhotoCount()))
		return []Action{textAction(msgPhotoAdded(sess.Media.PhotoCount(), sess.Media.MaxPhotos()))}, nil
	case CommandEvent:
		if v.Name == CmdDone || v.Name == CmdSkip {
			if err := sess.Media.Finish(e.policy); err != nil {
				return []Action{textAction(msgMediaRequired)}, err
			}
			return e.advance(ctx, sess, fs, "")
		}
	}
	return []Action{promptAction(fs)}, nil
}

// stepAnswer handles text and choice fields.
func (e *Engine) stepAnswer(ctx context.Context, sess *Session, fs FieldSpec, ev Event) ([]Action, error) {
	var raw string
	switch v := ev.(type) {
	case TextEvent:
		raw = v.Text
	case CallbackEvent:
		if fs.Kind != KindChoice || v.Key != CallbackChoice {
			return []Action{promptAction(fs)}, nil
		}
		raw = v.Payload
	default:
		return []Action{promptAction(fs)}, nil
	}

	value, err := e.schema.Validate(fs.ID, raw)
	if err != nil {
		var reason string
		if ve, ok := err.(*ValidationError); ok {
			reason = ve.Reason
		} else {
			reason = err.Error()
		}
		logger.Debug(ctx, "wizard", "field.rejected",
			slog.Int64("user_id", sess.UserID),
			slog.String("field", fs.ID),
			slog.String("reason", reason))
		return []Action{textAction(msgRejected(reason)), promptAction(fs)}, err
	}

	sess.setField(fs.ID, value)
	logger.Info(ctx, "wizard", "field.accepted",
		slog.Int64("user_id", sess.UserID),
		slog.String("field", fs.ID),
		slog.String("value", logger.SanitizeLimit(value, 64)))
	return e.advance(ctx, sess, fs, value)
}

// advance moves the session to the successor of fs and returns the next
// prompt, or the confirm screen when the flow is complete.
func (e *Engine) advance(ctx context.Context, sess *Session, fs FieldSpec, value string) ([]Action, error) {
	next, more := e.schema.Next(fs.ID, value)
	if !more {
		sess.State = StateConfirm
		logger.Info(ctx, "wizard", "session.confirming",
			slog.Int64("user_id", sess.UserID),
			slog.Int("fields", len(sess.FieldOrder)),
			slog.Int("photos", sess.Media.PhotoCount()),
			slog.Bool("video", sess.Media.Video() != ""))
		return []Action{
			htmlAction(e.render(sess.Draft())),
			{Text: msgConfirmPrompt, Buttons: confirmKeyboard(), RemoveKeyboard: true},
		}, nil
	}
	sess.State = next
	nf, _ := e.schema.Field(next)
	return []Action{promptAction(nf)}, nil
}

// stepConfirm handles the confirm-screen decision.
func (e *Engine) stepConfirm(ctx context.Context, sess *Session, ev Event) ([]Action, error) {
	cb, ok := ev.(CallbackEvent)
	if !ok || cb.Key != CallbackConfirm {
		return []Action{{Text: msgConfirmPrompt, Buttons: confirmKeyboard()}}, nil
	}

	switch cb.Payload {
	case ConfirmRestart:
		sess.restart(e.schema.First())
		logger.Info(ctx, "wizard", "session.restarted", slog.Int64("user_id", sess.UserID))
		first, _ := e.schema.Field(sess.State)
		return []Action{textAction(msgRestarted), promptAction(first)}, nil

	case ConfirmCancel:
		e.store.Delete(sess.UserID)
		logger.Info(ctx, "wizard", "session.cancelled", slog.Int64("user_id", sess.UserID))
		return []Action{textAction(msgCancelled)}, nil

	case ConfirmPublish:
		return e.publish(ctx, sess)

	default:
		return []Action{{Text: msgConfirmPrompt, Buttons: confirmKeyboard()}}, nil
	}
}

// publish re-checks the gate and hands the draft to the publisher exactly
// once. Success and failure both tear the session down, only the gate
// denial keeps the draft so the user can join and retry.
func (e *Engine) publish(ctx context.Context, sess *Session) ([]Action, error) {
	acc := e.gate.RequireAccess(ctx, sess.UserID)
	if !acc.Allowed {
		logger.Info(ctx, "wizard", "gate.denied",
			slog.Int64("user_id", sess.UserID), slog.String("stage", "publish"))
		return []Action{textAction(deniedMessage(acc))}, nil
	}

	ref, err := e.publisher.Publish(ctx, sess.Draft())
	e.store.Delete(sess.UserID)
	if err != nil {
		logger.Error(ctx, "wizard", "publish.failed",
			slog.Int64("user_id", sess.UserID), slog.String("error", err.Error()))
		return []Action{textAction(msgPublishFailed)}, &PublishError{Err: err}
	}

	logger.Info(ctx, "wizard", "publish.ok",
		slog.Int64("user_id", sess.UserID),
		slog.String("listing_id", ref.ListingID),
		slog.Int("message_id", ref.MessageID))
	return []Action{textAction(msgPublished)}, nil
}
