// Package wizard implements the per-user conversation engine that collects a
// listing step by step: a declarative field schema, an in-memory session
// store with per-user serialization, a bounded media accumulator and the
// state machine that turns inbound events into outbound prompts and,
// eventually, a single publish.
package wizard

// Event is the tagged union of inbound updates the engine understands.
// The transport layer converts platform updates into exactly one of the
// concrete types below.
type Event interface {
	eventKind() string
}

// TextEvent carries a plain text answer.
type TextEvent struct {
	Text string
}

// PhotoEvent carries a reference to an uploaded photo.
type PhotoEvent struct {
	FileID string
}

// VideoEvent carries a reference to an uploaded video.
type VideoEvent struct {
	FileID string
}

// CallbackEvent carries an inline keyboard press.
type CallbackEvent struct {
	Key     string
	Payload string
}

// CommandEvent carries a slash command, name without the slash.
type CommandEvent struct {
	Name string
}

func (TextEvent) eventKind() string     { return "text" }
func (PhotoEvent) eventKind() string    { return "photo" }
func (VideoEvent) eventKind() string    { return "video" }
func (CallbackEvent) eventKind() string { return "callback" }
func (CommandEvent) eventKind() string  { return "command" }

// Commands understood by the engine.
const (
	CmdNew    = "new"
	CmdCancel = "cancel"
	CmdSkip   = "skip"
	CmdDone   = "done"
)

// Callback keys and confirm decisions used by the engine's keyboards.
const (
	CallbackChoice  = "listing_choice"
	CallbackConfirm = "listing_confirm"

	ConfirmPublish = "publish"
	ConfirmRestart = "restart"
	ConfirmCancel  = "cancel"
)
