package wizard

import "time"

// StateConfirm marks a session waiting for the confirm-screen decision.
// Every other state value is a field ID of the schema.
const StateConfirm = "confirm"

// Session is the mutable per-user draft. Access is serialized by the store's
// per-user lock, the struct itself is not synchronized.
type Session struct {
	UserID     int64
	State      string
	Fields     map[string]string
	FieldOrder []string
	Media      *Media
	CreatedAt  time.Time
}

func newSession(userID int64, first string, maxPhotos int) *Session {
	return &Session{
		UserID:    userID,
		State:     first,
		Fields:    make(map[string]string),
		Media:     NewMedia(maxPhotos),
		CreatedAt: time.Now(),
	}
}

// setField records an accepted answer, keeping collection order.
func (s *Session) setField(id, value string) {
	if _, seen := s.Fields[id]; !seen {
		s.FieldOrder = append(s.FieldOrder, id)
	}
	s.Fields[id] = value
}

// restart clears all collected data and puts the session back on first.
func (s *Session) restart(first string) {
	s.State = first
	s.Fields = make(map[string]string)
	s.FieldOrder = nil
	s.Media.Reset()
}

// Draft takes an immutable snapshot of the collected data for rendering
// and publishing.
func (s *Session) Draft() Draft {
	d := Draft{UserID: s.UserID, Video: s.Media.Video(), Photos: s.Media.Photos()}
	for _, id := range s.FieldOrder {
		d.Fields = append(d.Fields, FieldValue{ID: id, Value: s.Fields[id]})
	}
	return d
}

// FieldValue is one collected answer.
type FieldValue struct {
	ID    string
	Value string
}

// Draft is a point-in-time copy of a session's collected data.
type Draft struct {
	UserID int64
	Fields []FieldValue
	Video  string
	Photos []string
}

// Value returns the collected answer for a field, empty when not collected.
func (d Draft) Value(id string) string {
	for _, fv := range d.Fields {
		if fv.ID == id {
			return fv.Value
		}
	}
	return ""
}

// HasMedia reports whether the draft carries any attachment.
func (d Draft) HasMedia() bool { return d.Video != "" || len(d.Photos) > 0 }
