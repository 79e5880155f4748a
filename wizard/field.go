package wizard

import (
	"fmt"
	"strings"
)

// Kind selects how a field collects its value.
type Kind int

const (
	// KindText expects a free-form text answer.
	KindText Kind = iota
	// KindChoice expects one of a fixed set of options, picked from an
	// inline keyboard or typed verbatim.
	KindChoice
	// KindVideo expects a video upload, skippable with /skip.
	KindVideo
	// KindPhotos accumulates photo uploads until /done or /skip.
	KindPhotos
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	case KindVideo:
		return "video"
	case KindPhotos:
		return "photos"
	default:
		return "unknown"
	}
}

// FieldSpec describes one step of the conversation. Next names the default
// successor field, empty means the confirm screen. Branches overrides Next
// per accepted value, which lets a choice fork the flow.
type FieldSpec struct {
	ID       string
	Prompt   string
	Kind     Kind
	Choices  []string
	Validate func(raw string) (string, error)
	Next     string
	Branches map[string]string
}

// Schema is a validated set of fields with a fixed entry point. Construction
// fails on dangling successors, unreachable fields or cycles, so a running
// engine can follow Next blindly.
type Schema struct {
	first  string
	fields map[string]FieldSpec
}

// NewSchema validates specs and returns a Schema starting at specs[0].
func NewSchema(specs []FieldSpec) (*Schema, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("schema: no fields")
	}
	fields := make(map[string]FieldSpec, len(specs))
	for _, fs := range specs {
		if fs.ID == "" {
			return nil, fmt.Errorf("schema: field with empty id")
		}
		if _, dup := fields[fs.ID]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", fs.ID)
		}
		if fs.Kind == KindChoice && len(fs.Choices) == 0 {
			return nil, fmt.Errorf("schema: choice field %q has no options", fs.ID)
		}
		for v := range fs.Branches {
			if fs.Kind == KindChoice && !containsChoice(fs.Choices, v) {
				return nil, fmt.Errorf("schema: field %q branches on unknown option %q", fs.ID, v)
			}
		}
		fields[fs.ID] = fs
	}
	s := &Schema{first: specs[0].ID, fields: fields}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSchema is NewSchema that panics, for package-level schema variables.
func MustSchema(specs []FieldSpec) *Schema {
	s, err := NewSchema(specs)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) check() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(s.fields))
	var visit func(id string) error
	visit = func(id string) error {
		fs, ok := s.fields[id]
		if !ok {
			return fmt.Errorf("schema: successor %q does not exist", id)
		}
		switch color[id] {
		case gray:
			return fmt.Errorf("schema: cycle through field %q", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, next := range successors(fs) {
			if next == "" {
				continue
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	if err := visit(s.first); err != nil {
		return err
	}
	for id := range s.fields {
		if color[id] != black {
			return fmt.Errorf("schema: field %q unreachable from %q", id, s.first)
		}
	}
	return nil
}

func successors(fs FieldSpec) []string {
	out := []string{fs.Next}
	for _, next := range fs.Branches {
		out = append(out, next)
	}
	return out
}

// First returns the entry field ID.
func (s *Schema) First() string { return s.first }

// Field looks up a field by ID.
func (s *Schema) Field(id string) (FieldSpec, bool) {
	fs, ok := s.fields[id]
	return fs, ok
}

// Len reports the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Validate normalizes and checks a raw answer for the given field. Text
// fields are trimmed and must be non-empty, choice fields must match one of
// the options, then the field's own Validate runs if set.
func (s *Schema) Validate(id, raw string) (string, error) {
	fs, ok := s.fields[id]
	if !ok {
		return "", fmt.Errorf("schema: unknown field %q", id)
	}
	v := strings.TrimSpace(raw)
	switch fs.Kind {
	case KindText:
		if v == "" {
			return "", &ValidationError{FieldID: id, Reason: "пустой ответ"}
		}
	case KindChoice:
		if !containsChoice(fs.Choices, v) {
			return "", &ValidationError{FieldID: id, Reason: "выберите вариант с клавиатуры"}
		}
	default:
		return "", fmt.Errorf("schema: field %q is not answerable with text", id)
	}
	if fs.Validate != nil {
		nv, err := fs.Validate(v)
		if err != nil {
			if ve, ok := err.(*ValidationError); ok {
				return "", ve
			}
			return "", &ValidationError{FieldID: id, Reason: err.Error()}
		}
		v = nv
	}
	return v, nil
}

// Next resolves the successor of a field given the accepted value. The
// second return is false when the flow proceeds to the confirm screen.
func (s *Schema) Next(id, value string) (string, bool) {
	fs, ok := s.fields[id]
	if !ok {
		return "", false
	}
	if next, ok := fs.Branches[value]; ok {
		return next, next != ""
	}
	return fs.Next, fs.Next != ""
}

func containsChoice(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}
