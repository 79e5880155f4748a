package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{"key and payload", "\flisting_confirm|publish", "listing_confirm", "publish"},
		{"key only", "\flisting_confirm", "listing_confirm", ""},
		{"no prefix", "listing_choice|Дом", "listing_choice", "Дом"},
		{"empty", "", "", ""},
		{"payload with separator", "\fk|a|b", "k", "a|b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			if unique != tc.unique {
				t.Errorf("unique = %q, want %q", unique, tc.unique)
			}
			if payload != tc.payload {
				t.Errorf("payload = %q, want %q", payload, tc.payload)
			}
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	if unique != "" || payload != "" {
		t.Errorf("nil callback: got %q, %q", unique, payload)
	}
}
