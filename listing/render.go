package listing

import (
	"strings"

	"github.com/kvartirka/listingbot/wizard"
)

const contactFooter = "📞 Писать в ЛС продавцу"

// Render builds the HTML caption for a draft. Pure function of the draft,
// called at preview time and again at publish time so a stale render can
// never reach the channel. User input is escaped, markup is ours only.
func Render(d wizard.Draft) string {
	lines := []string{
		"<b>" + escape(d.Value(FieldKind)) + "</b>",
	}
	if v := d.Value(FieldDistrict); v != "" {
		lines = append(lines, "🏘 <b>Район:</b> "+escape(v))
	}
	if v := d.Value(FieldAddress); v != "" {
		lines = append(lines, "🗺 <b>Адрес:</b> "+escape(v))
	}
	if v := d.Value(FieldRooms); v != "" {
		lines = append(lines, "🚪 <b>Комнат:</b> "+escape(v))
	}
	if v := d.Value(FieldLand); v != "" {
		lines = append(lines, "🌳 <b>Участок:</b> "+escape(v)+" м²")
	}
	if v := d.Value(FieldFloors); v != "" {
		lines = append(lines, "🏢 <b>Этажей:</b> "+escape(v))
	}
	if v := d.Value(FieldPrice); v != "" {
		lines = append(lines, "💰 <b>Цена:</b> "+escape(v))
	}
	lines = append(lines, "", contactFooter)
	return strings.Join(lines, "\n")
}

// escape neutralizes the characters that break Telegram HTML parse mode.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
