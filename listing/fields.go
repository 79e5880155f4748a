// Package listing defines the concrete real-estate questionnaire and the
// HTML caption rendered from a completed draft.
package listing

import (
	"fmt"

	"github.com/kvartirka/listingbot/wizard"
)

// Field IDs of the questionnaire. The land field is asked only on the
// house branch.
const (
	FieldVideo    = "video"
	FieldPhotos   = "photos"
	FieldKind     = "kind"
	FieldDistrict = "district"
	FieldAddress  = "address"
	FieldRooms    = "rooms"
	FieldLand     = "land"
	FieldFloors   = "floors"
	FieldPrice    = "price"
)

// Object type options.
const (
	KindApartment = "Квартира"
	KindHouse     = "Дом"
)

// NewSchema builds the listing questionnaire: media first, then the object
// type, which forks the flow. A house gets an extra land-size question, so
// the house path collects seven fields and the apartment path six.
// maxPhotos only affects the prompt text, the accumulator enforces the cap.
func NewSchema(maxPhotos int) (*wizard.Schema, error) {
	if maxPhotos <= 0 {
		maxPhotos = 9
	}
	return wizard.NewSchema([]wizard.FieldSpec{
		{
			ID:     FieldVideo,
			Prompt: "Пришлите видео объекта или /skip",
			Kind:   wizard.KindVideo,
			Next:   FieldPhotos,
		},
		{
			ID: FieldPhotos,
			Prompt: fmt.Sprintf(
				"Пришлите фото (до %d штук). /done когда хватит, /skip — без фото.", maxPhotos),
			Kind: wizard.KindPhotos,
			Next: FieldKind,
		},
		{
			ID:       FieldKind,
			Prompt:   "Выберите тип объекта:",
			Kind:     wizard.KindChoice,
			Choices:  []string{KindApartment, KindHouse},
			Next:     FieldDistrict,
			Branches: map[string]string{KindHouse: FieldLand},
		},
		{
			ID:     FieldLand,
			Prompt: "Площадь участка (м²)?",
			Kind:   wizard.KindText,
			Next:   FieldDistrict,
		},
		{
			ID:     FieldDistrict,
			Prompt: "Введите район:",
			Kind:   wizard.KindText,
			Next:   FieldAddress,
		},
		{
			ID:     FieldAddress,
			Prompt: "Введите адрес:",
			Kind:   wizard.KindText,
			Next:   FieldRooms,
		},
		{
			ID:     FieldRooms,
			Prompt: "Сколько комнат?",
			Kind:   wizard.KindText,
			Next:   FieldFloors,
		},
		{
			ID:     FieldFloors,
			Prompt: "Сколько этажей?",
			Kind:   wizard.KindText,
			Next:   FieldPrice,
		},
		{
			ID:     FieldPrice,
			Prompt: "Цена?",
			Kind:   wizard.KindText,
			Next:   "",
		},
	})
}
