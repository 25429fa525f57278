package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/kidmood/kidmood-api/internal/domain"
)

type CreateCheckinRequest struct {
	Emotion    string `json:"emotion"`
	Mode       string `json:"mode"`
	Note       string `json:"note,omitempty"`
	DrawingRef string `json:"drawing_ref,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	DateISO    string `json:"dateISO,omitempty"`
}

func (req *CreateCheckinRequest) Validate() error {
	emotions := make([]interface{}, 0, len(domain.Emotions))
	for _, e := range domain.Emotions {
		emotions = append(emotions, e)
	}
	modes := make([]interface{}, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		modes = append(modes, m)
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Emotion, validation.Required, validation.In(emotions...)),
		validation.Field(&req.Mode, validation.Required, validation.In(modes...)),
		validation.Field(&req.Note, validation.Length(0, 500)),
		validation.Field(&req.DateISO, validation.Date("2006-01-02T15:04:05Z07:00")),
	)
}
