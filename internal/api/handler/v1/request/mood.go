package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AwardMoodRequest struct {
	Reason string `json:"reason,omitempty"`
	Delta  *struct {
		Love    int `json:"love,omitempty"`
		Joy     int `json:"joy,omitempty"`
		Calm    int `json:"calm,omitempty"`
		Energy  int `json:"energy,omitempty"`
		Sadness int `json:"sadness,omitempty"`
		Anger   int `json:"anger,omitempty"`
	} `json:"delta,omitempty"`
}

func (req *AwardMoodRequest) Validate() error {
	if req.Delta != nil {
		return nil
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required),
	)
}

type UpsertAvatarRequest struct {
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

func (req *UpsertAvatarRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Emoji, validation.Required, validation.Length(1, 16)),
		validation.Field(&req.Color, validation.Length(0, 16)),
	)
}
