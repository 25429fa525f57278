package domain

import "time"

const (
	EmotionHappy   = "happy"
	EmotionCalm    = "calm"
	EmotionTired   = "tired"
	EmotionSad     = "sad"
	EmotionCurious = "curious"
	EmotionAngry   = "angry"

	// EmotionUnknown buckets records whose emotion is missing or outside
	// the known set, so aggregation totals always add up.
	EmotionUnknown = "unknown"
)

const (
	ModeText  = "text"
	ModeVoice = "voice"
	ModeDraw  = "draw"
)

// Emotions lists the valid check-in emotions in display order.
var Emotions = []string{
	EmotionHappy,
	EmotionCalm,
	EmotionTired,
	EmotionSad,
	EmotionCurious,
	EmotionAngry,
}

var Modes = []string{ModeText, ModeVoice, ModeDraw}

func ValidEmotion(emotion string) bool {
	for _, e := range Emotions {
		if e == emotion {
			return true
		}
	}

	return false
}

func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}

	return false
}

// Checkin is one emotional self-report. Immutable once created; a
// duplicate ClientID for the same student returns the original record.
type Checkin struct {
	ID         string    `json:"id" bson:"id"`
	OrgID      string    `json:"org_id" bson:"org_id"`
	ClassID    string    `json:"class_id" bson:"class_id"`
	StudentID  string    `json:"student_id" bson:"student_id"`
	Emotion    string    `json:"emotion" bson:"emotion"`
	Mode       string    `json:"mode" bson:"mode"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	DrawingRef string    `json:"drawing_ref,omitempty" bson:"drawing_ref,omitempty"`
	Date       time.Time `json:"dateISO" bson:"date"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	ClientID   string    `json:"client_id,omitempty" bson:"client_id,omitempty"`
}

// Day returns the UTC calendar date of the check-in, the key used for
// time-series bucketing and date-window filtering.
func (c Checkin) Day() string {
	return c.Date.UTC().Format("2006-01-02")
}
