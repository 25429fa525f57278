package domain

import "time"

// MoodDefault is the neutral baseline every axis starts at and decays
// toward.
const MoodDefault = 50

// MoodValues holds the six bounded axes, each within [0, 100].
type MoodValues struct {
	Love    int `json:"love" bson:"love"`
	Joy     int `json:"joy" bson:"joy"`
	Calm    int `json:"calm" bson:"calm"`
	Energy  int `json:"energy" bson:"energy"`
	Sadness int `json:"sadness" bson:"sadness"`
	Anger   int `json:"anger" bson:"anger"`
}

func NeutralMoodValues() MoodValues {
	return MoodValues{
		Love:    MoodDefault,
		Joy:     MoodDefault,
		Calm:    MoodDefault,
		Energy:  MoodDefault,
		Sadness: MoodDefault,
		Anger:   MoodDefault,
	}
}

// Mood is the per-child emotional accumulator. One record per ChildRef,
// mutated in place by awards and decay recomputation.
type Mood struct {
	ID          string     `json:"id" bson:"id"`
	ChildRef    string     `json:"child_ref" bson:"child_ref"`
	Values      MoodValues `json:"values" bson:"values"`
	LastUpdated time.Time  `json:"last_updated" bson:"last_updated"`
}

// MoodDelta is a signed adjustment applied to the axes; zero fields
// leave the axis unchanged.
type MoodDelta struct {
	Love    int `json:"love,omitempty" bson:"love,omitempty"`
	Joy     int `json:"joy,omitempty" bson:"joy,omitempty"`
	Calm    int `json:"calm,omitempty" bson:"calm,omitempty"`
	Energy  int `json:"energy,omitempty" bson:"energy,omitempty"`
	Sadness int `json:"sadness,omitempty" bson:"sadness,omitempty"`
	Anger   int `json:"anger,omitempty" bson:"anger,omitempty"`
}

func (d MoodDelta) IsZero() bool {
	return d == MoodDelta{}
}
