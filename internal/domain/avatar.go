package domain

import "time"

// Avatar is a child's chosen look, one record per ChildRef.
type Avatar struct {
	ID        string    `json:"id" bson:"id"`
	ChildRef  string    `json:"child_ref" bson:"child_ref"`
	Emoji     string    `json:"emoji" bson:"emoji"`
	Color     string    `json:"color" bson:"color"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
