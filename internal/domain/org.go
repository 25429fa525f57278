package domain

import "time"

// DefaultOrgCode is the code of the lazily created tenant root. Exactly
// one org with this code exists per deployment.
const DefaultOrgCode = "demo"

type Org struct {
	ID        string    `json:"id" bson:"id"`
	Code      string    `json:"code" bson:"code"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Class struct {
	ID        string    `json:"id" bson:"id"`
	Code      string    `json:"code" bson:"code"`
	Name      string    `json:"name" bson:"name"`
	OrgID     string    `json:"org_id" bson:"org_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Student is the in-class record of a child. ChildRef weakly references
// the authenticated child identity; one Student exists per
// (ChildRef, ClassID) pair.
type Student struct {
	ID          string    `json:"id" bson:"id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	OrgID       string    `json:"org_id" bson:"org_id"`
	ChildRef    string    `json:"child_ref" bson:"child_ref"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
