package domain

// Scope bounds everything a caller may read or write. Empty ClassID and
// StudentID are a valid terminal state ("no data in range"), never an
// error.
type Scope struct {
	OrgID     string `json:"org_id"`
	ClassID   string `json:"class_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
}

// Identity is the already-authenticated caller handed to the core by
// the transport layer.
type Identity struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}
