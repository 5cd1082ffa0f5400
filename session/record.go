package session

import "time"

type (
	// Record is what a Store keeps for each live session.
	Record struct {
		SessionID string    `json:"session_id"`
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Field names a Record attribute that can be used to query a Store.
	Field string
)

const (
	FieldSessionID = Field("session_id")
	FieldUserID    = Field("user_id")
)

func (f Field) Valid() bool {
	switch f {
	case FieldSessionID, FieldUserID:
		return true
	}
	return false
}

// Value returns the attribute of r named by f.
func (r Record) Value(f Field) string {
	switch f {
	case FieldSessionID:
		return r.SessionID
	case FieldUserID:
		return r.UserID
	}
	return ""
}

// Newest returns the most recently created record, a zero Record and false
// when the list is empty.
func Newest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	out := records[0]
	for _, r := range records[1:] {
		if r.CreatedAt.After(out.CreatedAt) {
			out = r
		}
	}
	return out, true
}
