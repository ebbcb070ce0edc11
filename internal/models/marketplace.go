package models

import "time"

const (
	SessionStatusRequested = "solicitada"
	SessionStatusConfirmed = "confirmada"
	SessionStatusDeclined  = "recusada"
)

// Mentor is the public profile projection of a directory user with the
// mentor role.
type Mentor struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
	Areas      []string `json:"areas"`
	HourlyRate float64  `json:"hourly_rate,omitempty"`
	Bio        string   `json:"bio,omitempty"`
}

// Group is a study group stored in the remote directory. MemberIDs holds
// directory user record ids; the owner is always a member.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Area        string    `json:"area,omitempty"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func (group Group) HasMember(userID string) bool {
	for _, memberID := range group.MemberIDs {
		if memberID == userID {
			return true
		}
	}
	return false
}

// MentorSession is a scheduled mentorship session between a student and a
// mentor.
type MentorSession struct {
	ID        string    `json:"id"`
	MentorID  string    `json:"mentor_id"`
	StudentID string    `json:"student_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}
