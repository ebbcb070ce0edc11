package models

const (
	RoleStudent = "aluno"
	RoleMentor  = "mentor"
)

// User is the authenticated identity cached across restarts. ExternalID is
// the record identifier assigned by the remote directory and is the value
// used for every ownership and membership check.
type User struct {
	ExternalID     string   `json:"external_id"`
	RecordID       string   `json:"record_id,omitempty"`
	Email          string   `json:"email"`
	DisplayName    string   `json:"display_name"`
	Role           string   `json:"role"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	KnowledgeAreas []string `json:"knowledge_areas,omitempty"`
	HourlyRate     float64  `json:"hourly_rate,omitempty"`
	Bio            string   `json:"bio,omitempty"`
}

// StoredAuth is the serialized session slot: the cached user plus the
// session token minted at login.
type StoredAuth struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleMentor
}
