package auth

import (
	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/models"
)

// Directory Users field names. The remote table predates this codebase, so
// the Portuguese field names are part of the wire contract.
const (
	fieldEmail           = "email"
	fieldEmailNormalized = "email_lc"
	fieldPasswordHash    = "password_hash"
	fieldDisplayName     = "nome"
	fieldRole            = "role"
	fieldAvatarURL       = "foto_url"
	fieldAreas           = "areas"
	fieldHourlyRate      = "preco_hora"
	fieldBio             = "bio"
	fieldRecordID        = "record_id"
)

// mapUser projects a Users record onto the session identity. The record id
// assigned by the directory becomes ExternalID and is the only identifier
// other tables link against.
func mapUser(record directory.Record) models.User {
	return models.User{
		ExternalID:     record.ID,
		RecordID:       record.FieldString(fieldRecordID),
		Email:          record.FieldString(fieldEmail),
		DisplayName:    record.FieldString(fieldDisplayName),
		Role:           record.FieldString(fieldRole),
		AvatarURL:      record.FieldString(fieldAvatarURL),
		KnowledgeAreas: record.FieldStrings(fieldAreas),
		HourlyRate:     record.FieldFloat(fieldHourlyRate),
		Bio:            record.FieldString(fieldBio),
	}
}
