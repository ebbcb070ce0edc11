package marketplace

import (
	"time"

	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/models"
)

// mapMentor prefers the stable record_id field over the directory's own
// identifier so rows keep their identity across base copies.
func mapMentor(record directory.Record) models.Mentor {
	id := record.FieldString("record_id")
	if id == "" {
		id = record.ID
	}
	return models.Mentor{
		ID:         id,
		Name:       record.FieldString("nome"),
		AvatarURL:  record.FieldString("foto_url"),
		Areas:      record.FieldStrings("areas"),
		HourlyRate: record.FieldFloat("preco_hora"),
		Bio:        record.FieldString("bio"),
	}
}

func mapSession(record directory.Record) models.MentorSession {
	return models.MentorSession{
		ID:        record.ID,
		MentorID:  firstLink(record, "mentor"),
		StudentID: firstLink(record, "aluno"),
		Start:     parseTime(record.FieldString("inicio")),
		End:       parseTime(record.FieldString("fim")),
		Status:    record.FieldString("status"),
		Notes:     record.FieldString("observacoes"),
	}
}

func mapGroup(record directory.Record) models.Group {
	return models.Group{
		ID:          record.ID,
		Name:        record.FieldString("nome"),
		Description: record.FieldString("descricao"),
		Area:        record.FieldString("area"),
		OwnerID:     record.FieldString("owner_user_id"),
		MemberIDs:   record.FieldStrings("membros"),
		CreatedAt:   parseTime(record.CreatedTime),
	}
}

func firstLink(record directory.Record, key string) string {
	links := record.FieldStrings(key)
	if len(links) == 0 {
		return ""
	}
	return links[0]
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
