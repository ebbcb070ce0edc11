// Package marketplace implements the catalog side of the platform: mentor
// search, session scheduling and study groups, all backed by the remote
// directory.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/models"
)

const DefaultPageSize = 12

const (
	OrderPriceAsc  = "preco_asc"
	OrderPriceDesc = "preco_desc"
)

var (
	ErrMentorNotFound = errors.New("mentor not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrAlreadyMember  = errors.New("already a member of this group")
	ErrNotAMember     = errors.New("not a member of this group")
)

// DirectoryClient is the slice of the directory API this package needs.
type DirectoryClient interface {
	List(ctx context.Context, table string, params directory.ListParams) (directory.ListResponse, error)
	FindOne(ctx context.Context, table string, formula string) (*directory.Record, error)
	GetByRecordID(ctx context.Context, table string, recordID string) (*directory.Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (directory.Record, error)
	Update(ctx context.Context, table string, recordID string, fields map[string]any) (directory.Record, error)
}

// Tables names the three directory tables the service reads and writes.
type Tables struct {
	Users   string
	Grupos  string
	Sessoes string
}

type Service struct {
	directory DirectoryClient
	tables    Tables
	logger    *log.Logger
}

func NewService(client DirectoryClient, tables Tables, logger *log.Logger) *Service {
	return &Service{directory: client, tables: tables, logger: logger}
}

// ListMentorsParams carries the catalog filters. Zero values mean "no
// filter"; use PriceMin/PriceMax pointers to distinguish 0 from unset.
type ListMentorsParams struct {
	Query    string
	Areas    []string
	PriceMin *float64
	PriceMax *float64
	Order    string
	PageSize int
}

// MentorPage is one page of mentor results. Count is the number of items
// on this page; the directory API does not report how many records match
// beyond the page size.
type MentorPage struct {
	Items []models.Mentor `json:"items"`
	Count int             `json:"count"`
}

// ListMentors queries the Users table for mentor profiles matching the
// filters. Text search covers name and bio, area filters match any of the
// given areas, and ordering is by hourly rate or by name.
func (service *Service) ListMentors(ctx context.Context, params ListMentorsParams) (MentorPage, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	response, err := service.directory.List(ctx, service.tables.Users, directory.ListParams{
		FilterByFormula: mentorFilterFormula(params),
		Sort:            mentorSort(params.Order),
		PageSize:        pageSize,
	})
	if err != nil {
		return MentorPage{}, fmt.Errorf("list mentors: %w", err)
	}

	items := make([]models.Mentor, 0, len(response.Records))
	for _, record := range response.Records {
		items = append(items, mapMentor(record))
	}
	return MentorPage{Items: items, Count: len(items)}, nil
}

// MentorByID resolves a mentor either by the stable record_id field or by
// the directory's own record identifier.
func (service *Service) MentorByID(ctx context.Context, id string) (models.Mentor, error) {
	escaped := directory.EscapeFormulaValue(id)
	formula := directory.And(
		"{role} = 'mentor'",
		directory.Or(
			fmt.Sprintf("{record_id} = '%s'", escaped),
			directory.ByRecordID(id),
		),
	)

	record, err := service.directory.FindOne(ctx, service.tables.Users, formula)
	if err != nil {
		return models.Mentor{}, fmt.Errorf("mentor lookup: %w", err)
	}
	if record == nil {
		return models.Mentor{}, ErrMentorNotFound
	}
	return mapMentor(*record), nil
}

// ScheduleSessionInput is a student's request for a mentoring slot.
type ScheduleSessionInput struct {
	MentorID  string
	StudentID string
	Start     time.Time
	End       time.Time
	Notes     string
}

// ScheduleSession creates the session record in the requested state. The
// mentor later confirms or declines it; this call never sets any other
// status.
func (service *Service) ScheduleSession(ctx context.Context, input ScheduleSessionInput) (models.MentorSession, error) {
	record, err := service.directory.Create(ctx, service.tables.Sessoes, map[string]any{
		"mentor":      []string{input.MentorID},
		"aluno":       []string{input.StudentID},
		"inicio":      input.Start.Format(time.RFC3339),
		"fim":         input.End.Format(time.RFC3339),
		"status":      models.SessionStatusRequested,
		"observacoes": input.Notes,
	})
	if err != nil {
		return models.MentorSession{}, fmt.Errorf("schedule session: %w", err)
	}
	return mapSession(record), nil
}

// ListSessionsForUser returns the sessions where the user appears on the
// side matching their role, most recent start first.
func (service *Service) ListSessionsForUser(ctx context.Context, userID string, role string) ([]models.MentorSession, error) {
	side := "aluno"
	if role == models.RoleMentor {
		side = "mentor"
	}
	formula := fmt.Sprintf("FIND('%s', ARRAYJOIN({%s}, ','))", directory.EscapeFormulaValue(userID), side)

	response, err := service.directory.List(ctx, service.tables.Sessoes, directory.ListParams{
		FilterByFormula: formula,
		Sort:            []directory.Sort{{Field: "inicio", Direction: "desc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]models.MentorSession, 0, len(response.Records))
	for _, record := range response.Records {
		sessions = append(sessions, mapSession(record))
	}
	return sessions, nil
}

// UpdateSessionStatus moves a session to confirmed or declined. Only the
// two mentor decisions are accepted.
func (service *Service) UpdateSessionStatus(ctx context.Context, sessionID string, status string) (models.MentorSession, error) {
	if status != models.SessionStatusConfirmed && status != models.SessionStatusDeclined {
		return models.MentorSession{}, fmt.Errorf("unsupported session status %q", status)
	}
	record, err := service.directory.Update(ctx, service.tables.Sessoes, sessionID, map[string]any{
		"status": status,
	})
	if err != nil {
		return models.MentorSession{}, fmt.Errorf("update session status: %w", err)
	}
	return mapSession(record), nil
}

// ListGroups returns every study group, name order.
func (service *Service) ListGroups(ctx context.Context) ([]models.Group, error) {
	response, err := service.directory.List(ctx, service.tables.Grupos, directory.ListParams{
		Sort: []directory.Sort{{Field: "nome", Direction: "asc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := make([]models.Group, 0, len(response.Records))
	for _, record := range response.Records {
		groups = append(groups, mapGroup(record))
	}
	return groups, nil
}

func (service *Service) GroupByID(ctx context.Context, groupID string) (models.Group, error) {
	record, err := service.directory.GetByRecordID(ctx, service.tables.Grupos, groupID)
	if err != nil {
		return models.Group{}, fmt.Errorf("group lookup: %w", err)
	}
	if record == nil {
		return models.Group{}, ErrGroupNotFound
	}
	return mapGroup(*record), nil
}

// CreateGroupInput describes a new study group. The creator becomes the
// owner and the first member.
type CreateGroupInput struct {
	Name        string
	Description string
	Area        string
	OwnerID     string
}

func (service *Service) CreateGroup(ctx context.Context, input CreateGroupInput) (models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Group{}, errors.New("group name is required")
	}

	record, err := service.directory.Create(ctx, service.tables.Grupos, map[string]any{
		"nome":          name,
		"descricao":     input.Description,
		"area":          input.Area,
		"owner_user_id": input.OwnerID,
		"membros":       []string{input.OwnerID},
	})
	if err != nil {
		return models.Group{}, fmt.Errorf("create group: %w", err)
	}
	return mapGroup(record), nil
}

// JoinGroup adds the user to the group's member list. Joining a group you
// already belong to is rejected rather than silently duplicated.
func (service *Service) JoinGroup(ctx context.Context, groupID string, userID string) (models.Group, error) {
	group, err := service.GroupByID(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if group.HasMember(userID) {
		return models.Group{}, ErrAlreadyMember
	}

	record, err := service.directory.Update(ctx, service.tables.Grupos, group.ID, map[string]any{
		"membros": append(group.MemberIDs, userID),
	})
	if err != nil {
		return models.Group{}, fmt.Errorf("join group: %w", err)
	}
	return mapGroup(record), nil
}

func mentorFilterFormula(params ListMentorsParams) string {
	predicates := []string{"{role} = 'mentor'"}

	if query := strings.TrimSpace(params.Query); query != "" {
		escaped := directory.EscapeFormulaValue(strings.ToLower(query))
		predicates = append(predicates,
			fmt.Sprintf("FIND('%s', LOWER({nome} & ' ' & IF({bio}, {bio}, '')))", escaped))
	}

	if len(params.Areas) > 0 {
		areaPredicates := make([]string, 0, len(params.Areas))
		for _, area := range params.Areas {
			areaPredicates = append(areaPredicates,
				fmt.Sprintf("FIND('%s', ARRAYJOIN({areas}, ','))", directory.EscapeFormulaValue(area)))
		}
		predicates = append(predicates, directory.Or(areaPredicates...))
	}

	if params.PriceMin != nil {
		predicates = append(predicates, fmt.Sprintf("{preco_hora} >= %g", *params.PriceMin))
	}
	if params.PriceMax != nil {
		predicates = append(predicates, fmt.Sprintf("{preco_hora} <= %g", *params.PriceMax))
	}

	return directory.And(predicates...)
}

func mentorSort(order string) []directory.Sort {
	switch order {
	case OrderPriceAsc:
		return []directory.Sort{{Field: "preco_hora", Direction: "asc"}}
	case OrderPriceDesc:
		return []directory.Sort{{Field: "preco_hora", Direction: "desc"}}
	default:
		return []directory.Sort{{Field: "nome", Direction: "asc"}}
	}
}
