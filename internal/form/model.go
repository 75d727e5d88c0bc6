package form

import (
	"errors"
	"fmt"

	apperrors "acquisition-console/internal/common/errors"
	"acquisition-console/internal/models"
)

var (
	ErrUnknownEntity = errors.New("UNKNOWN_ENTITY")
	ErrUnknownField  = errors.New("UNKNOWN_FIELD")
)

var topLevelFields = map[string]func(*State) *string{
	"acquirerIndustry": func(s *State) *string { return &s.AcquirerIndustry },
	"targetIndustry":   func(s *State) *string { return &s.TargetIndustry },
	"acquirerRevenue":  func(s *State) *string { return &s.AcquirerRevenue },
	"targetRevenue":    func(s *State) *string { return &s.TargetRevenue },
	"revenueTTM":       func(s *State) *string { return &s.RevenueTTM },
	"revenueGrowth":    func(s *State) *string { return &s.RevenueGrowth },
	"grossMargin":      func(s *State) *string { return &s.GrossMargin },
	"ebitdaMargin":     func(s *State) *string { return &s.EbitdaMargin },
}

var entityFields = map[string]func(*Entity) *string{
	"companyName":       func(e *Entity) *string { return &e.CompanyName },
	"totalFunding":      func(e *Entity) *string { return &e.TotalFunding },
	"employees":         func(e *Entity) *string { return &e.Employees },
	"founderExperience": func(e *Entity) *string { return &e.FounderExperience },
	"hasExit":           func(e *Entity) *string { return &e.HasExit },
	"fundingRound":      func(e *Entity) *string { return &e.FundingRound },
}

var teamMemberFields = map[string]func(*TeamMember) *string{
	"name":       func(m *TeamMember) *string { return &m.Name },
	"experience": func(m *TeamMember) *string { return &m.Experience },
	"role":       func(m *TeamMember) *string { return &m.Role },
	"education":  func(m *TeamMember) *string { return &m.Education },
	"hasExit":    func(m *TeamMember) *string { return &m.HasExit },
}

// Model is the editable comparison form. It is not safe for concurrent use;
// callers serialize access.
type Model struct {
	state State
}

func NewModel() *Model {
	return &Model{state: InitialState()}
}

// State returns a deep copy of the current form.
func (m *Model) State() State {
	return m.state.Clone()
}

// SetField sets a scalar field. An empty entity key addresses the top-level
// industry and financial fields.
func (m *Model) SetField(entity EntityKey, field, value string) error {
	if entity == "" {
		get, ok := topLevelFields[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		*get(&m.state) = value
		return nil
	}

	e, ok := m.state.entity(entity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	get, ok := entityFields[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	*get(e) = value
	return nil
}

// SetTeamMemberField sets one field of the member at index. An index outside
// the current team panics.
func (m *Model) SetTeamMemberField(entity EntityKey, index int, field, value string) error {
	e, ok := m.state.entity(entity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	get, ok := teamMemberFields[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	mustIndex(e, index)
	*get(&e.TeamMembers[index]) = value
	return nil
}

// AddTeamMember appends a blank member. The first member of an empty team
// defaults to Founder, later ones to Employee.
func (m *Model) AddTeamMember(entity EntityKey) error {
	e, ok := m.state.entity(entity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	role := RoleEmployee
	if len(e.TeamMembers) == 0 {
		role = RoleFounder
	}
	e.TeamMembers = append(e.TeamMembers, newTeamMember(role))
	return nil
}

// RemoveTeamMember removes the member at index and shifts the rest down.
// The model does not enforce a minimum team size.
func (m *Model) RemoveTeamMember(entity EntityKey, index int) error {
	e, ok := m.state.entity(entity)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	mustIndex(e, index)
	members := make([]TeamMember, 0, len(e.TeamMembers)-1)
	members = append(members, e.TeamMembers[:index]...)
	e.TeamMembers = append(members, e.TeamMembers[index+1:]...)
	return nil
}

// Reset restores the initial blank form.
func (m *Model) Reset() {
	m.state = InitialState()
}

// ToAnalysisRequest builds the payload from the current form.
func (m *Model) ToAnalysisRequest() models.AnalysisRequest {
	return BuildRequest(m.state)
}

// ValidationGaps lists the non-empty numeric fields that will be sent as 0.
func (m *Model) ValidationGaps() []*apperrors.StandardError {
	return Gaps(m.state)
}

func mustIndex(e *Entity, index int) {
	if index < 0 || index >= len(e.TeamMembers) {
		panic(fmt.Sprintf("form: team member index %d out of range [0,%d)", index, len(e.TeamMembers)))
	}
}
