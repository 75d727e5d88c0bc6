// Package form owns the two-entity comparison form and turns it into the
// prediction service payload.
package form

type EntityKey string

const (
	EntityA EntityKey = "entityA" // acquisition target
	EntityB EntityKey = "entityB" // acquirer
)

const (
	RoleFounder  = "Founder"
	RoleEmployee = "Employee"

	DefaultFundingRound = "Series A"
	DefaultIndustry     = "Technology"

	yes = "yes"
	no  = "no"
)

var (
	Roles         = []string{"Founder", "CEO", "CTO", "COO", "CFO", "Employee"}
	FundingRounds = []string{"Pre-Seed", "Seed", "Series A", "Series B", "Series C", "Series D+"}
	Industries    = []string{"Technology", "Healthcare", "Finance", "Consumer", "Energy", "Manufacturing"}
)

// TeamMember is one row of an entity's team. Rows have no identity beyond
// their position.
type TeamMember struct {
	Name       string `json:"name"`
	Experience string `json:"experience"`
	Role       string `json:"role"`
	Education  string `json:"education"`
	HasExit    string `json:"hasExit"`
}

type Entity struct {
	CompanyName       string       `json:"companyName"`
	TotalFunding      string       `json:"totalFunding"`
	Employees         string       `json:"employees"`
	FounderExperience string       `json:"founderExperience"`
	HasExit           string       `json:"hasExit"`
	FundingRound      string       `json:"fundingRound"`
	TeamMembers       []TeamMember `json:"teamMembers"`
}

// State holds raw form input. Numeric fields are kept as typed text and only
// parsed when the request is built.
type State struct {
	EntityA          Entity `json:"entityA"`
	EntityB          Entity `json:"entityB"`
	AcquirerIndustry string `json:"acquirerIndustry"`
	TargetIndustry   string `json:"targetIndustry"`
	AcquirerRevenue  string `json:"acquirerRevenue"`
	TargetRevenue    string `json:"targetRevenue"`
	RevenueTTM       string `json:"revenueTTM"`
	RevenueGrowth    string `json:"revenueGrowth"`
	GrossMargin      string `json:"grossMargin"`
	EbitdaMargin     string `json:"ebitdaMargin"`
}

func newTeamMember(role string) TeamMember {
	return TeamMember{Role: role, HasExit: no}
}

func newEntity() Entity {
	return Entity{
		HasExit:      no,
		FundingRound: DefaultFundingRound,
		TeamMembers:  []TeamMember{newTeamMember(RoleFounder)},
	}
}

// InitialState returns the blank form: default selections and one founder
// row per entity.
func InitialState() State {
	return State{
		EntityA:          newEntity(),
		EntityB:          newEntity(),
		AcquirerIndustry: DefaultIndustry,
		TargetIndustry:   DefaultIndustry,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.EntityA.TeamMembers = append([]TeamMember(nil), s.EntityA.TeamMembers...)
	out.EntityB.TeamMembers = append([]TeamMember(nil), s.EntityB.TeamMembers...)
	return out
}

func (s *State) entity(key EntityKey) (*Entity, bool) {
	switch key {
	case EntityA:
		return &s.EntityA, true
	case EntityB:
		return &s.EntityB, true
	}
	return nil, false
}
