package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition-console/internal/models"
)

func TestInitialState(t *testing.T) {
	s := InitialState()

	for _, e := range []Entity{s.EntityA, s.EntityB} {
		require.Len(t, e.TeamMembers, 1)
		assert.Equal(t, RoleFounder, e.TeamMembers[0].Role)
		assert.Equal(t, "no", e.TeamMembers[0].HasExit)
		assert.Equal(t, "no", e.HasExit)
		assert.Equal(t, DefaultFundingRound, e.FundingRound)
	}
	assert.Equal(t, DefaultIndustry, s.AcquirerIndustry)
	assert.Equal(t, DefaultIndustry, s.TargetIndustry)
	assert.Empty(t, s.RevenueTTM)
}

func TestSetField(t *testing.T) {
	m := NewModel()

	require.NoError(t, m.SetField(EntityA, "totalFunding", "1000000"))
	require.NoError(t, m.SetField(EntityB, "companyName", "Acme"))
	require.NoError(t, m.SetField("", "grossMargin", "0.75"))

	s := m.State()
	assert.Equal(t, "1000000", s.EntityA.TotalFunding)
	assert.Equal(t, "Acme", s.EntityB.CompanyName)
	assert.Equal(t, "0.75", s.GrossMargin)

	assert.ErrorIs(t, m.SetField(EntityA, "nope", "x"), ErrUnknownField)
	assert.ErrorIs(t, m.SetField("", "companyName", "x"), ErrUnknownField)
	assert.ErrorIs(t, m.SetField("entityC", "companyName", "x"), ErrUnknownEntity)
}

func TestSetTeamMemberField(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "role", "CTO"))
	assert.Equal(t, "CTO", m.State().EntityA.TeamMembers[0].Role)
	assert.Equal(t, RoleFounder, m.State().EntityB.TeamMembers[0].Role)

	assert.ErrorIs(t, m.SetTeamMemberField(EntityA, 0, "salary", "1"), ErrUnknownField)
	assert.Panics(t, func() { _ = m.SetTeamMemberField(EntityA, 1, "role", "CTO") })
	assert.Panics(t, func() { _ = m.SetTeamMemberField(EntityA, -1, "role", "CTO") })
}

func TestAddTeamMember(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddTeamMember(EntityA))

	members := m.State().EntityA.TeamMembers
	require.Len(t, members, 2)
	assert.Equal(t, TeamMember{Role: RoleEmployee, HasExit: "no"}, members[1])

	require.NoError(t, m.RemoveTeamMember(EntityB, 0))
	require.NoError(t, m.AddTeamMember(EntityB))
	assert.Equal(t, RoleFounder, m.State().EntityB.TeamMembers[0].Role)
}

func TestAddThenRemoveRestores(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "name", "Ada"))
	require.NoError(t, m.AddTeamMember(EntityA))
	require.NoError(t, m.SetTeamMemberField(EntityA, 1, "name", "Grace"))
	before := m.State().EntityA.TeamMembers

	require.NoError(t, m.AddTeamMember(EntityA))
	require.NoError(t, m.RemoveTeamMember(EntityA, 2))

	assert.Equal(t, before, m.State().EntityA.TeamMembers)
}

func TestRemoveTeamMemberReindexes(t *testing.T) {
	m := NewModel()
	for i := 0; i < 2; i++ {
		require.NoError(t, m.AddTeamMember(EntityA))
	}
	require.NoError(t, m.SetTeamMemberField(EntityA, 1, "name", "second"))
	require.NoError(t, m.SetTeamMemberField(EntityA, 2, "name", "third"))

	require.NoError(t, m.RemoveTeamMember(EntityA, 1))

	members := m.State().EntityA.TeamMembers
	require.Len(t, members, 2)
	assert.Equal(t, "third", members[1].Name)
	assert.Panics(t, func() { _ = m.RemoveTeamMember(EntityA, 2) })
}

func TestStateIsACopy(t *testing.T) {
	m := NewModel()
	s := m.State()
	s.EntityA.TeamMembers[0].Name = "mutated"
	assert.Empty(t, m.State().EntityA.TeamMembers[0].Name)
}

func TestResetThenRequestMatchesInitial(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField(EntityA, "totalFunding", "5000"))
	require.NoError(t, m.AddTeamMember(EntityA))
	require.NoError(t, m.SetField("", "targetIndustry", "Energy"))

	m.Reset()

	assert.Equal(t, InitialState(), m.State())
	assert.Equal(t, BuildRequest(InitialState()), m.ToAnalysisRequest())
}

func TestToAnalysisRequest_Scenario(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField(EntityA, "totalFunding", "1000000"))
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "experience", "5"))
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "hasExit", "yes"))
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "role", "CTO"))

	req := m.ToAnalysisRequest()

	require.Len(t, req.Team.Founders, 1)
	assert.Equal(t, models.FounderPayload{ExperienceYears: 5, HasExit: true, Role: "CTO"}, req.Team.Founders[0])
	require.Len(t, req.Funding.Rounds, 1)
	assert.Equal(t, 1000000.0, req.Funding.Rounds[0].Amount)
	assert.Equal(t, "Series A", req.Funding.Rounds[0].Type)
}

func TestToAnalysisRequest_InitialState(t *testing.T) {
	req := BuildRequest(InitialState())

	assert.Equal(t, models.AnalysisRequest{
		Funding: models.FundingPayload{Rounds: []models.FundingRound{{Type: "Series A", Amount: 0}}},
		Team: models.TeamPayload{
			Founders:          []models.FounderPayload{{ExperienceYears: 0, HasExit: false, Role: "Founder"}},
			EstimatedTeamSize: 0,
		},
		Acquirer: models.CompanyPayload{Industry: "Technology"},
		Target:   models.CompanyPayload{Industry: "Technology"},
	}, req)
}

func TestToAnalysisRequest_TotalOnGarbage(t *testing.T) {
	s := InitialState()
	s.EntityA.TotalFunding = "lots"
	s.EntityA.Employees = "12.7 people"
	s.EntityA.FundingRound = ""
	s.EntityA.TeamMembers = append(s.EntityA.TeamMembers, TeamMember{Experience: "ten", Role: "", HasExit: "YES"})
	s.AcquirerIndustry = ""
	s.AcquirerRevenue = "  2.5e6 "
	s.RevenueGrowth = "-.15"
	s.GrossMargin = "NaN"
	s.EbitdaMargin = "1e999"

	req := BuildRequest(s)

	assert.Equal(t, 0.0, req.Funding.Rounds[0].Amount)
	assert.Equal(t, "Series A", req.Funding.Rounds[0].Type)
	assert.Equal(t, 12, req.Team.EstimatedTeamSize)
	assert.Equal(t, models.FounderPayload{Role: "Employee"}, req.Team.Founders[1])
	assert.Equal(t, "Technology", req.Acquirer.Industry)
	assert.Equal(t, 2500000.0, req.Acquirer.Revenue)
	assert.Equal(t, -0.15, req.Financials.RevenueGrowthMoM)
	assert.Equal(t, 0.0, req.Financials.GrossMargin)
	assert.Equal(t, 0.0, req.Financials.EBITDAMargin)

	assert.Equal(t, req, BuildRequest(s), "deterministic")
}

func TestToAnalysisRequest_EntityBIgnored(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField(EntityB, "totalFunding", "999"))
	require.NoError(t, m.SetField(EntityB, "employees", "40"))
	require.NoError(t, m.AddTeamMember(EntityB))

	assert.Equal(t, BuildRequest(InitialState()), m.ToAnalysisRequest())
}

func TestValidationGaps(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetField(EntityA, "totalFunding", "a lot"))
	require.NoError(t, m.SetField("", "grossMargin", "75%"))
	require.NoError(t, m.SetTeamMemberField(EntityA, 0, "experience", "decade"))

	gaps := m.ValidationGaps()
	require.Len(t, gaps, 2)
	assert.Contains(t, gaps[0].Details, "entityA.totalFunding")
	assert.Contains(t, gaps[1].Details, "entityA.teamMembers[0].experience")
}

func TestDemoRequestIgnoresForm(t *testing.T) {
	demo := DemoRequest()
	assert.Len(t, demo.Team.Founders, 2)
	assert.Equal(t, 50, demo.Team.EstimatedTeamSize)
	assert.Equal(t, 2000000.0, demo.Financials.RevenueTTM)
	assert.Equal(t, DemoRequest(), demo)
}
