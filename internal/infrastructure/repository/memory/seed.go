package memory

import (
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/team"
)

// Ids of the demo dataset loaded by Seed.
const (
	SeedSeasonID      int64 = 1
	SeedLeagueScopeID int64 = 2
	SeedCupScopeID    int64 = 3
)

var seedTeams = []team.Team{
	{ID: 10, Name: "Kadikoy Rovers"},
	{ID: 11, Name: "Besiktas Pier"},
	{ID: 12, Name: "Uskudar Tide"},
	{ID: 13, Name: "Moda Wanderers"},
}

// Seed loads a small season with a league scope of two played gameweeks and a
// cup scope whose only tie ended level.
func Seed(s *Store) {
	SeedRoster(s)

	kickoff := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)
	played := []struct {
		gameweek   int
		home, away int64
		homePts    []int
		awayPts    []int
	}{
		{gameweek: 1, home: 10, away: 11, homePts: []int{10, 8, 7}, awayPts: []int{9, 9, 9}},
		{gameweek: 1, home: 12, away: 13, homePts: []int{6, 6, 6}, awayPts: []int{6, 6, 6}},
		{gameweek: 2, home: 11, away: 12, homePts: []int{12, 4, 5}, awayPts: []int{3, 2, 1}},
		{gameweek: 2, home: 13, away: 10, homePts: []int{7, 7, 7}, awayPts: []int{8, 8, 8}},
	}
	for _, p := range played {
		f := s.AddFixture(fixture.Fixture{
			ScopeID:    SeedLeagueScopeID,
			Gameweek:   p.gameweek,
			KickoffAt:  kickoff.AddDate(0, 0, 7*(p.gameweek-1)),
			HomeTeamID: p.home,
			AwayTeamID: p.away,
		})
		SeedScores(s, f, p.homePts, p.awayPts)
	}

	tie := s.AddFixture(fixture.Fixture{
		ScopeID:    SeedCupScopeID,
		Gameweek:   1,
		KickoffAt:  kickoff.AddDate(0, 0, 3),
		HomeTeamID: 10,
		AwayTeamID: 12,
	})
	SeedScores(s, tie, []int{5, 5, 5}, []int{4, 5, 6})

	s.AddAchievementType(achievement.Type{Name: "Player of the Month", IsPlayer: true})
	s.AddAchievementType(achievement.Type{Name: "Unbeaten Run", IsTeam: true})
}

// SeedRoster loads the season, its league and cup scopes, four teams and three
// players per team on open memberships from the season start.
func SeedRoster(s *Store) {
	seasonStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s.AddSeason(scope.Season{
		ID:        SeedSeasonID,
		Name:      "2026/2027",
		StartDate: seasonStart,
		EndDate:   time.Date(2027, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	s.AddScope(scope.Scope{
		ID:              SeedLeagueScopeID,
		SeasonID:        SeedSeasonID,
		CompetitionID:   1,
		DivisionID:      1,
		CompetitionName: "Bosphorus League",
		CompetitionType: scope.CompetitionLeague,
		DivisionName:    "Premier",
	})
	s.AddScope(scope.Scope{
		ID:              SeedCupScopeID,
		SeasonID:        SeedSeasonID,
		CompetitionID:   2,
		CompetitionName: "Bosphorus Cup",
		CompetitionType: scope.CompetitionCup,
	})

	firstNames := []string{"Aylin", "Baris", "Cem"}
	nextPlayerID := int64(100)
	for _, t := range seedTeams {
		s.AddTeam(t)
		for _, first := range firstNames {
			p := s.AddPlayer(player.Player{ID: nextPlayerID, Name: first + " " + t.Name[:4]})
			s.AddMembership(membership.Membership{
				SeasonID:  SeedSeasonID,
				TeamID:    t.ID,
				PlayerID:  p.ID,
				StartDate: seasonStart,
			})
			nextPlayerID++
		}
	}
}

// SeedScores enters a result with three scores per side. Totals are left for
// a rebuild to compute.
func SeedScores(s *Store, f fixture.Fixture, home, away []int) {
	res := s.AddResult(fixture.Result{FixtureID: f.ID, CreatedAt: f.KickoffAt.Add(2 * time.Hour)})
	for i, pts := range home {
		s.AddScore(fixture.PlayerScore{
			ResultID:  res.ID,
			FixtureID: f.ID,
			PlayerID:  SeedPlayerID(f.HomeTeamID, i),
			Side:      fixture.SideHome,
			Points:    pts,
		})
	}
	for i, pts := range away {
		s.AddScore(fixture.PlayerScore{
			ResultID:  res.ID,
			FixtureID: f.ID,
			PlayerID:  SeedPlayerID(f.AwayTeamID, i),
			Side:      fixture.SideAway,
			Points:    pts,
		})
	}
}

// SeedPlayerID returns the roster player in slot 0..2 of a seeded team.
func SeedPlayerID(teamID int64, slot int) int64 {
	return 100 + (teamID-10)*3 + int64(slot)
}
