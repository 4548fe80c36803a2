package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

const (
	sharedFixtureLimit = 50
	recentPointsLength = 5
)

type PlayerStandingRow struct {
	PlayerID        int64   `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Position        int     `json:"position"`
	MatchesPlayed   int     `json:"matches_played"`
	TotalPoints     int     `json:"total_points"`
	BestMatchPoints int     `json:"best_match_points"`
	AveragePoints   float64 `json:"average_points"`
	StdDevPoints    float64 `json:"stddev_points"`
}

// SharedFixturePoints is one played fixture both players scored in.
type SharedFixturePoints struct {
	FixtureID  int64     `json:"fixture_id"`
	Gameweek   int       `json:"gameweek"`
	KickoffAt  time.Time `json:"kickoff_at"`
	HomeTeamID int64     `json:"home_team_id"`
	AwayTeamID int64     `json:"away_team_id"`
	APoints    int       `json:"a_points"`
	BPoints    int       `json:"b_points"`
}

// PlayerVsPlayerSummary compares two players within one scope. A and B are
// nil when the player has no standings row yet.
type PlayerVsPlayerSummary struct {
	ScopeID        int64                 `json:"scope_id"`
	PlayerAID      int64                 `json:"player_a_id"`
	PlayerBID      int64                 `json:"player_b_id"`
	A              *PlayerStandingRow    `json:"a"`
	B              *PlayerStandingRow    `json:"b"`
	SharedFixtures []SharedFixturePoints `json:"shared_fixtures"`
	ALastPoints    []int                 `json:"a_last_points"`
	BLastPoints    []int                 `json:"b_last_points"`
}

// PlayerVsPlayer reads both players' standings, the played fixtures they both
// scored in (oldest first, at most 50) and each player's per-fixture points
// over their last five played fixtures (newest first).
func (s *FixtureService) PlayerVsPlayer(ctx context.Context, scopeID, playerA, playerB int64) (PlayerVsPlayerSummary, error) {
	if scopeID <= 0 || playerA <= 0 || playerB <= 0 {
		return PlayerVsPlayerSummary{}, fmt.Errorf("%w: scope id and both player ids are required", ErrInvalidInput)
	}
	if playerA == playerB {
		return PlayerVsPlayerSummary{}, fmt.Errorf("%w: players must be different", ErrInvalidInput)
	}

	var (
		played    []fixture.Fixture
		scores    []fixture.PlayerScore
		standings []standing.PlayerStanding
	)
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if _, err := getScope(ctx, repos, scopeID); err != nil {
			return err
		}
		var err error
		if played, err = repos.Fixtures.ListPlayedByScope(ctx, scopeID); err != nil {
			return fmt.Errorf("list played fixtures: %w", err)
		}
		if scores, err = repos.Fixtures.ListScoresByScope(ctx, scopeID); err != nil {
			return fmt.Errorf("list scope scores: %w", err)
		}
		if standings, err = repos.Standings.ListPlayers(ctx, scopeID); err != nil {
			return fmt.Errorf("list player standings: %w", err)
		}
		return nil
	})
	if err != nil {
		return PlayerVsPlayerSummary{}, err
	}

	return comparePlayers(scopeID, playerA, playerB, played, scores, standings), nil
}

func comparePlayers(scopeID, playerA, playerB int64, played []fixture.Fixture, scores []fixture.PlayerScore, standings []standing.PlayerStanding) PlayerVsPlayerSummary {
	out := PlayerVsPlayerSummary{
		ScopeID:        scopeID,
		PlayerAID:      playerA,
		PlayerBID:      playerB,
		SharedFixtures: []SharedFixturePoints{},
	}
	for _, row := range standings {
		switch row.PlayerID {
		case playerA:
			out.A = standingRow(row)
		case playerB:
			out.B = standingRow(row)
		}
	}

	aPoints := fixturePoints(scores, playerA)
	bPoints := fixturePoints(scores, playerB)

	ordered := append([]fixture.Fixture(nil), played...)
	fixture.SortByKickoff(ordered)
	for _, f := range ordered {
		if len(out.SharedFixtures) == sharedFixtureLimit {
			break
		}
		a, okA := aPoints[f.ID]
		b, okB := bPoints[f.ID]
		if !okA || !okB {
			continue
		}
		out.SharedFixtures = append(out.SharedFixtures, SharedFixturePoints{
			FixtureID:  f.ID,
			Gameweek:   f.Gameweek,
			KickoffAt:  f.KickoffAt,
			HomeTeamID: f.HomeTeamID,
			AwayTeamID: f.AwayTeamID,
			APoints:    a,
			BPoints:    b,
		})
	}
	out.ALastPoints = lastPoints(ordered, aPoints)
	out.BLastPoints = lastPoints(ordered, bPoints)
	return out
}

func standingRow(row standing.PlayerStanding) *PlayerStandingRow {
	return &PlayerStandingRow{
		PlayerID:        row.PlayerID,
		PlayerName:      row.PlayerName,
		Position:        row.Position,
		MatchesPlayed:   row.MatchesPlayed,
		TotalPoints:     row.TotalPoints,
		BestMatchPoints: row.BestMatchPoints,
		AveragePoints:   row.AveragePoints,
		StdDevPoints:    row.StdDevPoints,
	}
}

// fixturePoints sums a player's scores per fixture.
func fixturePoints(scores []fixture.PlayerScore, playerID int64) map[int64]int {
	out := make(map[int64]int)
	for _, sc := range scores {
		if sc.PlayerID == playerID {
			out[sc.FixtureID] += sc.Points
		}
	}
	return out
}

// lastPoints walks fixtures ordered by kickoff from the newest end.
func lastPoints(ordered []fixture.Fixture, points map[int64]int) []int {
	out := make([]int, 0, recentPointsLength)
	for i := len(ordered) - 1; i >= 0 && len(out) < recentPointsLength; i-- {
		if pts, ok := points[ordered[i].ID]; ok {
			out = append(out, pts)
		}
	}
	return out
}

type PlayerOverallRow struct {
	PlayerID      int64  `json:"player_id"`
	PlayerName    string `json:"player_name"`
	TeamID        *int64 `json:"team_id,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	TotalPoints   int    `json:"total_points"`
	MatchesPlayed int    `json:"matches_played"`
}

// PlayersOverall ranks every scoring player across all scopes of one
// competition in a season.
type PlayersOverall struct {
	SeasonID      int64              `json:"season_id"`
	CompetitionID int64              `json:"competition_id"`
	ScopeIDs      []int64            `json:"scope_ids"`
	Rows          []PlayerOverallRow `json:"rows"`
}

// PlayersOverall sums points and counts distinct played fixtures per player
// over every scope of the competition. The team is the one the player holds
// an open membership with in the season, if any.
func (s *FixtureService) PlayersOverall(ctx context.Context, seasonID, competitionID int64) (PlayersOverall, error) {
	if seasonID <= 0 || competitionID <= 0 {
		return PlayersOverall{}, fmt.Errorf("%w: season id and competition id are required", ErrInvalidInput)
	}

	out := PlayersOverall{SeasonID: seasonID, CompetitionID: competitionID, ScopeIDs: []int64{}, Rows: []PlayerOverallRow{}}
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		_, ok, err := repos.Scopes.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
		}
		scopes, err := repos.Scopes.ListBySeason(ctx, seasonID, "")
		if err != nil {
			return fmt.Errorf("list season scopes: %w", err)
		}

		totals := make(map[int64]*PlayerOverallRow)
		for _, sc := range competitionScopes(scopes, competitionID) {
			out.ScopeIDs = append(out.ScopeIDs, sc.ID)
			if err := accumulateScope(ctx, repos, sc.ID, totals); err != nil {
				return err
			}
		}
		if len(totals) == 0 {
			return nil
		}

		playerIDs := make([]int64, 0, len(totals))
		for playerID := range totals {
			playerIDs = append(playerIDs, playerID)
		}
		sort.Slice(playerIDs, func(i, j int) bool { return playerIDs[i] < playerIDs[j] })

		players, err := repos.Players.ListByIDs(ctx, playerIDs)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		for _, p := range players {
			totals[p.ID].PlayerName = p.Name
		}

		memberships, err := repos.Memberships.ListBySeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("list season memberships: %w", err)
		}
		current := openTeams(memberships)
		teamIDs := make([]int64, 0)
		for _, playerID := range playerIDs {
			if teamID, ok := current[playerID]; ok {
				id := teamID
				totals[playerID].TeamID = &id
				teamIDs = append(teamIDs, teamID)
			}
		}
		if len(teamIDs) > 0 {
			teams, err := repos.Teams.ListByIDs(ctx, teamIDs)
			if err != nil {
				return fmt.Errorf("list teams: %w", err)
			}
			names := make(map[int64]string, len(teams))
			for _, t := range teams {
				names[t.ID] = t.Name
			}
			for _, row := range totals {
				if row.TeamID != nil {
					row.TeamName = names[*row.TeamID]
				}
			}
		}

		for _, playerID := range playerIDs {
			out.Rows = append(out.Rows, *totals[playerID])
		}
		return nil
	})
	if err != nil {
		return PlayersOverall{}, err
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		return standing.NameLess(a.PlayerName, b.PlayerName, a.PlayerID, b.PlayerID)
	})
	return out, nil
}

func competitionScopes(scopes []scope.Scope, competitionID int64) []scope.Scope {
	out := make([]scope.Scope, 0, len(scopes))
	for _, sc := range scopes {
		if sc.CompetitionID == competitionID {
			out = append(out, sc)
		}
	}
	return out
}

// accumulateScope adds one scope's played-fixture scores into totals.
func accumulateScope(ctx context.Context, repos uow.Repositories, scopeID int64, totals map[int64]*PlayerOverallRow) error {
	played, err := repos.Fixtures.ListPlayedByScope(ctx, scopeID)
	if err != nil {
		return fmt.Errorf("list played fixtures scope=%d: %w", scopeID, err)
	}
	scores, err := repos.Fixtures.ListScoresByScope(ctx, scopeID)
	if err != nil {
		return fmt.Errorf("list scores scope=%d: %w", scopeID, err)
	}

	isPlayed := make(map[int64]bool, len(played))
	for _, f := range played {
		isPlayed[f.ID] = true
	}
	seen := make(map[[2]int64]bool)
	for _, sc := range scores {
		if !isPlayed[sc.FixtureID] {
			continue
		}
		row, ok := totals[sc.PlayerID]
		if !ok {
			row = &PlayerOverallRow{PlayerID: sc.PlayerID}
			totals[sc.PlayerID] = row
		}
		row.TotalPoints += sc.Points
		key := [2]int64{sc.PlayerID, sc.FixtureID}
		if !seen[key] {
			seen[key] = true
			row.MatchesPlayed++
		}
	}
	return nil
}

// openTeams maps each player to the team of their open membership; the latest
// start wins if more than one is open.
func openTeams(memberships []membership.Membership) map[int64]int64 {
	out := make(map[int64]int64)
	start := make(map[int64]time.Time)
	for _, m := range memberships {
		if !m.IsOpen() {
			continue
		}
		if prev, ok := start[m.PlayerID]; ok && !m.StartDate.After(prev) {
			continue
		}
		out[m.PlayerID] = m.TeamID
		start[m.PlayerID] = m.StartDate
	}
	return out
}
