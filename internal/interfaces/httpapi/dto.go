package httpapi

import (
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

type fixtureDTO struct {
	ID              int64     `json:"id"`
	ScopeID         int64     `json:"scope_id"`
	Gameweek        int       `json:"gameweek"`
	KickoffAt       time.Time `json:"kickoff_at"`
	HomeTeamID      int64     `json:"home_team_id"`
	AwayTeamID      int64     `json:"away_team_id"`
	ReplayOfID      *int64    `json:"replay_of_id,omitempty"`
	HomeTotalPoints int       `json:"home_total_points"`
	AwayTotalPoints int       `json:"away_total_points"`
	HomeMatchPoints int       `json:"home_match_points"`
	AwayMatchPoints int       `json:"away_match_points"`
	IsPlayed        bool      `json:"is_played"`
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:              f.ID,
		ScopeID:         f.ScopeID,
		Gameweek:        f.Gameweek,
		KickoffAt:       f.KickoffAt,
		HomeTeamID:      f.HomeTeamID,
		AwayTeamID:      f.AwayTeamID,
		ReplayOfID:      f.ReplayOfID,
		HomeTotalPoints: f.HomeTotalPoints,
		AwayTotalPoints: f.AwayTotalPoints,
		HomeMatchPoints: f.HomeMatchPoints,
		AwayMatchPoints: f.AwayMatchPoints,
		IsPlayed:        f.IsPlayed,
	}
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, f := range items {
		out = append(out, fixtureToDTO(f))
	}
	return out
}

type achievementDTO struct {
	ID               int64     `json:"id"`
	TypeID           int64     `json:"type_id"`
	SeasonID         int64     `json:"season_id"`
	ScopeID          *int64    `json:"scope_id,omitempty"`
	TeamID           *int64    `json:"team_id,omitempty"`
	PlayerID         *int64    `json:"player_id,omitempty"`
	FixtureID        *int64    `json:"fixture_id,omitempty"`
	OpponentTeamID   *int64    `json:"opponent_team_id,omitempty"`
	OpponentPlayerID *int64    `json:"opponent_player_id,omitempty"`
	Note             string    `json:"note,omitempty"`
	AwardedAt        time.Time `json:"awarded_at"`
}

func achievementToDTO(a achievement.Achievement) achievementDTO {
	return achievementDTO{
		ID:               a.ID,
		TypeID:           a.TypeID,
		SeasonID:         a.SeasonID,
		ScopeID:          a.ScopeID,
		TeamID:           a.TeamID,
		PlayerID:         a.PlayerID,
		FixtureID:        a.FixtureID,
		OpponentTeamID:   a.OpponentTeamID,
		OpponentPlayerID: a.OpponentPlayerID,
		Note:             a.Note,
		AwardedAt:        a.AwardedAt,
	}
}
