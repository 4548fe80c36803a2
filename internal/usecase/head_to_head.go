package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

// HeadToHeadSummary compares two teams over their played meetings in a scope,
// from team A's point of view.
type HeadToHeadSummary struct {
	ScopeID           int64   `json:"scope_id"`
	TeamAID           int64   `json:"team_a_id"`
	TeamBID           int64   `json:"team_b_id"`
	Played            int     `json:"played"`
	AWins             int     `json:"a_wins"`
	Draws             int     `json:"draws"`
	ALosses           int     `json:"a_losses"`
	APoints           int     `json:"a_points"`
	BPoints           int     `json:"b_points"`
	AAverage          float64 `json:"a_average"`
	BAverage          float64 `json:"b_average"`
	BiggestMargin     int     `json:"biggest_margin"`
	BiggestMarginFxID *int64  `json:"biggest_margin_fixture_id,omitempty"`
	FixtureIDs        []int64 `json:"fixture_ids"`
}

func (s *FixtureService) HeadToHead(ctx context.Context, scopeID, teamA, teamB int64) (HeadToHeadSummary, error) {
	if scopeID <= 0 || teamA <= 0 || teamB <= 0 {
		return HeadToHeadSummary{}, fmt.Errorf("%w: scope id and both team ids are required", ErrInvalidInput)
	}
	if teamA == teamB {
		return HeadToHeadSummary{}, fmt.Errorf("%w: teams must be different", ErrInvalidInput)
	}

	var played []fixture.Fixture
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if _, err := getScope(ctx, repos, scopeID); err != nil {
			return err
		}
		rows, err := repos.Fixtures.ListPlayedByScope(ctx, scopeID)
		if err != nil {
			return fmt.Errorf("list played fixtures: %w", err)
		}
		played = rows
		return nil
	})
	if err != nil {
		return HeadToHeadSummary{}, err
	}

	return summarizeHeadToHead(scopeID, teamA, teamB, played), nil
}

func summarizeHeadToHead(scopeID, teamA, teamB int64, played []fixture.Fixture) HeadToHeadSummary {
	out := HeadToHeadSummary{ScopeID: scopeID, TeamAID: teamA, TeamBID: teamB, FixtureIDs: []int64{}}

	ordered := append([]fixture.Fixture(nil), played...)
	fixture.SortByKickoff(ordered)
	for _, f := range ordered {
		if !f.IsPlayed || f.OpponentOf(teamA) != teamB {
			continue
		}
		out.Played++
		out.FixtureIDs = append(out.FixtureIDs, f.ID)

		aPoints, bPoints := f.PointsFor(teamA)
		out.APoints += aPoints
		out.BPoints += bPoints
		switch f.MatchPointsFor(teamA) {
		case fixture.PointsWin:
			out.AWins++
		case fixture.PointsDraw:
			out.Draws++
		default:
			out.ALosses++
		}

		margin := aPoints - bPoints
		if margin < 0 {
			margin = -margin
		}
		if margin > out.BiggestMargin {
			id := f.ID
			out.BiggestMargin = margin
			out.BiggestMarginFxID = &id
		}
	}
	if out.Played > 0 {
		out.AAverage = float64(out.APoints) / float64(out.Played)
		out.BAverage = float64(out.BPoints) / float64(out.Played)
	}
	return out
}
