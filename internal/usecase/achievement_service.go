package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type AwardAchievementInput struct {
	TypeID           int64  `json:"type_id" validate:"required,gt=0"`
	SeasonID         int64  `json:"season_id" validate:"required,gt=0"`
	ScopeID          *int64 `json:"scope_id,omitempty" validate:"omitempty,gt=0"`
	TeamID           *int64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
	PlayerID         *int64 `json:"player_id,omitempty" validate:"omitempty,gt=0"`
	FixtureID        *int64 `json:"fixture_id,omitempty" validate:"omitempty,gt=0"`
	OpponentTeamID   *int64 `json:"opponent_team_id,omitempty" validate:"omitempty,gt=0"`
	OpponentPlayerID *int64 `json:"opponent_player_id,omitempty" validate:"omitempty,gt=0"`
	Note             string `json:"note" validate:"max=500"`
}

type AchievementService struct {
	tx     uow.Manager
	logger *logging.Logger
	now    func() time.Time
}

func NewAchievementService(tx uow.Manager, logger *logging.Logger) *AchievementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AchievementService{
		tx:     tx,
		logger: logger,
		now:    time.Now,
	}
}

// Award validates the award against its type, scope and fixture and stores it.
func (s *AchievementService) Award(ctx context.Context, input AwardAchievementInput) (achievement.Achievement, error) {
	if input.TypeID <= 0 || input.SeasonID <= 0 {
		return achievement.Achievement{}, fmt.Errorf("%w: type id and season id are required", ErrInvalidInput)
	}

	item := achievement.Achievement{
		TypeID:           input.TypeID,
		SeasonID:         input.SeasonID,
		ScopeID:          input.ScopeID,
		TeamID:           input.TeamID,
		PlayerID:         input.PlayerID,
		FixtureID:        input.FixtureID,
		OpponentTeamID:   input.OpponentTeamID,
		OpponentPlayerID: input.OpponentPlayerID,
		Note:             strings.TrimSpace(input.Note),
		AwardedAt:        s.now().UTC(),
	}

	var created achievement.Achievement
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		c, err := s.loadContext(ctx, repos, item)
		if err != nil {
			return err
		}
		if err := item.Validate(c); err != nil {
			return err
		}
		created, err = repos.Achievements.Create(ctx, item)
		if err != nil {
			return fmt.Errorf("create achievement: %w", err)
		}
		return nil
	})
	if err != nil {
		return achievement.Achievement{}, err
	}

	s.logger.InfoContext(ctx, "achievement awarded",
		"achievement_id", created.ID,
		"type_id", created.TypeID,
		"season_id", created.SeasonID,
	)
	return created, nil
}

func (s *AchievementService) loadContext(ctx context.Context, repos uow.Repositories, item achievement.Achievement) (achievement.Context, error) {
	var c achievement.Context

	typ, ok, err := repos.Achievements.GetType(ctx, item.TypeID)
	if err != nil {
		return c, fmt.Errorf("get achievement type: %w", err)
	}
	if !ok {
		return c, fmt.Errorf("%w: achievement type=%d", ErrNotFound, item.TypeID)
	}
	c.Type = typ

	if _, ok, err := repos.Scopes.GetSeason(ctx, item.SeasonID); err != nil {
		return c, fmt.Errorf("get season: %w", err)
	} else if !ok {
		return c, fmt.Errorf("%w: season=%d", ErrNotFound, item.SeasonID)
	}

	if item.ScopeID != nil {
		sc, err := getScope(ctx, repos, *item.ScopeID)
		if err != nil {
			return c, err
		}
		c.Scope = &sc
	}
	if item.FixtureID != nil {
		f, err := getFixture(ctx, repos, *item.FixtureID)
		if err != nil {
			return c, err
		}
		fs, err := getScope(ctx, repos, f.ScopeID)
		if err != nil {
			return c, err
		}
		c.Fixture = &f
		c.FixtureScope = &fs
	}

	for _, teamID := range []*int64{item.TeamID, item.OpponentTeamID} {
		if teamID == nil {
			continue
		}
		if _, ok, err := repos.Teams.GetByID(ctx, *teamID); err != nil {
			return c, fmt.Errorf("get team: %w", err)
		} else if !ok {
			return c, fmt.Errorf("%w: team=%d", ErrNotFound, *teamID)
		}
	}
	for _, playerID := range []*int64{item.PlayerID, item.OpponentPlayerID} {
		if playerID == nil {
			continue
		}
		if _, ok, err := repos.Players.GetByID(ctx, *playerID); err != nil {
			return c, fmt.Errorf("get player: %w", err)
		} else if !ok {
			return c, fmt.Errorf("%w: player=%d", ErrNotFound, *playerID)
		}
	}
	return c, nil
}
