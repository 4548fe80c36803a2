package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/powerranking"
	"github.com/riskibarqy/league-engine/internal/domain/record"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

const defaultRebuildWorkers = 4

// taskPool is the part of the worker pool a batch rebuild needs.
type taskPool interface {
	Submit(task func()) error
	Release()
}

func newAntsPool(size int) (taskPool, error) {
	return ants.NewPool(size)
}

type MaterializeConfig struct {
	Location   *time.Location
	MaxWorkers int
}

// MaterializeService rebuilds the derived standings, records and rankings of
// scopes from fixtures, scores and memberships.
type MaterializeService struct {
	tx     uow.Manager
	ids    id.Generator
	cfg    MaterializeConfig
	logger *logging.Logger
	now    func() time.Time

	newPool func(size int) (taskPool, error)
}

func NewMaterializeService(tx uow.Manager, ids id.Generator, cfg MaterializeConfig, logger *logging.Logger) *MaterializeService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultRebuildWorkers
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MaterializeService{
		tx:      tx,
		ids:     ids,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newPool: newAntsPool,
	}
}

// RebuildResult summarises one committed scope rebuild.
type RebuildResult struct {
	RunID                string                `json:"run_id"`
	ScopeID              int64                 `json:"scope_id"`
	CompetitionType      scope.CompetitionType `json:"competition_type"`
	FixturesRecalculated int                   `json:"fixtures_recalculated"`
	PlayedFixtures       int                   `json:"played_fixtures"`
	TeamRows             int                   `json:"team_rows"`
	PlayerRows           int                   `json:"player_rows"`
	RankingRows          int                   `json:"ranking_rows"`
	DurationMs           int64                 `json:"duration_ms"`
}

// RebuildScopeMaterialized recalculates every entered fixture of the scope and
// replaces its standings, record snapshot and power rankings in one
// transaction. Scopes of non-league competitions only keep records; their
// standings and rankings are cleared. On any error nothing is written.
func (s *MaterializeService) RebuildScopeMaterialized(ctx context.Context, scopeID int64) (RebuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaterializeService.RebuildScopeMaterialized",
		attribute.Int64("scope.id", scopeID))
	var err error
	defer func() { endSpan(span, err) }()

	if scopeID <= 0 {
		err = fmt.Errorf("%w: scope id is required", ErrInvalidInput)
		return RebuildResult{}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return RebuildResult{}, fmt.Errorf("generate run id: %w", err)
	}

	start := s.now()
	result := RebuildResult{RunID: runID, ScopeID: scopeID}
	err = s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if err := repos.Locks.Lock(ctx, uow.ScopeKey(scopeID)); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}
		return s.rebuild(ctx, repos, scopeID, &result)
	})
	if err != nil {
		level := s.logger.ErrorContext
		if isRejection(err) {
			level = s.logger.WarnContext
		}
		level(ctx, "scope rebuild failed", "run_id", runID, "scope_id", scopeID, "error", err)
		return RebuildResult{}, err
	}

	result.DurationMs = s.now().Sub(start).Milliseconds()
	s.logger.InfoContext(ctx, "scope rebuilt",
		"run_id", runID,
		"scope_id", scopeID,
		"competition_type", result.CompetitionType,
		"fixtures_recalculated", result.FixturesRecalculated,
		"team_rows", result.TeamRows,
		"player_rows", result.PlayerRows,
		"ranking_rows", result.RankingRows,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

func (s *MaterializeService) rebuild(ctx context.Context, repos uow.Repositories, scopeID int64, result *RebuildResult) error {
	sc, err := getScope(ctx, repos, scopeID)
	if err != nil {
		return err
	}
	result.CompetitionType = sc.CompetitionType

	fixtures, err := repos.Fixtures.ListByScope(ctx, scopeID)
	if err != nil {
		return fmt.Errorf("list fixtures: %w", err)
	}
	for i, f := range fixtures {
		_, hasResult, err := repos.Fixtures.GetResult(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if !hasResult && !f.IsPlayed {
			continue
		}
		totals, err := recalculateTotals(ctx, repos, s.cfg.Location, f)
		if err != nil {
			return err
		}
		if totals != f.Totals {
			if err := repos.Fixtures.UpdateTotals(ctx, f.ID, totals); err != nil {
				return fmt.Errorf("update fixture totals: %w", err)
			}
		}
		fixtures[i].Totals = totals
		result.FixturesRecalculated++
	}

	played := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.IsPlayed {
			played = append(played, f)
		}
	}
	result.PlayedFixtures = len(played)

	scores, err := repos.Fixtures.ListScoresByScope(ctx, scopeID)
	if err != nil {
		return fmt.Errorf("list scores: %w", err)
	}

	snapshot := record.Compute(scopeID, played, scores)
	snapshot.UpdatedAt = s.now().UTC()
	if err := repos.Records.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert record snapshot: %w", err)
	}

	if sc.CompetitionType != scope.CompetitionLeague {
		if err := repos.Standings.ReplaceTeams(ctx, scopeID, nil); err != nil {
			return fmt.Errorf("clear team standings: %w", err)
		}
		if err := repos.Standings.ReplacePlayers(ctx, scopeID, nil); err != nil {
			return fmt.Errorf("clear player standings: %w", err)
		}
		if err := repos.Rankings.ReplaceByScope(ctx, scopeID, nil); err != nil {
			return fmt.Errorf("clear power rankings: %w", err)
		}
		return nil
	}

	teamNames, err := s.teamNames(ctx, repos, played)
	if err != nil {
		return err
	}
	teamRows := standing.OrderWithHeadToHead(standing.BuildTeamRows(scopeID, played, teamNames), played)
	if err := repos.Standings.ReplaceTeams(ctx, scopeID, teamRows); err != nil {
		return fmt.Errorf("replace team standings: %w", err)
	}
	result.TeamRows = len(teamRows)

	playerNames, err := s.playerNames(ctx, repos, scores)
	if err != nil {
		return err
	}
	playerRows := standing.BuildPlayerRows(scopeID, played, scores, playerNames)
	if err := repos.Standings.ReplacePlayers(ctx, scopeID, playerRows); err != nil {
		return fmt.Errorf("replace player standings: %w", err)
	}
	result.PlayerRows = len(playerRows)

	rankedTeams := make([]powerranking.Team, 0, len(teamRows))
	for _, row := range teamRows {
		rankedTeams = append(rankedTeams, powerranking.Team{ID: row.TeamID, Name: row.TeamName})
	}
	rankings := powerranking.Compute(scopeID, fixtures, rankedTeams)
	if err := repos.Rankings.ReplaceByScope(ctx, scopeID, rankings); err != nil {
		return fmt.Errorf("replace power rankings: %w", err)
	}
	result.RankingRows = len(rankings)
	return nil
}

func (s *MaterializeService) teamNames(ctx context.Context, repos uow.Repositories, played []fixture.Fixture) (map[int64]string, error) {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, f := range played {
		for _, teamID := range []int64{f.HomeTeamID, f.AwayTeamID} {
			if _, ok := seen[teamID]; !ok {
				seen[teamID] = struct{}{}
				ids = append(ids, teamID)
			}
		}
	}
	teams, err := repos.Teams.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(map[int64]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out, nil
}

func (s *MaterializeService) playerNames(ctx context.Context, repos uow.Repositories, scores []fixture.PlayerScore) (map[int64]string, error) {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, sc := range scores {
		if _, ok := seen[sc.PlayerID]; !ok {
			seen[sc.PlayerID] = struct{}{}
			ids = append(ids, sc.PlayerID)
		}
	}
	players, err := repos.Players.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make(map[int64]string, len(players))
	for _, p := range players {
		out[p.ID] = p.Name
	}
	return out, nil
}

const (
	rebuildStatusSuccess = "success"
	rebuildStatusFailed  = "failed"
)

type ScopeRebuildStatus struct {
	ScopeID    int64  `json:"scope_id"`
	Label      string `json:"label"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	TeamRows   int    `json:"team_rows"`
	DurationMs int64  `json:"duration_ms"`
}

// BatchResult reports a multi-scope rebuild. Each scope commits on its own,
// so a failed scope does not undo the others.
type BatchResult struct {
	SeasonID     int64                `json:"season_id,omitempty"`
	ScopeCount   int                  `json:"scope_count"`
	WorkerCount  int                  `json:"worker_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	Scopes       []ScopeRebuildStatus `json:"scopes"`
}

// RebuildSeason rebuilds every scope of a season, optionally limited to one
// competition type.
func (s *MaterializeService) RebuildSeason(ctx context.Context, seasonID int64, compType scope.CompetitionType) (BatchResult, error) {
	if seasonID <= 0 {
		return BatchResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	var scopes []scope.Scope
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		_, ok, err := repos.Scopes.GetSeason(ctx, seasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
		}
		scopes, err = repos.Scopes.ListBySeason(ctx, seasonID, compType)
		if err != nil {
			return fmt.Errorf("list season scopes: %w", err)
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}

	result, err := s.rebuildMany(ctx, scopes)
	result.SeasonID = seasonID
	return result, err
}

// RebuildLatest rebuilds the scopes of the season with the latest start date.
func (s *MaterializeService) RebuildLatest(ctx context.Context, compType scope.CompetitionType) (BatchResult, error) {
	var season scope.Season
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		latest, ok, err := repos.Scopes.LatestSeason(ctx)
		if err != nil {
			return fmt.Errorf("get latest season: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: no seasons", ErrNotFound)
		}
		season = latest
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	return s.RebuildSeason(ctx, season.ID, compType)
}

// RebuildAll rebuilds every scope, optionally limited to one competition type.
func (s *MaterializeService) RebuildAll(ctx context.Context, compType scope.CompetitionType) (BatchResult, error) {
	var scopes []scope.Scope
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		rows, err := repos.Scopes.ListAll(ctx, compType)
		if err != nil {
			return fmt.Errorf("list scopes: %w", err)
		}
		scopes = rows
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	return s.rebuildMany(ctx, scopes)
}

func (s *MaterializeService) rebuildMany(ctx context.Context, scopes []scope.Scope) (BatchResult, error) {
	workerCount := s.cfg.MaxWorkers
	if workerCount > len(scopes) {
		workerCount = len(scopes)
	}
	result := BatchResult{
		ScopeCount:  len(scopes),
		WorkerCount: workerCount,
		Scopes:      make([]ScopeRebuildStatus, 0, len(scopes)),
	}
	if len(scopes) == 0 {
		return result, nil
	}

	pool, err := s.newPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var successCount atomic.Int32
	var failedCount atomic.Int32
	statuses := make(chan ScopeRebuildStatus, len(scopes))

	var workers sync.WaitGroup
	var submitErr error
	submitted := 0
	for _, sc := range scopes {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ScopeRebuildStatus{ScopeID: sc.ID, Label: sc.Label(), Status: rebuildStatusSuccess}
			out, err := s.RebuildScopeMaterialized(ctx, sc.ID)
			if err != nil {
				row.Status = rebuildStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.TeamRows = out.TeamRows
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			statuses <- row
		}); err != nil {
			workers.Done()
			submitErr = err
			break
		}
		submitted++
	}

	// Rebuilds already handed to the pool run to completion and keep their
	// status even when a later submit fails.
	workers.Wait()
	close(statuses)
	for row := range statuses {
		result.Scopes = append(result.Scopes, row)
	}
	if submitErr != nil {
		for _, sc := range scopes[submitted:] {
			result.Scopes = append(result.Scopes, ScopeRebuildStatus{
				ScopeID: sc.ID,
				Label:   sc.Label(),
				Status:  rebuildStatusFailed,
				Message: "not submitted: " + submitErr.Error(),
			})
			failedCount.Add(1)
		}
	}
	sort.SliceStable(result.Scopes, func(i, j int) bool {
		return result.Scopes[i].ScopeID < result.Scopes[j].ScopeID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	if submitErr != nil {
		return result, fmt.Errorf("submit scope rebuild to worker pool: %w", submitErr)
	}
	if result.FailedCount > 0 {
		return result, fmt.Errorf("%w: %d of %d scopes", ErrRebuildFailed, result.FailedCount, result.ScopeCount)
	}
	return result, nil
}
