package cache

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	basecache "github.com/riskibarqy/league-engine/internal/platform/cache"
)

// WrapRepositories serves team and player lookups from store. Names change
// rarely and every rebuild reads all of them. Only rows that exist are cached,
// so a team or player created after a failed lookup is found on the next read.
func WrapRepositories(repos uow.Repositories, store *basecache.Store) uow.Repositories {
	if store == nil {
		return repos
	}
	repos.Teams = NewTeamRepository(repos.Teams, store)
	repos.Players = NewPlayerRepository(repos.Players, store)
	return repos
}

// errAbsent keeps a miss out of the cache; loader errors are never stored.
var errAbsent = errors.New("cache: row does not exist")

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func teamKey(teamID int64) string {
	return "team:id:" + strconv.FormatInt(teamID, 10)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	item, err := basecache.Load(ctx, r.cache, teamKey(teamID), func(ctx context.Context) (team.Team, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err == nil && !exists {
			err = errAbsent
		}
		return item, err
	})
	switch {
	case errors.Is(err, errAbsent):
		return team.Team{}, false, nil
	case err != nil:
		return team.Team{}, false, err
	}
	return item, true, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, teamIDs []int64) ([]team.Team, error) {
	out := make([]team.Team, 0, len(teamIDs))
	missing := make([]int64, 0)
	for _, id := range uniqueIDs(teamIDs) {
		if v, ok := r.cache.Get(ctx, teamKey(id)); ok {
			if cached, ok := v.(team.Team); ok {
				out = append(out, cached)
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := r.next.ListByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, item := range loaded {
			r.cache.Set(ctx, teamKey(item.ID), item)
			out = append(out, item)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func playerKey(playerID int64) string {
	return "player:id:" + strconv.FormatInt(playerID, 10)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	item, err := basecache.Load(ctx, r.cache, playerKey(playerID), func(ctx context.Context) (player.Player, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err == nil && !exists {
			err = errAbsent
		}
		return item, err
	})
	switch {
	case errors.Is(err, errAbsent):
		return player.Player{}, false, nil
	case err != nil:
		return player.Player{}, false, err
	}
	return item, true, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	out := make([]player.Player, 0, len(playerIDs))
	missing := make([]int64, 0)
	for _, id := range uniqueIDs(playerIDs) {
		if v, ok := r.cache.Get(ctx, playerKey(id)); ok {
			if cached, ok := v.(player.Player); ok {
				out = append(out, cached)
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		loaded, err := r.next.ListByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, item := range loaded {
			r.cache.Set(ctx, playerKey(item.ID), item)
			out = append(out, item)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
