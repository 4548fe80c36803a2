package memory

import (
	"context"

	"github.com/riskibarqy/league-engine/internal/domain/scope"
)

type scopeRepository struct {
	st *state
}

func (r scopeRepository) GetByID(_ context.Context, scopeID int64) (scope.Scope, bool, error) {
	item, ok := r.st.scopes[scopeID]
	return item, ok, nil
}

func (r scopeRepository) ListBySeason(_ context.Context, seasonID int64, compType scope.CompetitionType) ([]scope.Scope, error) {
	out := make([]scope.Scope, 0)
	for _, item := range r.st.scopes {
		if item.SeasonID != seasonID {
			continue
		}
		if compType != "" && item.CompetitionType != compType {
			continue
		}
		out = append(out, item)
	}
	sortByID(out, func(s scope.Scope) int64 { return s.ID })
	return out, nil
}

func (r scopeRepository) ListAll(_ context.Context, compType scope.CompetitionType) ([]scope.Scope, error) {
	out := make([]scope.Scope, 0, len(r.st.scopes))
	for _, item := range r.st.scopes {
		if compType != "" && item.CompetitionType != compType {
			continue
		}
		out = append(out, item)
	}
	sortByID(out, func(s scope.Scope) int64 { return s.ID })
	return out, nil
}

func (r scopeRepository) GetSeason(_ context.Context, seasonID int64) (scope.Season, bool, error) {
	item, ok := r.st.seasons[seasonID]
	return item, ok, nil
}

func (r scopeRepository) LatestSeason(_ context.Context) (scope.Season, bool, error) {
	var (
		latest scope.Season
		found  bool
	)
	for _, item := range r.st.seasons {
		if !found ||
			item.StartDate.After(latest.StartDate) ||
			(item.StartDate.Equal(latest.StartDate) && item.ID > latest.ID) {
			latest = item
			found = true
		}
	}
	return latest, found, nil
}
