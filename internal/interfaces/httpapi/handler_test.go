package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

const testJobToken = "job-token"

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	memory.Seed(store)

	logger := logging.NewNop()
	fixtures := usecase.NewFixtureService(store, nil, logger)
	materializer := usecase.NewMaterializeService(store, id.NewUUIDGenerator(), usecase.MaterializeConfig{MaxWorkers: 2}, logger)
	memberships := usecase.NewMembershipService(store, logger)
	triggers := usecase.NewTriggerService(store, fixtures, memberships, usecase.NewInlineDispatcher(materializer), logger)

	handler := NewHandler(HandlerDeps{
		Fixtures:     fixtures,
		Materializer: materializer,
		Triggers:     triggers,
		Achievements: usecase.NewAchievementService(store, logger),
	}, logger)
	return NewRouter(handler, logger, []string{"*"}, testJobToken), store
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(internalJobTokenHeader, testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func scopeFixtures(t *testing.T, store *memory.Store, scopeID int64) []fixture.Fixture {
	t.Helper()
	var out []fixture.Fixture
	err := store.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		rows, err := repos.Fixtures.ListByScope(ctx, scopeID)
		out = rows
		return err
	})
	require.NoError(t, err)
	return out
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope[map[string]string](t, rec)
	require.Equal(t, "ok", body.Data["status"])
}

func TestInternalRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/scopes/2/rebuild", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRebuildScope_WritesStandings(t *testing.T) {
	router, store := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/scopes/2/rebuild", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[usecase.RebuildResult](t, rec)
	require.Equal(t, memory.SeedLeagueScopeID, body.Data.ScopeID)
	require.Equal(t, 4, body.Data.TeamRows)
	require.Len(t, store.TeamStandings(memory.SeedLeagueScopeID), 4)
}

func TestRebuildScope_BadID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/scopes/abc/rebuild", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecalculateFixture_UnknownFixture(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/fixtures/999999/recalculate", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	require.Equal(t, "NOT_FOUND", body.Error.Status)
}

func TestScheduleReplay_RejectsLeagueFixture(t *testing.T) {
	router, store := newTestRouter(t)
	league := scopeFixtures(t, store, memory.SeedLeagueScopeID)
	require.NotEmpty(t, league)

	target := "/v1/internal/fixtures/" + itoa(league[0].ID) + "/replay"
	rec := do(t, router, http.MethodPost, target, `{"kickoff_at":"2026-12-01T18:00:00Z"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestScheduleReplay_RequiresKickoff(t *testing.T) {
	router, store := newTestRouter(t)
	cup := scopeFixtures(t, store, memory.SeedCupScopeID)
	require.Len(t, cup, 1)

	rec := do(t, router, http.MethodPost, "/v1/internal/fixtures/"+itoa(cup[0].ID)+"/replay", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCupWinner_DrawnTieHasNoWinner(t *testing.T) {
	router, store := newTestRouter(t)
	cup := scopeFixtures(t, store, memory.SeedCupScopeID)
	require.Len(t, cup, 1)

	rec := do(t, router, http.MethodGet, "/v1/fixtures/"+itoa(cup[0].ID)+"/cup-winner", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[usecase.CupWinner](t, rec)
	require.Equal(t, cup[0].ID, body.Data.RootID)
	require.Equal(t, 1, body.Data.ChainLength)
	require.Nil(t, body.Data.WinnerTeamID)
}

func TestGetHeadToHead(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing team", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/scopes/2/head-to-head?team_a=10", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("after rebuild", func(t *testing.T) {
		rebuild := do(t, router, http.MethodPost, "/v1/internal/scopes/2/rebuild", "")
		require.Equal(t, http.StatusOK, rebuild.Code, rebuild.Body.String())

		rec := do(t, router, http.MethodGet, "/v1/scopes/2/head-to-head?team_a=10&team_b=11", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeEnvelope[usecase.HeadToHeadSummary](t, rec)
		require.Equal(t, 1, body.Data.Played)
		require.Equal(t, 0, body.Data.AWins)
		require.Equal(t, 1, body.Data.ALosses)
		require.Equal(t, 25, body.Data.APoints)
		require.Equal(t, 27, body.Data.BPoints)
	})
}

func TestGetPlayerVsPlayer(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing player", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/scopes/2/player-vs-player?player_a=100", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("after rebuild", func(t *testing.T) {
		rebuild := do(t, router, http.MethodPost, "/v1/internal/scopes/2/rebuild", "")
		require.Equal(t, http.StatusOK, rebuild.Code, rebuild.Body.String())

		rec := do(t, router, http.MethodGet, "/v1/scopes/2/player-vs-player?player_a=100&player_b=103", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeEnvelope[usecase.PlayerVsPlayerSummary](t, rec)
		require.NotNil(t, body.Data.A)
		require.NotNil(t, body.Data.B)
		require.Len(t, body.Data.SharedFixtures, 1)
		require.Equal(t, 10, body.Data.SharedFixtures[0].APoints)
		require.Equal(t, 9, body.Data.SharedFixtures[0].BPoints)
		require.Equal(t, []int{8, 10}, body.Data.ALastPoints)
		require.Equal(t, []int{12, 9}, body.Data.BLastPoints)
	})
}

func TestGetPlayersOverall(t *testing.T) {
	router, _ := newTestRouter(t)

	rebuild := do(t, router, http.MethodPost, "/v1/internal/seasons/1/rebuild", "")
	require.Equal(t, http.StatusOK, rebuild.Code, rebuild.Body.String())

	rec := do(t, router, http.MethodGet, "/v1/seasons/1/competitions/1/players-overall", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[usecase.PlayersOverall](t, rec)
	require.Equal(t, []int64{2}, body.Data.ScopeIDs)
	require.Len(t, body.Data.Rows, 12)
	require.Equal(t, int64(103), body.Data.Rows[0].PlayerID)
	require.Equal(t, 21, body.Data.Rows[0].TotalPoints)
	require.Equal(t, "Besiktas Pier", body.Data.Rows[0].TeamName)

	missing := do(t, router, http.MethodGet, "/v1/seasons/404/competitions/1/players-overall", "")
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestRebuildSeason_RejectsUnknownCompetitionType(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/seasons/1/rebuild", `{"competition_type":"FRIENDLY"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRebuildSeason_ReportsEveryScope(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/seasons/1/rebuild", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[usecase.BatchResult](t, rec)
	require.Equal(t, 2, body.Data.ScopeCount)
	require.Equal(t, 2, body.Data.SuccessCount)
}

func TestRunRebuildScopeJob_WithoutOrchestrator(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/jobs/rebuild-scope", `{"scope_id":2}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/v1/internal/achievements", `{"type_id":1,"season_id":1,"bogus":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
