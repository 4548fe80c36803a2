package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/powerranking"
	"github.com/riskibarqy/league-engine/internal/domain/record"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	"github.com/riskibarqy/league-engine/internal/domain/team"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

type state struct {
	nextID int64

	seasons          map[int64]scope.Season
	scopes           map[int64]scope.Scope
	teams            map[int64]team.Team
	players          map[int64]player.Player
	memberships      map[int64]membership.Membership
	transfers        map[int64]membership.Transfer
	fixtures         map[int64]fixture.Fixture
	results          map[int64]fixture.Result
	scores           map[int64]fixture.PlayerScore
	teamStandings    map[int64][]standing.TeamStanding
	playerStandings  map[int64][]standing.PlayerStanding
	records          map[int64]record.Snapshot
	rankings         map[int64][]powerranking.Ranking
	achievementTypes map[int64]achievement.Type
	achievements     map[int64]achievement.Achievement
}

func newState() *state {
	return &state{
		seasons:          make(map[int64]scope.Season),
		scopes:           make(map[int64]scope.Scope),
		teams:            make(map[int64]team.Team),
		players:          make(map[int64]player.Player),
		memberships:      make(map[int64]membership.Membership),
		transfers:        make(map[int64]membership.Transfer),
		fixtures:         make(map[int64]fixture.Fixture),
		results:          make(map[int64]fixture.Result),
		scores:           make(map[int64]fixture.PlayerScore),
		teamStandings:    make(map[int64][]standing.TeamStanding),
		playerStandings:  make(map[int64][]standing.PlayerStanding),
		records:          make(map[int64]record.Snapshot),
		rankings:         make(map[int64][]powerranking.Ranking),
		achievementTypes: make(map[int64]achievement.Type),
		achievements:     make(map[int64]achievement.Achievement),
	}
}

// clone copies every table. Row slices are replaced wholesale on write, so
// sharing their backing arrays between snapshots is safe.
func (s *state) clone() *state {
	return &state{
		nextID:           s.nextID,
		seasons:          maps.Clone(s.seasons),
		scopes:           maps.Clone(s.scopes),
		teams:            maps.Clone(s.teams),
		players:          maps.Clone(s.players),
		memberships:      maps.Clone(s.memberships),
		transfers:        maps.Clone(s.transfers),
		fixtures:         maps.Clone(s.fixtures),
		results:          maps.Clone(s.results),
		scores:           maps.Clone(s.scores),
		teamStandings:    maps.Clone(s.teamStandings),
		playerStandings:  maps.Clone(s.playerStandings),
		records:          maps.Clone(s.records),
		rankings:         maps.Clone(s.rankings),
		achievementTypes: maps.Clone(s.achievementTypes),
		achievements:     maps.Clone(s.achievements),
	}
}

func (s *state) newID() int64 {
	s.nextID++
	return s.nextID
}

// assignID keeps an explicit id and moves the counter past it.
func (s *state) assignID(id int64) int64 {
	if id <= 0 {
		return s.newID()
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

// Store is an in-process storage driver. Transactions are serialized and run
// against a private copy that replaces the committed state only on success.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var _ uow.Manager = (*Store)(nil)

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(ctx, repositoriesFor(draft)); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func repositoriesFor(st *state) uow.Repositories {
	return uow.Repositories{
		Scopes:       scopeRepository{st: st},
		Teams:        teamRepository{st: st},
		Players:      playerRepository{st: st},
		Memberships:  membershipRepository{st: st},
		Transfers:    transferRepository{st: st},
		Fixtures:     fixtureRepository{st: st},
		Standings:    standingRepository{st: st},
		Records:      recordRepository{st: st},
		Rankings:     rankingRepository{st: st},
		Achievements: achievementRepository{st: st},
		Locks:        noopLocker{},
	}
}

// noopLocker relies on Store.Do already serializing transactions.
type noopLocker struct{}

func (noopLocker) Lock(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (s *Store) write(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Store) AddSeason(item scope.Season) scope.Season {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.seasons[item.ID] = item
	})
	return item
}

func (s *Store) AddScope(item scope.Scope) scope.Scope {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.scopes[item.ID] = item
	})
	return item
}

func (s *Store) AddTeam(item team.Team) team.Team {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.teams[item.ID] = item
	})
	return item
}

func (s *Store) AddPlayer(item player.Player) player.Player {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.players[item.ID] = item
	})
	return item
}

func (s *Store) AddMembership(item membership.Membership) membership.Membership {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.memberships[item.ID] = item
	})
	return item
}

func (s *Store) AddTransfer(item membership.Transfer) membership.Transfer {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.transfers[item.ID] = item
	})
	return item
}

func (s *Store) AddFixture(item fixture.Fixture) fixture.Fixture {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.fixtures[item.ID] = item
	})
	return item
}

// AddResult stores the result of a fixture. A fixture has at most one.
func (s *Store) AddResult(item fixture.Result) fixture.Result {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.results[item.FixtureID] = item
	})
	return item
}

func (s *Store) AddScore(item fixture.PlayerScore) fixture.PlayerScore {
	s.write(func(st *state) {
		if res, ok := st.results[item.FixtureID]; ok && item.ResultID == 0 {
			item.ResultID = res.ID
		}
		item.ID = st.assignID(item.ID)
		st.scores[item.ID] = item
	})
	return item
}

func (s *Store) AddAchievementType(item achievement.Type) achievement.Type {
	s.write(func(st *state) {
		item.ID = st.assignID(item.ID)
		st.achievementTypes[item.ID] = item
	})
	return item
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Store) Fixture(id int64) (fixture.Fixture, bool) {
	var (
		out fixture.Fixture
		ok  bool
	)
	s.read(func(st *state) { out, ok = st.fixtures[id] })
	return out, ok
}

func (s *Store) TeamStandings(scopeID int64) []standing.TeamStanding {
	var out []standing.TeamStanding
	s.read(func(st *state) { out = slices.Clone(st.teamStandings[scopeID]) })
	return out
}

func (s *Store) PlayerStandings(scopeID int64) []standing.PlayerStanding {
	var out []standing.PlayerStanding
	s.read(func(st *state) { out = slices.Clone(st.playerStandings[scopeID]) })
	return out
}

func (s *Store) Record(scopeID int64) (record.Snapshot, bool) {
	var (
		out record.Snapshot
		ok  bool
	)
	s.read(func(st *state) { out, ok = st.records[scopeID] })
	return out, ok
}

func (s *Store) Rankings(scopeID int64) []powerranking.Ranking {
	var out []powerranking.Ranking
	s.read(func(st *state) { out = slices.Clone(st.rankings[scopeID]) })
	return out
}

func (s *Store) Memberships(seasonID int64) []membership.Membership {
	var out []membership.Membership
	s.read(func(st *state) {
		for _, m := range st.memberships {
			if m.SeasonID == seasonID {
				out = append(out, m)
			}
		}
	})
	sortByID(out, func(m membership.Membership) int64 { return m.ID })
	return out
}

func (s *Store) Scores(fixtureID int64) []fixture.PlayerScore {
	var out []fixture.PlayerScore
	s.read(func(st *state) { out = st.scoresOfFixture(fixtureID) })
	return out
}

func sortByID[T any](items []T, id func(T) int64) {
	slices.SortFunc(items, func(a, b T) int {
		switch {
		case id(a) < id(b):
			return -1
		case id(a) > id(b):
			return 1
		default:
			return 0
		}
	})
}
