package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/league-engine/internal/app"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

var errUsage = errors.New("invalid usage")

type cli struct {
	c        *app.Container
	out      io.Writer
	validate *validator.Validate
}

func newCLI(c *app.Container, out io.Writer) *cli {
	return &cli{c: c, out: out, validate: validator.New()}
}

type command struct {
	name    string
	summary string
	run     func(cl *cli, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "recalc-fixture", summary: "recalc-fixture <fixture-id>", run: (*cli).recalcFixture},
	{name: "rebuild-scope", summary: "rebuild-scope <scope-id>", run: (*cli).rebuildScope},
	{name: "rebuild-season", summary: "rebuild-season [-type LEAGUE|CUP|SUPER_CUP] <season-id>", run: (*cli).rebuildSeason},
	{name: "rebuild-all", summary: "rebuild-all [-type LEAGUE|CUP|SUPER_CUP]", run: (*cli).rebuildAll},
	{name: "rebuild-latest", summary: "rebuild-latest [-type LEAGUE|CUP|SUPER_CUP]", run: (*cli).rebuildLatest},
	{name: "apply-transfer", summary: "apply-transfer <transfer-id>", run: (*cli).applyTransfer},
	{name: "generate-schedule", summary: "generate-schedule -scope <id> -teams 1,2,3,4 -first-kickoff <RFC3339> [-days 7] [-double] [-first-gameweek 1]", run: (*cli).generateSchedule},
	{name: "cup-winner", summary: "cup-winner <fixture-id>", run: (*cli).cupWinner},
	{name: "head-to-head", summary: "head-to-head -scope <id> -team-a <id> -team-b <id>", run: (*cli).headToHead},
	{name: "player-vs-player", summary: "player-vs-player -scope <id> -player-a <id> -player-b <id>", run: (*cli).playerVsPlayer},
	{name: "players-overall", summary: "players-overall -season <id> -competition <id>", run: (*cli).playersOverall},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: leaguectl <command> [flags] [args]")
	fmt.Fprintln(w, "commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s\n", cmd.summary)
	}
}

func (cl *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(cl, ctx, args[1:])
		}
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (cl *cli) recalcFixture(ctx context.Context, args []string) error {
	fixtureID, err := singleID("fixture-id", args)
	if err != nil {
		return err
	}
	updated, err := cl.c.Fixtures.RecalculateFixtureTotals(ctx, fixtureID)
	if err != nil {
		return err
	}
	return cl.print(map[string]any{
		"fixture_id":        updated.ID,
		"home_total_points": updated.HomeTotalPoints,
		"away_total_points": updated.AwayTotalPoints,
		"home_match_points": updated.HomeMatchPoints,
		"away_match_points": updated.AwayMatchPoints,
		"is_played":         updated.IsPlayed,
	})
}

func (cl *cli) rebuildScope(ctx context.Context, args []string) error {
	scopeID, err := singleID("scope-id", args)
	if err != nil {
		return err
	}
	result, err := cl.c.Materializer.RebuildScopeMaterialized(ctx, scopeID)
	if err != nil {
		return err
	}
	return cl.print(result)
}

func (cl *cli) rebuildSeason(ctx context.Context, args []string) error {
	fs, compType := competitionFlags("rebuild-season")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	seasonID, err := singleID("season-id", fs.Args())
	if err != nil {
		return err
	}
	filter, err := parseCompetitionType(*compType)
	if err != nil {
		return err
	}
	return cl.printBatch(cl.c.Materializer.RebuildSeason(ctx, seasonID, filter))
}

func (cl *cli) rebuildAll(ctx context.Context, args []string) error {
	fs, compType := competitionFlags("rebuild-all")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	filter, err := parseCompetitionType(*compType)
	if err != nil {
		return err
	}
	return cl.printBatch(cl.c.Materializer.RebuildAll(ctx, filter))
}

func (cl *cli) rebuildLatest(ctx context.Context, args []string) error {
	fs, compType := competitionFlags("rebuild-latest")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	filter, err := parseCompetitionType(*compType)
	if err != nil {
		return err
	}
	return cl.printBatch(cl.c.Materializer.RebuildLatest(ctx, filter))
}

func (cl *cli) applyTransfer(ctx context.Context, args []string) error {
	transferID, err := singleID("transfer-id", args)
	if err != nil {
		return err
	}
	result, err := cl.c.Triggers.OnTransferSaved(ctx, transferID)
	if printErr := cl.print(result); printErr != nil && err == nil {
		return printErr
	}
	return err
}

type scheduleArgs struct {
	ScopeID       int64     `validate:"required,gt=0"`
	TeamIDs       []int64   `validate:"required,min=2,dive,gt=0"`
	FirstKickoff  time.Time `validate:"required"`
	DaysBetween   int       `validate:"gt=0,lte=60"`
	DoubleRound   bool
	FirstGameweek int `validate:"gt=0"`
}

func (cl *cli) generateSchedule(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate-schedule", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	scopeID := fs.Int64("scope", 0, "scope id")
	teams := fs.String("teams", "", "comma-separated team ids")
	kickoff := fs.String("first-kickoff", "", "first kickoff, RFC3339")
	days := fs.Int("days", 7, "days between rounds")
	double := fs.Bool("double", false, "append the mirrored second half")
	firstGameweek := fs.Int("first-gameweek", 1, "gameweek of the first round")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	teamIDs, err := parseIDList(*teams)
	if err != nil {
		return err
	}
	var firstKickoff time.Time
	if strings.TrimSpace(*kickoff) != "" {
		firstKickoff, err = time.Parse(time.RFC3339, strings.TrimSpace(*kickoff))
		if err != nil {
			return fmt.Errorf("%w: first-kickoff must be RFC3339: %v", errUsage, err)
		}
	}
	in := scheduleArgs{
		ScopeID:       *scopeID,
		TeamIDs:       teamIDs,
		FirstKickoff:  firstKickoff,
		DaysBetween:   *days,
		DoubleRound:   *double,
		FirstGameweek: *firstGameweek,
	}
	if err := cl.validate.StructCtx(ctx, in); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	created, err := cl.c.Fixtures.GenerateSchedule(ctx, usecase.GenerateScheduleInput{
		ScopeID:       in.ScopeID,
		TeamIDs:       in.TeamIDs,
		FirstKickoff:  in.FirstKickoff,
		DaysBetween:   in.DaysBetween,
		DoubleRound:   in.DoubleRound,
		FirstGameweek: in.FirstGameweek,
	})
	if err != nil {
		return err
	}

	type row struct {
		ID         int64     `json:"id"`
		Gameweek   int       `json:"gameweek"`
		KickoffAt  time.Time `json:"kickoff_at"`
		HomeTeamID int64     `json:"home_team_id"`
		AwayTeamID int64     `json:"away_team_id"`
	}
	rows := make([]row, 0, len(created))
	for _, f := range created {
		rows = append(rows, row{ID: f.ID, Gameweek: f.Gameweek, KickoffAt: f.KickoffAt, HomeTeamID: f.HomeTeamID, AwayTeamID: f.AwayTeamID})
	}
	return cl.print(rows)
}

func (cl *cli) cupWinner(ctx context.Context, args []string) error {
	fixtureID, err := singleID("fixture-id", args)
	if err != nil {
		return err
	}
	winner, err := cl.c.Fixtures.CupWinnerTeamID(ctx, fixtureID)
	if err != nil {
		return err
	}
	return cl.print(winner)
}

type headToHeadArgs struct {
	ScopeID int64 `validate:"required,gt=0"`
	TeamA   int64 `validate:"required,gt=0"`
	TeamB   int64 `validate:"required,gt=0,nefield=TeamA"`
}

func (cl *cli) headToHead(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("head-to-head", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := headToHeadArgs{}
	fs.Int64Var(&in.ScopeID, "scope", 0, "scope id")
	fs.Int64Var(&in.TeamA, "team-a", 0, "first team id")
	fs.Int64Var(&in.TeamB, "team-b", 0, "second team id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := cl.validate.StructCtx(ctx, in); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	summary, err := cl.c.Fixtures.HeadToHead(ctx, in.ScopeID, in.TeamA, in.TeamB)
	if err != nil {
		return err
	}
	return cl.print(summary)
}

type playerVsPlayerArgs struct {
	ScopeID int64 `validate:"required,gt=0"`
	PlayerA int64 `validate:"required,gt=0"`
	PlayerB int64 `validate:"required,gt=0,nefield=PlayerA"`
}

func (cl *cli) playerVsPlayer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("player-vs-player", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := playerVsPlayerArgs{}
	fs.Int64Var(&in.ScopeID, "scope", 0, "scope id")
	fs.Int64Var(&in.PlayerA, "player-a", 0, "first player id")
	fs.Int64Var(&in.PlayerB, "player-b", 0, "second player id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := cl.validate.StructCtx(ctx, in); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	summary, err := cl.c.Fixtures.PlayerVsPlayer(ctx, in.ScopeID, in.PlayerA, in.PlayerB)
	if err != nil {
		return err
	}
	return cl.print(summary)
}

type playersOverallArgs struct {
	SeasonID      int64 `validate:"required,gt=0"`
	CompetitionID int64 `validate:"required,gt=0"`
}

func (cl *cli) playersOverall(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("players-overall", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := playersOverallArgs{}
	fs.Int64Var(&in.SeasonID, "season", 0, "season id")
	fs.Int64Var(&in.CompetitionID, "competition", 0, "competition id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := cl.validate.StructCtx(ctx, in); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	overall, err := cl.c.Fixtures.PlayersOverall(ctx, in.SeasonID, in.CompetitionID)
	if err != nil {
		return err
	}
	return cl.print(overall)
}

// printBatch prints the per-scope report before surfacing a partial failure.
func (cl *cli) printBatch(result usecase.BatchResult, err error) error {
	if err != nil && result.ScopeCount == 0 {
		return err
	}
	if printErr := cl.print(result); printErr != nil {
		return printErr
	}
	return err
}

func (cl *cli) print(v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	raw = append(raw, '\n')
	_, err = cl.out.Write(raw)
	return err
}

func competitionFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	compType := fs.String("type", "", "limit to one competition type")
	return fs, compType
}

func parseCompetitionType(raw string) (scope.CompetitionType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	compType, ok := scope.ParseCompetitionType(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown competition type %q", errUsage, raw)
	}
	return compType, nil
}

func singleID(name string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one %s", errUsage, name)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errUsage, name)
	}
	return value, nil
}

func parseIDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid team id %q", errUsage, part)
		}
		out = append(out, value)
	}
	return out, nil
}
