package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/models"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/smash"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SmashFeedArgs struct {
	Season int `json:"season,omitempty" jsonschema:"Season (0 = current)"`
	Week   int `json:"week,omitempty" jsonschema:"Week (0 = latest scheduled week)"`
	Limit  int `json:"limit,omitempty" jsonschema:"Players per position group (default 25)"`
}

type SmashFeedResult struct {
	Season int          `json:"season"`
	Week   int          `json:"week"`
	Spots  []smash.Spot `json:"spots"`
}

type StandingsArgs struct {
	Season int `json:"season,omitempty" jsonschema:"Season (0 = current)"`
}

type MatchupHistoryArgs struct {
	TeamA string `json:"team_a" jsonschema:"Team abbreviation (required)"`
	TeamB string `json:"team_b" jsonschema:"Opponent abbreviation (required)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Meetings to return, 1-20 (default 5)"`
}

type GameDetailArgs struct {
	GameID string `json:"game_id" jsonschema:"Game id such as 2025_03_BUF_KC (required)"`
}

type PlayerSearchArgs struct {
	Query    string `json:"query" jsonschema:"Name or part of a name (required)"`
	Position string `json:"position,omitempty" jsonschema:"QB, RB, WR or TE"`
	Season   int    `json:"season,omitempty" jsonschema:"Season (0 = current)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max rows (default 10)"`
}

// toolset answers MCP tool calls from the same services the REST API uses.
type toolset struct {
	reg    *services.Registry
	season int
}

func (t *toolset) seasonOr(season int) int {
	if season > 0 {
		return season
	}
	return t.season
}

func (t *toolset) smashFeed(ctx context.Context, args SmashFeedArgs) (*SmashFeedResult, error) {
	season := t.seasonOr(args.Season)
	week := args.Week
	if week <= 0 {
		w, err := t.reg.Schedule.LatestWeek(ctx, season)
		if err != nil {
			return nil, err
		}
		week = w
	}
	limit := args.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	spots, err := t.reg.Smash.Feed(ctx, season, week, limit)
	if err != nil {
		return nil, err
	}
	return &SmashFeedResult{Season: season, Week: week, Spots: spots}, nil
}

func (t *toolset) standings(ctx context.Context, args StandingsArgs) ([]services.StandingRow, error) {
	return t.reg.Standings.Standings(ctx, t.seasonOr(args.Season))
}

func (t *toolset) matchupHistory(ctx context.Context, args MatchupHistoryArgs) ([]models.GameLine, error) {
	if strings.TrimSpace(args.TeamA) == "" || strings.TrimSpace(args.TeamB) == "" {
		return nil, fmt.Errorf("team_a and team_b are required")
	}
	limit := args.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return t.reg.Schedule.MatchupHistory(ctx, args.TeamA, args.TeamB, limit)
}

func (t *toolset) gameDetail(ctx context.Context, args GameDetailArgs) (*services.GameDetail, error) {
	if strings.TrimSpace(args.GameID) == "" {
		return nil, fmt.Errorf("game_id is required")
	}
	return t.reg.Games.Detail(ctx, args.GameID)
}

func (t *toolset) playerSearch(ctx context.Context, args PlayerSearchArgs) ([]services.PlayerRow, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	limit := args.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return t.reg.Players.List(ctx, services.PlayerFilter{
		Season:   t.seasonOr(args.Season),
		Position: args.Position,
		Query:    args.Query,
		Limit:    limit,
	})
}

func (t *toolset) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "smash_feed",
		Description: "Weekly smash spots: players ranked by matchup favorability with DK lines and matchup flags",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SmashFeedArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(t.smashFeed(ctx, args))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "team_standings",
		Description: "League standings with records, point differential, ATS and playoff seeds",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StandingsArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(t.standings(ctx, args))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "matchup_history",
		Description: "Recent meetings between two teams, newest first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MatchupHistoryArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(t.matchupHistory(ctx, args))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "game_detail",
		Description: "One game: win probability, team comparison, leaders, props and history",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameDetailArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(t.gameDetail(ctx, args))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_search",
		Description: "Find skill players by name with their season totals",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerSearchArgs) (*mcp.CallToolResult, any, error) {
		return toolJSON(t.playerSearch(ctx, args))
	})
}

func toolJSON[T any](out T, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
