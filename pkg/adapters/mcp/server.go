package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const teamsURI = "ballpark://teams"

// GameResponse aligns with the REST game state and is shared by every game tool.
type GameResponse struct {
	State   *domain.GameState `json:"state" jsonschema_description:"The full state of the game"`
	Summary string            `json:"summary" jsonschema_description:"One-line situation: inning, count, outs, score and last play"`
}

// SimulationResponse is returned by simulate_game. Per-play snapshots are
// left out; fetch the game for the play log.
type SimulationResponse struct {
	GameResponse
	Plays          int  `json:"plays" jsonschema_description:"Number of pitches simulated"`
	CeilingReached bool `json:"ceiling_reached" jsonschema_description:"The play ceiling stopped the simulation before the game ended"`
}

// Server wraps the ballpark engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.GameService
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.GameService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("ballpark-mcp", strings.TrimSpace(ballpark.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: new_game
	s.mcpServer.AddTool(mcp.NewTool("new_game",
		mcp.WithDescription("Start a new game. You are the home team: you pitch in the top of each inning and bat in the bottom. Without team_id the game is played by generic lineups."),
		mcp.WithNumber("team_id", mcp.Description("Your team (see the ballpark://teams resource)")),
		mcp.WithNumber("season", mcp.Description("Season of your roster, default 2024")),
		mcp.WithNumber("home_pitcher_id", mcp.Description("Your starting pitcher; defaults to the best ERA")),
		mcp.WithNumber("away_team_id", mcp.Description("Opponent; random when omitted")),
		mcp.WithNumber("away_season", mcp.Description("Season of the opponent roster, defaults to season")),
		mcp.WithNumber("away_pitcher_id", mcp.Description("Opponent starting pitcher; defaults to the best ERA")),
		mcp.WithOutputSchema[GameResponse](),
	), mcp.NewStructuredToolHandler(s.handleNewGame))

	// TOOL: pitch
	s.mcpServer.AddTool(mcp.NewTool("pitch",
		mcp.WithDescription("Throw a pitch while the away team bats (player_role is pitching)."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("pitch_type", mcp.Required(), mcp.Enum("fastball", "curveball", "slider", "changeup")),
		mcp.WithOutputSchema[GameResponse](),
	), mcp.NewStructuredToolHandler(s.handlePitch))

	// TOOL: bat
	s.mcpServer.AddTool(mcp.NewTool("bat",
		mcp.WithDescription("Swing or take against the CPU pitcher while you bat (player_role is batting)."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithString("action", mcp.Required(), mcp.Enum("swing", "take")),
		mcp.WithOutputSchema[GameResponse](),
	), mcp.NewStructuredToolHandler(s.handleBat))

	// TOOL: simulate_game
	s.mcpServer.AddTool(mcp.NewTool("simulate_game",
		mcp.WithDescription("Let the CPU play both sides until the game ends."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithOutputSchema[SimulationResponse](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	// TOOL: get_game
	s.mcpServer.AddTool(mcp.NewTool("get_game",
		mcp.WithDescription("Get the current state of a game."),
		mcp.WithString("game_id", mcp.Required(), mcp.Description("Game ID")),
		mcp.WithOutputSchema[GameResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetGame))

	// TOOL: list_pitchers
	s.mcpServer.AddTool(mcp.NewTool("list_pitchers",
		mcp.WithDescription("List a team's pitchers, best ERA first."),
		mcp.WithNumber("team_id", mcp.Required(), mcp.Description("Team ID")),
		mcp.WithNumber("season", mcp.Description("Season, default 2024")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		pitchers, err := s.engine.Pitchers(ctx, intArg(args, "team_id"), intArg(args, "season"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list pitchers failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(pitchers)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GameResponse, error) {
	req := domain.NewGameRequest{
		TeamID:        intArg(args, "team_id"),
		Season:        intArg(args, "season"),
		HomePitcherID: intArg(args, "home_pitcher_id"),
		AwayTeamID:    intArg(args, "away_team_id"),
		AwaySeason:    intArg(args, "away_season"),
		AwayPitcherID: intArg(args, "away_pitcher_id"),
	}
	state, err := s.engine.CreateGame(ctx, req)
	if err != nil {
		return GameResponse{}, fmt.Errorf("new game failed: %w", err)
	}
	return respond(state), nil
}

func (s *Server) handlePitch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GameResponse, error) {
	gameID, _ := args["game_id"].(string)
	pitch, _ := args["pitch_type"].(string)

	state, err := s.engine.ProcessPitch(ctx, gameID, domain.PitchType(pitch))
	if err != nil {
		return GameResponse{}, fmt.Errorf("pitch failed: %w", err)
	}
	return respond(state), nil
}

func (s *Server) handleBat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GameResponse, error) {
	gameID, _ := args["game_id"].(string)
	action, _ := args["action"].(string)

	state, err := s.engine.ProcessAtBat(ctx, gameID, domain.BatAction(action))
	if err != nil {
		return GameResponse{}, fmt.Errorf("bat failed: %w", err)
	}
	return respond(state), nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SimulationResponse, error) {
	gameID, _ := args["game_id"].(string)

	res, err := s.engine.SimulateGame(ctx, gameID)
	if err != nil {
		return SimulationResponse{}, fmt.Errorf("simulation failed: %w", err)
	}
	return SimulationResponse{
		GameResponse:   respond(res.State),
		Plays:          res.Plays,
		CeilingReached: res.CeilingReached,
	}, nil
}

func (s *Server) handleGetGame(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GameResponse, error) {
	gameID, _ := args["game_id"].(string)

	state, err := s.engine.GetGame(ctx, gameID)
	if err != nil {
		return GameResponse{}, fmt.Errorf("get game failed: %w", err)
	}
	return respond(state), nil
}

func (s *Server) registerResources() {
	// EXPOSE: ballpark://teams
	s.mcpServer.AddResource(mcp.NewResource(teamsURI, "Teams",
		mcp.WithResourceDescription("Teams available for new_game"),
		mcp.WithMIMEType("application/json"),
	), s.readTeams)
}

func (s *Server) readTeams(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	teams, err := s.engine.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	jsonBytes, _ := json.Marshal(teams)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      teamsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func respond(state *domain.GameState) GameResponse {
	return GameResponse{State: state, Summary: Summarize(state)}
}

// Summarize renders the situation in one line, e.g.
// "Top 3, 1-2, 2 outs, runners on 1st and 3rd. Away 2 - Home 1. You are pitching. Last: Strike Looking!".
func Summarize(s *domain.GameState) string {
	var b strings.Builder

	if s.IsFinal() {
		fmt.Fprintf(&b, "Final. %s %d - %s %d.", orDefault(s.AwayTeam, "Away"), s.AwayTotal, orDefault(s.HomeTeam, "Home"), s.HomeTotal)
		return b.String()
	}

	half := "Top"
	if !s.IsTop() {
		half = "Bottom"
	}
	fmt.Fprintf(&b, "%s %d, %d-%d, %d out", half, s.Inning, s.Balls, s.Strikes, s.Outs)
	if s.Outs != 1 {
		b.WriteString("s")
	}

	var runners []string
	for i, name := range []string{"1st", "2nd", "3rd"} {
		if s.Bases[i] {
			runners = append(runners, name)
		}
	}
	switch len(runners) {
	case 0:
		b.WriteString(", bases empty")
	case 3:
		b.WriteString(", bases loaded")
	case 1:
		fmt.Fprintf(&b, ", runner on %s", runners[0])
	default:
		fmt.Fprintf(&b, ", runners on %s and %s", runners[0], runners[1])
	}

	fmt.Fprintf(&b, ". %s %d - %s %d. You are %s.", orDefault(s.AwayTeam, "Away"), s.AwayTotal, orDefault(s.HomeTeam, "Home"), s.HomeTotal, s.Role)
	if s.LastPlay != "" {
		fmt.Fprintf(&b, " Last: %s", s.LastPlay)
	}
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// intArg reads an optional numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
