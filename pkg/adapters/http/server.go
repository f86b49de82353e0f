package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/observability"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// errBadRequest marks input the client must fix.
var errBadRequest = errors.New("bad request")

// Server serves the game API over a ports.GameService.
type Server struct {
	Engine  ports.GameService
	Streams *StreamManager

	logger   *slog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	limiter  *rateLimiter
	unwatch  func()
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request errors and streams.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request metrics in m and serves gatherer on /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithRateLimit allows each client rps requests per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = newRateLimiter(rps, burst)
		}
	}
}

// NewServer creates a Server. Most callers want NewHandler.
func NewServer(engine ports.GameService, opts ...Option) *Server {
	s := &Server{
		Engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.unwatch = engine.OnChange(s.streamChange)
	return s
}

// Close stops streaming the engine's changes. Open streams stay connected
// but receive nothing more.
func (s *Server) Close() {
	s.unwatch()
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.GameService, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorBody{Detail: "Method Not Allowed"})
	})

	if s.metrics != nil {
		r.Use(s.instrument)
	}
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"message": "Baseball Game API"})
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/game", func(r chi.Router) {
		r.Get("/", s.ListGames)
		r.Get("/teams", s.ListTeams)
		r.Get("/pitchers", s.ListPitchers)
		r.Post("/new", s.NewGame)

		r.Route("/{gameId}", func(r chi.Router) {
			r.Get("/", s.GetGame)
			r.Delete("/", s.DeleteGame)
			r.Post("/pitch", s.Pitch)
			r.Post("/bat", s.Bat)
			r.Post("/simulate", s.Simulate)
			r.Get("/events", s.SubscribeEvents)
			r.Get("/ws", s.WatchGame)
		})
	})

	return r
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Ballpark API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "ballpark-http",
		"version":     strings.TrimSpace(ballpark.Version),
		"api_version": apiVersion,
	})
}

// ListGames handles GET /api/game.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.ListGames(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// ListTeams handles GET /api/game/teams.
func (s *Server) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.Engine.Teams(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, teams)
}

// ListPitchers handles GET /api/game/pitchers?team_id=&season=.
func (s *Server) ListPitchers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var teamID int
	if err := runtime.BindQueryParameter("form", true, true, "team_id", q, &teamID); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	var season *int
	if err := runtime.BindQueryParameter("form", true, false, "season", q, &season); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	year := domain.DefaultSeason
	if season != nil {
		year = *season
	}

	pitchers, err := s.Engine.Pitchers(r.Context(), teamID, year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pitchers)
}

// NewGame handles POST /api/game/new. The body is optional.
func (s *Server) NewGame(w http.ResponseWriter, r *http.Request) {
	var req domain.NewGameRequest
	if err := decodeBody(w, r, "NewGameRequest", &req, false); err != nil {
		s.fail(w, r, err)
		return
	}

	state, err := s.Engine.CreateGame(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// GetGame handles GET /api/game/{gameId}.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	state, err := s.Engine.GetGame(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// DeleteGame handles DELETE /api/game/{gameId}.
func (s *Server) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.DeleteGame(r.Context(), chi.URLParam(r, "gameId")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pitchRequest struct {
	PitchType string `json:"pitch_type"`
}

type batRequest struct {
	Action string `json:"action"`
}

// Pitch handles POST /api/game/{gameId}/pitch.
func (s *Server) Pitch(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	var body pitchRequest
	if err := decodeBody(w, r, "PitchRequest", &body, true); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mutate(w, r, func(ctx context.Context) (*domain.GameState, error) {
		return s.Engine.ProcessPitch(ctx, gameID, domain.PitchType(body.PitchType))
	})
}

// Bat handles POST /api/game/{gameId}/bat.
func (s *Server) Bat(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	var body batRequest
	if err := decodeBody(w, r, "BatRequest", &body, true); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mutate(w, r, func(ctx context.Context) (*domain.GameState, error) {
		return s.Engine.ProcessAtBat(ctx, gameID, domain.BatAction(body.Action))
	})
}

// Simulate handles POST /api/game/{gameId}/simulate.
// The response is the final state with snapshots, plays and ceiling_reached
// added next to the state fields.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")

	res, err := s.Engine.SimulateGame(r.Context(), gameID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := simulationBody(res)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, body)
}

func simulationBody(res *domain.SimulationResult) (map[string]json.RawMessage, error) {
	state, err := json.Marshal(res.State)
	if err != nil {
		return nil, err
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(state, &body); err != nil {
		return nil, err
	}
	snapshots, err := json.Marshal(res.Snapshots)
	if err != nil {
		return nil, err
	}
	body["snapshots"] = snapshots
	body["plays"] = json.RawMessage(strconv.Itoa(res.Plays))
	body["ceiling_reached"] = json.RawMessage(strconv.FormatBool(res.CeilingReached))
	return body, nil
}

// mutate runs one state-changing operation. Its diff reaches subscribers
// through streamChange.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context) (*domain.GameState, error)) {
	state, err := op(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// streamChange broadcasts the diff of one stored change. The engine calls it
// under the game's lock, so every subscriber sees each change exactly once
// and in order.
func (s *Server) streamChange(_ context.Context, before, after *domain.GameState) {
	gameID := after.ID
	if !s.Streams.HasSubscribers(gameID) {
		return
	}
	diff := domain.Diff(before, after)
	if diff == nil {
		s.logger.Debug("no diff to broadcast", "game_id", gameID)
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("failed to encode diff", "game_id", gameID, "err", err)
		return
	}
	s.Streams.Broadcast(gameID, string(payload))
}

// decodeBody reads a JSON body, validates it against a schema of the
// embedded OpenAPI document and decodes it into dst. An empty optional body leaves dst as is.
func decodeBody(w http.ResponseWriter, r *http.Request, schema string, dst any, required bool) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if required {
			return fmt.Errorf("%w: request body is required", errBadRequest)
		}
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	if err := validateSchema(schema, raw); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

type errorBody struct {
	Detail string `json:"detail"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound), errors.Is(err, domain.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidPitchType),
		errors.Is(err, domain.ErrInvalidBatAction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		detail = http.StatusText(status)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "status", status, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorBody{Detail: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
