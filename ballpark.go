package ballpark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/ballpark/internal/runtime"
	"github.com/aretw0/ballpark/pkg/adapters/memory"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/aretw0/ballpark/pkg/session"
	"github.com/aretw0/ballpark/pkg/stats"
	"github.com/google/uuid"
)

// DefaultGameMessage opens the play log of a game without real teams.
const DefaultGameMessage = "Play Ball! You're the home team."

// Engine is the high-level entry point for the ballpark library.
// It wires the game runtime to a store and an optional data provider and
// serializes every operation on a game ID.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager
	provider ports.DataProvider

	store    ports.GameStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	source   probability.Source
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxPlays int
	newID    func() string

	watchMu     sync.RWMutex
	watchers    map[int]ports.ChangeFunc
	nextWatcher int
}

var _ ports.GameService = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the game store. Defaults to an in-memory store.
func WithStore(store ports.GameStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithProvider sets the source of teams, lineups and pitchers.
// Without one every game is the default game.
func WithProvider(p ports.DataProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithLocker enables distributed locking for replicas sharing one store.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL bounds how long a distributed lock is held per operation.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithSource sets the random source used to draw pitches and outcomes.
func WithSource(src probability.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxPlays overrides the simulation ceiling.
func WithMaxPlays(n int) Option {
	return func(e *Engine) {
		e.maxPlays = n
	}
}

// WithIDGenerator replaces the UUID generator for new game IDs.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// New initializes a ballpark Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.newID == nil {
		eng.newID = uuid.NewString
	}

	outcomeOpts := []probability.Option{}
	if eng.source != nil {
		outcomeOpts = append(outcomeOpts, probability.WithSource(eng.source))
	}
	eng.runtime = runtime.NewEngine(
		runtime.WithOutcomeEngine(probability.NewEngine(outcomeOpts...)),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxPlays(eng.maxPlays),
	)

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithOnChange(eng.notify),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	if eng.lockTTL > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(eng.lockTTL))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng
}

// CreateGame builds and stores a new game.
// Provider failures never fail the call: they degrade the matchup, down to the
// default game without teams.
func (e *Engine) CreateGame(ctx context.Context, req domain.NewGameRequest) (*domain.GameState, error) {
	req = req.Normalize()
	state := domain.NewGameState(e.newID())
	message := DefaultGameMessage

	if req.TeamID != 0 && e.provider != nil {
		msg, err := e.setupMatchup(ctx, state, req)
		if err != nil {
			e.logger.WarnContext(ctx, "matchup unavailable, starting default game",
				"team_id", req.TeamID,
				"err", err,
			)
			state = domain.NewGameState(state.ID)
		} else {
			message = msg
		}
	}

	e.runtime.Start(ctx, state, message)
	if err := e.sessions.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}
	return state, nil
}

// setupMatchup fills teams, lineups and starting pitchers. Only failing to
// resolve the two teams is an error; missing rosters fall back to placeholders.
func (e *Engine) setupMatchup(ctx context.Context, s *domain.GameState, req domain.NewGameRequest) (string, error) {
	home, err := e.provider.Team(ctx, req.TeamID)
	if err != nil {
		return "", fmt.Errorf("home team %d: %w", req.TeamID, err)
	}

	var away domain.Team
	if req.AwayTeamID != 0 && req.AwayTeamID != home.ID {
		away, err = e.provider.Team(ctx, req.AwayTeamID)
		if err != nil {
			e.logger.WarnContext(ctx, "away team unavailable, picking a random opponent",
				"away_team_id", req.AwayTeamID,
				"err", err,
			)
		}
	}
	if away.ID == 0 {
		away, err = e.provider.RandomOpponent(ctx, home.ID)
		if err != nil {
			return "", fmt.Errorf("opponent for team %d: %w", home.ID, err)
		}
	}

	var wg sync.WaitGroup
	wg.Go(func() { s.HomeLineup = e.lineup(ctx, home.ID, req.Season) })
	wg.Go(func() { s.AwayLineup = e.lineup(ctx, away.ID, req.AwaySeason) })
	wg.Go(func() { s.HomePitcher = e.pitcher(ctx, home.ID, req.Season, req.HomePitcherID) })
	wg.Go(func() { s.AwayPitcher = e.pitcher(ctx, away.ID, req.AwaySeason, req.AwayPitcherID) })
	wg.Wait()

	s.HomeTeam, s.HomeAbbreviation = home.Name, home.Abbreviation
	s.AwayTeam, s.AwayAbbreviation = away.Name, away.Abbreviation

	return fmt.Sprintf("Play Ball! You're the %s vs the %s!", home.Name, away.Name), nil
}

func (e *Engine) lineup(ctx context.Context, teamID, season int) []domain.Batter {
	lineup, err := e.provider.Lineup(ctx, teamID, season)
	if err != nil || len(lineup) == 0 {
		e.logger.WarnContext(ctx, "lineup unavailable, using placeholders",
			"team_id", teamID,
			"season", season,
			"err", err,
		)
		return stats.PlaceholderLineup()
	}
	return lineup
}

func (e *Engine) pitcher(ctx context.Context, teamID, season, pitcherID int) *domain.Pitcher {
	p, err := e.provider.StartingPitcher(ctx, teamID, season, pitcherID)
	if err != nil {
		e.logger.WarnContext(ctx, "starting pitcher unavailable, using placeholder",
			"team_id", teamID,
			"season", season,
			"err", err,
		)
		p = domain.PlaceholderPitcher()
	}
	return &p
}

// ProcessPitch applies a pitch thrown by the human player.
func (e *Engine) ProcessPitch(ctx context.Context, gameID string, pitch domain.PitchType) (*domain.GameState, error) {
	pitch, err := domain.ParsePitchType(string(pitch))
	if err != nil {
		return nil, err
	}
	return e.sessions.Update(ctx, gameID, func(ctx context.Context, s *domain.GameState) error {
		_, err := e.runtime.Pitch(ctx, s, pitch)
		return err
	})
}

// ProcessAtBat applies the human player's swing or take.
func (e *Engine) ProcessAtBat(ctx context.Context, gameID string, action domain.BatAction) (*domain.GameState, error) {
	action, err := domain.ParseBatAction(string(action))
	if err != nil {
		return nil, err
	}
	return e.sessions.Update(ctx, gameID, func(ctx context.Context, s *domain.GameState) error {
		_, err := e.runtime.Bat(ctx, s, action)
		return err
	})
}

// SimulateGame auto-plays an active game and stores the result.
// A game stopped by the play ceiling is stored active and can be resumed.
func (e *Engine) SimulateGame(ctx context.Context, gameID string) (*domain.SimulationResult, error) {
	var res *domain.SimulationResult
	_, err := e.sessions.Update(ctx, gameID, func(ctx context.Context, s *domain.GameState) error {
		var err error
		res, err = e.runtime.Simulate(ctx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetGame returns the stored state of a game.
func (e *Engine) GetGame(ctx context.Context, gameID string) (*domain.GameState, error) {
	return e.sessions.Load(ctx, gameID)
}

// DeleteGame removes a game.
func (e *Engine) DeleteGame(ctx context.Context, gameID string) error {
	return e.sessions.Delete(ctx, gameID)
}

// ListGames returns the IDs of stored games.
func (e *Engine) ListGames(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Teams lists the provider's teams.
func (e *Engine) Teams(ctx context.Context) ([]domain.Team, error) {
	if e.provider == nil {
		return nil, errNoProvider
	}
	return e.provider.ListTeams(ctx)
}

// Pitchers lists a team's staff, best ERA first.
func (e *Engine) Pitchers(ctx context.Context, teamID, season int) ([]domain.Pitcher, error) {
	if e.provider == nil {
		return nil, errNoProvider
	}
	if season == 0 {
		season = domain.DefaultSeason
	}
	if _, err := e.provider.Team(ctx, teamID); err != nil {
		return nil, err
	}
	return e.provider.Pitchers(ctx, teamID, season)
}

// OnChange registers fn for every stored change of a game: pitches, at-bats
// and simulations, from any adapter sharing this Engine. fn runs under the
// game's lock, so consecutive calls for one game chain before to after.
func (e *Engine) OnChange(fn ports.ChangeFunc) (remove func()) {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	if e.watchers == nil {
		e.watchers = make(map[int]ports.ChangeFunc)
	}
	id := e.nextWatcher
	e.nextWatcher++
	e.watchers[id] = fn

	return func() {
		e.watchMu.Lock()
		defer e.watchMu.Unlock()
		delete(e.watchers, id)
	}
}

func (e *Engine) notify(ctx context.Context, before, after *domain.GameState) {
	e.watchMu.RLock()
	defer e.watchMu.RUnlock()
	for _, fn := range e.watchers {
		fn(ctx, before, after)
	}
}

// Store returns the underlying game store.
func (e *Engine) Store() ports.GameStore {
	return e.store
}

// Provider returns the configured data provider, or nil.
func (e *Engine) Provider() ports.DataProvider {
	return e.provider
}

var errNoProvider = fmt.Errorf("%w: no data provider configured", domain.ErrProviderUnavailable)
