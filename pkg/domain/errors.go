package domain

import "errors"

// ErrGameNotFound is returned when a game ID cannot be found in the store.
var ErrGameNotFound = errors.New("game not found")

// ErrInvalidPitchType is returned for pitch types outside fastball, curveball, slider and changeup.
var ErrInvalidPitchType = errors.New("invalid pitch type")

// ErrInvalidBatAction is returned for batter actions other than swing and take.
var ErrInvalidBatAction = errors.New("invalid bat action")

// ErrGameOver is returned when an outcome is applied to a game that is already final.
var ErrGameOver = errors.New("game is over")

// ErrInvalidState is returned when a game violates one of its invariants.
var ErrInvalidState = errors.New("invalid game state")

// ErrTeamNotFound is returned by data providers for unknown team IDs.
var ErrTeamNotFound = errors.New("team not found")

// ErrProviderUnavailable wraps failures of the external roster and stats source.
var ErrProviderUnavailable = errors.New("data provider unavailable")
