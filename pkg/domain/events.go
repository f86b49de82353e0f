package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGameStart  EventType = "game_start"
	EventPlay       EventType = "play"
	EventHalfInning EventType = "half_inning"
	EventGameEnd    EventType = "game_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	GameID    string    `json:"game_id"`
}

// PlayEvent describes one pitch and its result.
type PlayEvent struct {
	EventBase
	Inning  int       `json:"inning"`
	Half    Half      `json:"half"`
	Pitch   PitchType `json:"pitch,omitempty"`
	Swung   bool      `json:"swung"`
	Outcome Outcome   `json:"outcome"`
	Runs    int       `json:"runs,omitempty"`
}

// InningEvent is fired when play moves to a new half-inning.
type InningEvent struct {
	EventBase
	Inning int  `json:"inning"`
	Half   Half `json:"half"`
}

// GameEvent is fired when a game starts or ends.
type GameEvent struct {
	EventBase
	HomeTeam  string `json:"home_team,omitempty"`
	AwayTeam  string `json:"away_team,omitempty"`
	HomeTotal int    `json:"home_total"`
	AwayTotal int    `json:"away_total"`
	Innings   int    `json:"innings"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnGameStart  func(context.Context, *GameEvent)
	OnPlay       func(context.Context, *PlayEvent)
	OnHalfInning func(context.Context, *InningEvent)
	OnGameEnd    func(context.Context, *GameEvent)
}
