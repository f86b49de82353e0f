/*
Package ballpark is a baseball game simulation engine. A human player pitches
while the away team bats and swings or takes while the home team bats; the
engine draws every result from probability tables weighted by real player
statistics.

It follows a hexagonal architecture: the rules of the game (runtime) are
decoupled from storage (memory, file, Redis, PostgreSQL), from the source of
teams and players (MLB Stats API or an offline roster book) and from the
transports driving it (HTTP, MCP, CLI).

# Key Features

  - Outcome tables per pitch type and batter decision, adjusted by batter and pitcher stats.
  - Full state machine: counts, outs, force plays, half-innings, walk-offs and extra innings.
  - CPU-versus-CPU simulation with per-play snapshots and a hard ceiling on plays.
  - Per-game serialization of concurrent requests, optionally across replicas.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/ballpark"
		"github.com/aretw0/ballpark/pkg/adapters/roster"
		"github.com/aretw0/ballpark/pkg/domain"
	)

	func main() {
		provider, err := roster.Sample()
		if err != nil {
			log.Fatal(err)
		}
		eng := ballpark.New(ballpark.WithProvider(provider))

		ctx := context.Background()
		game, err := eng.CreateGame(ctx, domain.NewGameRequest{TeamID: 112})
		if err != nil {
			log.Fatal(err)
		}

		// The away team bats first: the human pitches.
		game, err = eng.ProcessPitch(ctx, game.ID, domain.PitchSlider)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(game.LastPlay)

		// Let the CPU finish the game.
		res, err := eng.SimulateGame(ctx, game.ID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.State.LastPlay)
	}
*/
package ballpark
