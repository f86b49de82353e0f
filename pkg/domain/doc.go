/*
Package domain contains the core domain models for the Ballpark engine.

It defines the state of a single baseball game, the closed sets of pitch types,
batter actions and pitch outcomes, and the player records supplied by data
providers. This package is kept pure and free of external dependencies like
I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - GameState: The full, persisted state of one game (count, outs, bases, score, lineups).
  - Outcome: The result of a single pitch, classified into BALL, STRIKE, FOUL, OUT and HIT groups.
  - Batter / Pitcher: Read-only player records with their performance stats.
  - Snapshot: A lightweight copy of the mutable fields of a GameState, without lineups.
  - LifecycleHooks: Callbacks fired by the runtime for observability.
*/
package domain
