/*
Package ports defines the driven ports (interfaces) of the ballpark engine.

These interfaces decouple the game core from its collaborators, so the same
engine runs against memory, file, Redis or PostgreSQL storage and against a
live stats API or an offline roster book.

# Key Interfaces

  - GameStore: Persists and loads GameState by game ID.
  - DistributedLocker: Serializes access to one game across replicas.
  - DataProvider: Supplies teams, lineups and pitchers with their stats.
  - GameService: The operations transports (HTTP, MCP, CLI) drive.
*/
package ports
