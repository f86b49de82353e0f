package ballpark_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/adapters/roster"
	"github.com/aretw0/ballpark/pkg/domain"
)

// ExampleNew shows the default game: no provider, generic lineups.
func ExampleNew() {
	engine := ballpark.New()
	ctx := context.Background()

	game, err := engine.CreateGame(ctx, domain.NewGameRequest{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(game.PlayLog[0])
	fmt.Printf("Inning %d (%s), you are %s\n", game.Inning, game.Half, game.Role)
	// Output:
	// Play Ball! You're the home team.
	// Inning 1 (top), you are pitching
}

// ExampleEngine_CreateGame builds a matchup from the bundled roster book.
// Without pitcher IDs each side starts its best pitcher by ERA.
func ExampleEngine_CreateGame() {
	provider, err := roster.Sample()
	if err != nil {
		log.Fatal(err)
	}
	engine := ballpark.New(ballpark.WithProvider(provider))

	game, err := engine.CreateGame(context.Background(), domain.NewGameRequest{
		TeamID:     112,
		AwayTeamID: 138,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(game.LastPlay)
	fmt.Println("Home starter:", game.HomePitcher.Name)
	fmt.Println("Away starter:", game.AwayPitcher.Name)
	fmt.Println("Lineup size:", len(game.HomeLineup))
	// Output:
	// Play Ball! You're the Chicago Cubs vs the St. Louis Cardinals!
	// Home starter: Zach Kato
	// Away starter: Frank Jensen
	// Lineup size: 9
}

// ExampleEngine_ProcessAtBat shows that acting out of role leaves the game
// untouched and explains why.
func ExampleEngine_ProcessAtBat() {
	engine := ballpark.New()
	ctx := context.Background()

	game, err := engine.CreateGame(ctx, domain.NewGameRequest{})
	if err != nil {
		log.Fatal(err)
	}

	game, err = engine.ProcessAtBat(ctx, game.ID, domain.ActionSwing)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(game.LastPlay)
	fmt.Println("Log entries:", len(game.PlayLog))
	// Output:
	// You're pitching right now, not batting!
	// Log entries: 1
}
