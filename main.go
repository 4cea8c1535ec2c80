/* main.go
 * The "main" method for running the simulator, web server and bot. For details see
 * `readme.md`
 * Usage: go run main.go -tournament="<name>" -round="<round>"
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"worldcup-pickems/api/api"
	"worldcup-pickems/bot"
	"worldcup-pickems/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	//Flags
	tournamentPtr := flag.String("tournament", "WorldCup2026", "Tournament name, e.g. WorldCup2026")
	roundPtr := flag.String("round", "group_stage", "Round of the tournament (group_stage, knockout)")
	dbPtr := flag.String("db", "worldcup", "Name of the mongo database to use")
	addrPtr := flag.String("addr", ":8080", "Listen address for the HTTP server")
	rankingsPtr := flag.String("rankingsUrl", "", "URL of the world rankings feed; leave empty to skip the initial refresh")
	seedPtr := flag.Int64("seed", 0, "Random seed for the simulation engine; 0 picks a time-based seed")
	testPtr := flag.Bool("test", false, "Run against the beta bot token instead of the production one")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	discordToken := os.Getenv("DISCORD_PROD_TOKEN")
	if *testPtr {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	}

	seed := *seedPtr
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	apiPtr, err := api.NewAPI(*dbPtr, os.Getenv("MONGO_PROD_URI"), *tournamentPtr, *roundPtr, seed)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err = apiPtr.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	// Seed the roster and apply the rankings feed when one is configured
	if _, err := apiPtr.EnsureRoster(); err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}
	if *rankingsPtr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := apiPtr.PopulateRankings(ctx, *rankingsPtr); err != nil {
			log.Println("rankings refresh failed:", err)
		}
		cancel()
	}

	// Run the web server alongside the bot
	go func() {
		cfg := web.Config{Addr: *addrPtr, API: apiPtr, RankingsURL: *rankingsPtr}
		if err := web.Start(cfg); err != nil {
			log.Println("web server stopped:", err)
		}
	}()

	//Init bot and run
	b, err := bot.NewBot(discordToken, apiPtr)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	if err := b.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}
