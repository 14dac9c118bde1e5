package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/growthjournal/internal/buildinfo"
	"github.com/dmitrijs2005/growthjournal/internal/flagx"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/server"
	"github.com/dmitrijs2005/growthjournal/internal/server/auth"
	"github.com/dmitrijs2005/growthjournal/internal/server/config"
)

// mintFlags reads -mint <user id> and -family <family id>.
func mintFlags() (userID, familyID string) {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	fs.StringVar(&userID, "mint", "", "print an access token for this user id and exit")
	fs.StringVar(&familyID, "family", "", "family id embedded in the minted token")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-mint", "-family"}))
	return userID, familyID
}

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	cfg := config.LoadConfig()

	if userID, familyID := mintFlags(); userID != "" {
		if cfg.SecretKey == "" {
			log.Fatal("-mint needs a configured secret key")
		}
		tok, err := auth.GenerateToken(auth.Identity{UserID: userID, FamilyID: familyID}, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(tok)
		return
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
