package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/flagx"
)

var knownFlags = []string{"-a", "-t", "-u", "-d", "-i", "-l", "-n", "-upload-timeout"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in knownFlags are considered, so -c/-config pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.IntVar(&cfg.SyncConcurrency, "n", cfg.SyncConcurrency, "entity types synced in parallel")
	fs.DurationVar(&cfg.UploadTimeout, "upload-timeout", cfg.UploadTimeout, "timeout of one media upload")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
