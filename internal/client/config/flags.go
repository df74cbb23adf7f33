package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   service address (host:port)
//	-k string   public service key
//	-s string   preferred color scheme, light or dark
//	-o string   export directory
//	-d string   local database path
//	-r int      resubscribe delay in seconds
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-s", "-o", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServiceURL, "a", cfg.ServiceURL, "service address and port")
	fs.StringVar(&cfg.ServiceKey, "k", cfg.ServiceKey, "public service key")
	fs.StringVar(&cfg.PrefersColorScheme, "s", cfg.PrefersColorScheme, "preferred color scheme (light|dark)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	resubscribe := fs.Int("r", int(cfg.ResubscribeDelay.Seconds()), "resubscribe delay (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ResubscribeDelay = time.Duration(*resubscribe) * time.Second
}
