package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/infrastructure/config"
	"github.com/fieldledger/backend/internal/infrastructure/logger"
	"github.com/fieldledger/backend/internal/infrastructure/migration"
)

const usage = `Usage: migrate [flags] <command>

Commands:
  up                 Apply all pending migrations
  down               Roll back the last migration
  steps <n>          Apply n migrations (negative rolls back)
  version            Print the current schema version
  force <version>    Set the schema version without running migrations
`

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "migrations", "Path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := flag.Arg(0)

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("failed to initialize migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if flag.NArg() < 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		var n int
		n, err = strconv.Atoi(flag.Arg(1))
		if err == nil {
			err = migrator.Steps(n)
		}
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = migrator.Version()
		if err == nil {
			fmt.Printf("version: %d dirty: %v\n", v, dirty)
		}
	case "force":
		if flag.NArg() < 2 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		var v int
		v, err = strconv.Atoi(flag.Arg(1))
		if err == nil {
			err = migrator.Force(v)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("done", zap.String("command", command))
}
