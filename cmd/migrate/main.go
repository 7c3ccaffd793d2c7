package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"rpaetl/internal/config"
)

const usage = "Usage: migrate [-source file://db/migrations] up|down|steps N|version|force V"

func main() {
	source := flag.String("source", "file://db/migrations", "migration source URL")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: failed to load config: %v", err)
	}

	m, err := migrate.New(*source, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: failed to create migrate instance: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate: up failed: %v", err)
		}
		log.Println("migrate: executions schema is up to date")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate: down failed: %v", err)
		}
		log.Println("migrate: executions schema reverted")

	case "steps", "force":
		if len(args) < 2 {
			log.Fatalf("migrate: %s requires a number argument", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("migrate: invalid %s argument: %v", args[0], err)
		}
		if args[0] == "force" {
			if err := m.Force(n); err != nil {
				log.Fatalf("migrate: force failed: %v", err)
			}
			log.Printf("migrate: forced version %d", n)
			return
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate: steps failed: %v", err)
		}
		log.Printf("migrate: applied %d migration steps", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("migrate: failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}
