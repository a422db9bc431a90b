// Command migrate runs schema operations for the blog database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"yatube/internal/config"
	"yatube/internal/database"

	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|status>")
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage())
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Println("migrations applied")
	case "status":
		statuses, err := database.SchemaStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		pending := 0
		for _, st := range statuses {
			state := "present"
			if !st.Exists {
				state = "missing"
				pending++
			}
			log.Printf("%-8s table=%-8s %s", st.Model, st.Table, state)
		}
		log.Printf("driver=%s tables=%d missing=%d", cfg.DBDriver, len(statuses), pending)
	default:
		return usage()
	}
	return nil
}
