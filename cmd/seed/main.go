// Command seed fills the database with demo users, groups and posts.
package main

import (
	"context"
	"log"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"

	flag "github.com/spf13/pflag"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	groups := flag.Int("groups", 4, "number of groups to create")
	posts := flag.Int("posts", 60, "number of posts to create")
	maxDays := flag.Int("max-days", 90, "spread pub_date over this many past days")
	reset := flag.Bool("clear", false, "delete existing posts, groups and users first")
	dryRun := flag.Bool("dry-run", false, "build the data without writing it")
	fast := flag.Bool("fast", false, "hash passwords with the minimum bcrypt cost")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(db, seed.SeedOptions{
		DryRun:     *dryRun,
		SkipBcrypt: *fast,
		MaxDays:    *maxDays,
	})

	if *reset {
		log.Println("🧹 Clearing existing data...")
		if err := seeder.ClearAll(ctx); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
	}

	log.Println("🌱 Seeding database...")
	summary, err := seeder.Run(ctx, seed.Counts{Users: *users, Groups: *groups, Posts: *posts})
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Printf("✅ Created %d users, %d groups and %d posts", len(summary.Users), len(summary.Groups), summary.Posts)
	for _, g := range summary.Groups {
		log.Printf("   /group/%s/  %s", g.SlugValue(), g.Title)
	}
	if len(summary.Users) > 0 {
		log.Printf("🔑 All seeded users have the password: %s (e.g. %s)", seed.DefaultPassword, summary.Users[0].Username)
	}
}
