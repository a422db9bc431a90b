// Command admin manages groups and accounts from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"

	flag "github.com/spf13/pflag"
	"gorm.io/gorm"
)

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  admin create-group --title <title> [--slug <slug>] [--description <text>]")
	fmt.Println("  admin create-user --username <name> --password <password> [--email <email>] [--first-name <name>] [--last-name <name>]")
	fmt.Println("  admin list-groups")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	command, args := os.Args[1], os.Args[2:]

	switch command {
	case "create-group":
		createGroup(ctx, db, args)
	case "create-user":
		createUser(ctx, db, args)
	case "list-groups":
		listGroups(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// reportFieldErrors prints validation messages and exits.
func reportFieldErrors(err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		for field, msgs := range appErr.Fields {
			for _, m := range msgs {
				fmt.Printf("  %s: %s\n", field, m)
			}
		}
		os.Exit(1)
	}
	log.Fatalf("Failed: %v", err)
}

func createGroup(ctx context.Context, db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("create-group", flag.ExitOnError)
	title := fs.String("title", "", "group title")
	slug := fs.String("slug", "", "URL slug")
	description := fs.String("description", "", "group description")
	_ = fs.Parse(args)

	svc := service.NewGroupService(repository.NewGroupRepository(db))
	group, err := svc.Create(ctx, service.GroupInput{Title: *title, Slug: *slug, Description: *description})
	if err != nil {
		reportFieldErrors(err)
	}
	fmt.Printf("✅ Created group %q (ID: %d, slug: %s)\n", group.Title, group.ID, group.SlugValue())
}

func createUser(ctx context.Context, db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	in := service.SignupInput{}
	fs.StringVar(&in.Username, "username", "", "login name")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.FirstName, "first-name", "", "first name")
	fs.StringVar(&in.LastName, "last-name", "", "last name")
	_ = fs.Parse(args)

	svc := service.NewUserService(repository.NewUserRepository(db))
	user, err := svc.Register(ctx, in)
	if err != nil {
		reportFieldErrors(err)
	}
	fmt.Printf("✅ Created user %s (ID: %d)\n", user.Username, user.ID)
}

func listGroups(ctx context.Context, db *gorm.DB) {
	groups, err := service.NewGroupService(repository.NewGroupRepository(db)).List(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch groups: %v", err)
	}
	if len(groups) == 0 {
		fmt.Println("No groups found")
		return
	}

	fmt.Printf("Groups (%d):\n", len(groups))
	for _, g := range groups {
		fmt.Printf("  - %s (ID: %d, slug: %s)\n", g.Title, g.ID, g.SlugValue())
	}
}
