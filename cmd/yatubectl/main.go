// Command yatubectl groups operational tasks: schema migration and data seeding.
package main

import (
	"fmt"
	"log"
	"os"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Operational tasks for the Yatube backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func connect() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			log.Println("Migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		numUsers  int
		numGroups int
		numPosts  int
		clean     bool
		preset    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		Long: "Populate the database with randomized demo data, or with the exact\n" +
			"entities from a YAML preset file when --preset is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}

			if preset != "" {
				p, err := seed.LoadPreset(preset)
				if err != nil {
					return err
				}
				return p.Apply(db)
			}

			return seed.Seed(db, seed.Options{
				NumUsers:    numUsers,
				NumGroups:   numGroups,
				NumPosts:    numPosts,
				ShouldClean: clean,
			})
		},
	}

	cmd.Flags().IntVar(&numUsers, "users", 10, "number of users to create")
	cmd.Flags().IntVar(&numGroups, "groups", 5, "number of groups to create")
	cmd.Flags().IntVar(&numPosts, "posts", 100, "number of posts to create")
	cmd.Flags().BoolVar(&clean, "clean", false, "clear existing data first")
	cmd.Flags().StringVar(&preset, "preset", "", "path to a YAML preset file")
	return cmd
}
