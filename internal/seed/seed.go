// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"

	"yatube/internal/models"
	"yatube/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	span, _ := observability.NewSpan(context.Background(), "seed.run")
	span.AddAttributes(
		attribute.Int("seed.users", opts.NumUsers),
		attribute.Int("seed.groups", opts.NumGroups),
		attribute.Int("seed.posts", opts.NumPosts),
	)
	defer span.End()

	log.Printf("Seeding database: %d users, %d groups, %d posts...",
		opts.NumUsers, opts.NumGroups, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, opts.NumGroups)
	for i := 0; i < opts.NumGroups; i++ {
		group, err := factory.CreateGroup()
		if err != nil {
			return fmt.Errorf("seeding group %d: %w", i, err)
		}
		groups = append(groups, group)
	}

	if len(users) == 0 {
		log.Println("No users seeded, skipping posts")
		return nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[i%len(users)]
		var group *models.Group
		// Roughly two thirds of posts belong to a group.
		if len(groups) > 0 && i%3 != 0 {
			group = groups[i%len(groups)]
		}
		if _, err := factory.CreatePost(author, group); err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}
	}

	log.Println("Seeding complete")
	return nil
}

// clearData removes rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Post{}, &models.Group{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
