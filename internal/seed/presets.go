package seed

import (
	"fmt"
	"os"

	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Preset is a declarative seed fixture loaded from YAML. It creates exactly
// the named entities, unlike the randomized Seed path.
type Preset struct {
	Users []struct {
		Username  string `yaml:"username"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"users"`
	Groups []struct {
		Title       string `yaml:"title"`
		Slug        string `yaml:"slug"`
		Description string `yaml:"description"`
	} `yaml:"groups"`
	Posts []struct {
		Author string `yaml:"author"`
		Group  string `yaml:"group"`
		Text   string `yaml:"text"`
	} `yaml:"posts"`
}

// LoadPreset reads and parses a YAML preset file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	var preset Preset
	if err := yaml.Unmarshal(raw, &preset); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	return &preset, nil
}

// Apply creates the preset's entities. Posts reference users by username and
// groups by slug; an unknown reference is an error.
func (p *Preset) Apply(db *gorm.DB) error {
	usersByName := make(map[string]*models.User, len(p.Users))
	for _, u := range p.Users {
		password := u.Password
		if password == "" {
			password = DefaultPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:  u.Username,
			Email:     u.Email,
			Password:  string(hashed),
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("preset user %q: %w", u.Username, err)
		}
		usersByName[user.Username] = user
	}

	groupsBySlug := make(map[string]*models.Group, len(p.Groups))
	for _, g := range p.Groups {
		group := &models.Group{Title: g.Title, Slug: g.Slug, Description: g.Description}
		if err := db.Create(group).Error; err != nil {
			return fmt.Errorf("preset group %q: %w", g.Slug, err)
		}
		groupsBySlug[group.Slug] = group
	}

	for i, entry := range p.Posts {
		author, ok := usersByName[entry.Author]
		if !ok {
			return fmt.Errorf("preset post %d: unknown author %q", i, entry.Author)
		}
		post := &models.Post{Text: entry.Text, AuthorID: author.ID}
		if entry.Group != "" {
			group, ok := groupsBySlug[entry.Group]
			if !ok {
				return fmt.Errorf("preset post %d: unknown group %q", i, entry.Group)
			}
			post.GroupID = &group.ID
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("preset post %d: %w", i, err)
		}
	}
	return nil
}
