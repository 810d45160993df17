package seed

import (
	"os"
	"path/filepath"
	"testing"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumGroups: 2, NumPosts: 9}))

	var users, groups, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(2), groups)
	assert.Equal(t, int64(9), posts)

	// Every post resolves to a seeded author.
	var orphan int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("author_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Count(&orphan).Error)
	assert.Zero(t, orphan)
}

func TestSeedWithoutUsersSkipsPosts(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 0, NumPosts: 5}))

	var posts int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)
}

func TestSeedClean(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db)
	user, err := factory.CreateUser()
	require.NoError(t, err)
	_, err = factory.CreatePost(user, nil)
	require.NoError(t, err)

	require.NoError(t, Seed(db, Options{NumUsers: 1, ShouldClean: true}))

	var users int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users, "clean removes pre-existing rows")
}

func TestPreset(t *testing.T) {
	db := setupSeedDB(t)

	raw := `
users:
  - username: sarah
    email: sarah@example.com
groups:
  - title: Cats
    slug: cats
posts:
  - author: sarah
    group: cats
    text: hello
  - author: sarah
    text: ungrouped
`
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	preset, err := LoadPreset(path)
	require.NoError(t, err)
	require.NoError(t, preset.Apply(db))

	var post models.Post
	require.NoError(t, db.Preload("Author").Preload("Group").
		Where("text = ?", "hello").First(&post).Error)
	assert.Equal(t, "sarah", post.Author.Username)
	require.NotNil(t, post.Group)
	assert.Equal(t, "cats", post.Group.Slug)

	var ungrouped models.Post
	require.NoError(t, db.Where("text = ?", "ungrouped").First(&ungrouped).Error)
	assert.Nil(t, ungrouped.GroupID)
}

func TestPresetUnknownReferences(t *testing.T) {
	db := setupSeedDB(t)

	raw := "posts:\n  - author: ghost\n    text: boo\n"
	path := filepath.Join(t.TempDir(), "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	preset, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Error(t, preset.Apply(db))
}
