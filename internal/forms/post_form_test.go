package forms

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFormTestDB(t *testing.T) (*gorm.DB, repository.GroupRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}))
	return db, repository.NewGroupRepository(db)
}

func TestPostForm_Validate(t *testing.T) {
	db, groups := setupFormTestDB(t)
	ctx := context.Background()

	group := models.Group{Title: "Rock", Slug: "rock", Description: "Rock music"}
	require.NoError(t, db.Create(&group).Error)

	tests := []struct {
		name          string
		form          PostForm
		expectedOK    bool
		expectedField string
		expectedGroup *uint
	}{
		{
			name:          "Valid text without group",
			form:          PostForm{Text: "hello"},
			expectedOK:    true,
			expectedGroup: nil,
		},
		{
			name:          "Valid text with group",
			form:          PostForm{Text: "hello", Group: "1"},
			expectedOK:    true,
			expectedGroup: &group.ID,
		},
		{
			name:          "Empty text",
			form:          PostForm{Text: ""},
			expectedField: "text",
		},
		{
			name:          "Whitespace-only text",
			form:          PostForm{Text: "   \n\t"},
			expectedField: "text",
		},
		{
			name:          "Unknown group",
			form:          PostForm{Text: "hello", Group: "999"},
			expectedField: "group",
		},
		{
			name:          "Non-numeric group",
			form:          PostForm{Text: "hello", Group: "rock"},
			expectedField: "group",
		},
		{
			name:          "Zero group",
			form:          PostForm{Text: "hello", Group: "0"},
			expectedField: "group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := tt.form.Validate(ctx, groups)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedField != "" {
				assert.Contains(t, tt.form.Errors, tt.expectedField)
			} else {
				assert.Empty(t, tt.form.Errors)
				if tt.expectedGroup == nil {
					assert.Nil(t, tt.form.GroupID())
				} else {
					require.NotNil(t, tt.form.GroupID())
					assert.Equal(t, *tt.expectedGroup, *tt.form.GroupID())
				}
			}
		})
	}
}

func TestPostForm_ValidateDoesNotWrite(t *testing.T) {
	db, groups := setupFormTestDB(t)
	ctx := context.Background()

	form := PostForm{Text: "hello", Group: "42"}
	form.Validate(ctx, groups)

	var posts, groupCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.Zero(t, posts)
	assert.Zero(t, groupCount)
}

func TestPostForm_Apply(t *testing.T) {
	db, groups := setupFormTestDB(t)
	ctx := context.Background()

	group := models.Group{Title: "Jazz", Slug: "jazz"}
	require.NoError(t, db.Create(&group).Error)

	post := models.Post{ID: 7, Text: "old", AuthorID: 3}
	form := PostForm{Text: "new text", Group: "1"}
	require.True(t, form.Validate(ctx, groups))

	form.Apply(&post)
	assert.Equal(t, "new text", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	// identity fields untouched
	assert.Equal(t, uint(7), post.ID)
	assert.Equal(t, uint(3), post.AuthorID)
}

func TestFromPost(t *testing.T) {
	gid := uint(5)
	form := FromPost(&models.Post{Text: "body", GroupID: &gid})
	assert.Equal(t, "body", form.Text)
	assert.Equal(t, "5", form.Group)
	require.NotNil(t, form.GroupID())
	assert.Equal(t, gid, *form.GroupID())
}
