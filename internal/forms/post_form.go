// Package forms binds and validates untrusted form input for the page flows.
package forms

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// PostForm carries the two user-editable fields of a post. The author never
// comes from the form; handlers set it from the authenticated session.
type PostForm struct {
	Text  string `json:"text" form:"text"`
	Group string `json:"group" form:"group"`

	// Errors holds per-field messages after a failed Validate.
	Errors map[string]string `json:"errors,omitempty" form:"-"`

	groupID *uint
}

// FromPost pre-populates an edit form with a post's current values.
func FromPost(post *models.Post) *PostForm {
	f := &PostForm{Text: post.Text}
	if post.GroupID != nil {
		f.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
		id := *post.GroupID
		f.groupID = &id
	}
	return f
}

// Validate checks the bound fields and resolves the optional group reference
// against the store. It reads but never writes store state. Returns true when
// the form is ready to apply.
func (f *PostForm) Validate(ctx context.Context, groups repository.GroupRepository) bool {
	f.Errors = map[string]string{}
	f.groupID = nil

	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "Text is required"
	}

	if raw := strings.TrimSpace(f.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			f.Errors["group"] = "Select a valid group"
		} else if _, lookupErr := groups.GetByID(ctx, uint(id)); lookupErr != nil {
			f.Errors["group"] = "Select a valid group"
		} else {
			gid := uint(id)
			f.groupID = &gid
		}
	}

	return len(f.Errors) == 0
}

// GroupID returns the resolved group reference, nil when the field was empty.
// Only meaningful after a successful Validate.
func (f *PostForm) GroupID() *uint {
	return f.groupID
}

// Apply copies the validated fields onto a post. Author, identifier and
// creation timestamp are never touched here.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.GroupID = f.groupID
	post.Group = nil
}
