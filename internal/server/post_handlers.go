package server

import (
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// renderPostForm renders the shared create/edit form template.
func (s *Server) renderPostForm(c *fiber.Ctx, form *forms.PostForm, post *models.Post) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	data := fiber.Map{
		"form":    form,
		"groups":  groups,
		"is_edit": post != nil,
	}
	if post != nil {
		data["post"] = post
	}
	return s.views.Render(c, "posts/new.html", data)
}

// NewPost handles GET /new/
// @Summary New post form
// @Description Blank create-post form
// @Tags posts
// @Produce json
// @Success 200 {object} object{template=string,context=object}
// @Success 302
// @Router /new/ [get]
func (s *Server) NewPost(c *fiber.Ctx) error {
	return s.renderPostForm(c, &forms.PostForm{}, nil)
}

// CreatePost handles POST /new/
// @Summary Create post
// @Description Validate the submitted form and publish a new post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{text=string,group=string} true "Post form"
// @Success 302
// @Success 200 {object} object{template=string,context=object} "Form re-rendered with errors"
// @Failure 401 {object} models.ErrorResponse
// @Router /new/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var form forms.PostForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// An invalid submission re-renders the form with errors. Nothing is saved.
	if !form.Validate(c.Context(), s.groupRepo) {
		return s.renderPostForm(c, &form, nil)
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: userID,
		GroupID:  form.GroupID(),
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.PostsCreated.Inc()
	return c.Redirect("/", fiber.StatusFound)
}

// editTarget resolves the post addressed by /:username/:postID/edit/ and
// enforces ownership. On any failure it writes the response itself and
// returns errResponseWritten.
func (s *Server) editTarget(c *fiber.Ctx) (*models.Post, error) {
	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		if werr := respondLookupError(c, err); werr != nil {
			return nil, werr
		}
		return nil, errResponseWritten
	}

	postID, err := s.parsePostID(c)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByIDForAuthor(c.Context(), postID, author.ID)
	if err != nil {
		if werr := respondLookupError(c, err); werr != nil {
			return nil, werr
		}
		return nil, errResponseWritten
	}

	// Only the author may edit; everyone else is sent to the post page.
	userID, ok := currentUserID(c)
	if !ok || userID != post.AuthorID {
		if rerr := c.Redirect(postDetailPath(author.Username, post.ID), fiber.StatusFound); rerr != nil {
			return nil, rerr
		}
		return nil, errResponseWritten
	}

	return post, nil
}

// EditPost handles GET /:username/:postID/edit/
// @Summary Edit post form
// @Description Edit form pre-filled with the post's current content
// @Tags posts
// @Produce json
// @Param username path string true "Author username"
// @Param postID path int true "Post ID"
// @Success 200 {object} object{template=string,context=object}
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /{username}/{postID}/edit/ [get]
func (s *Server) EditPost(c *fiber.Ctx) error {
	post, err := s.editTarget(c)
	if err != nil {
		if err == errResponseWritten {
			return nil
		}
		return err
	}

	return s.renderPostForm(c, forms.FromPost(post), post)
}

// UpdatePost handles POST /:username/:postID/edit/
// @Summary Update post
// @Description Validate the submitted form and save the post's new content
// @Tags posts
// @Accept json
// @Produce json
// @Param username path string true "Author username"
// @Param postID path int true "Post ID"
// @Param request body object{text=string,group=string} true "Post form"
// @Success 302
// @Success 200 {object} object{template=string,context=object} "Form re-rendered with errors"
// @Failure 404 {object} models.ErrorResponse
// @Router /{username}/{postID}/edit/ [post]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	post, err := s.editTarget(c)
	if err != nil {
		if err == errResponseWritten {
			return nil
		}
		return err
	}

	var form forms.PostForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !form.Validate(c.Context(), s.groupRepo) {
		return s.renderPostForm(c, &form, post)
	}

	form.Apply(post)
	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.PostsEdited.Inc()
	return c.Redirect(postDetailPath(c.Params("username"), post.ID), fiber.StatusFound)
}
