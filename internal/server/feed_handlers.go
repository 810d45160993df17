package server

import (
	"yatube/internal/models"
	"yatube/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// feedPage resolves a paginated window over a feed and loads its posts.
func (s *Server) feedPage(c *fiber.Ctx, count func() (int, error),
	list func(limit, offset int) ([]*models.Post, error)) (pagination.Page, []*models.Post, error) {
	total, err := count()
	if err != nil {
		return pagination.Page{}, nil, err
	}

	page := s.paginator.Page(total, c.Query("page"))
	posts, err := list(page.Limit, page.Offset)
	if err != nil {
		return pagination.Page{}, nil, err
	}
	return page, posts, nil
}

// Home handles GET /
// @Summary Main feed
// @Description Newest-first page over all posts
// @Tags feeds
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} object{template=string,context=object}
// @Router / [get]
func (s *Server) Home(c *fiber.Ctx) error {
	page, posts, err := s.feedPage(c,
		func() (int, error) { return s.postRepo.Count(c.Context()) },
		func(limit, offset int) ([]*models.Post, error) {
			return s.postRepo.List(c.Context(), limit, offset)
		})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.views.Render(c, "misc/index.html", fiber.Map{
		"page":      posts,
		"paginator": page,
	})
}

// GroupFeed handles GET /group/:slug/
// @Summary Group feed
// @Description Newest-first page over the posts of one group
// @Tags feeds
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} object{template=string,context=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /group/{slug}/ [get]
func (s *Server) GroupFeed(c *fiber.Ctx) error {
	group, err := s.groupRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondLookupError(c, err)
	}

	page, posts, err := s.feedPage(c,
		func() (int, error) { return s.postRepo.CountByGroup(c.Context(), group.ID) },
		func(limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByGroup(c.Context(), group.ID, limit, offset)
		})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.views.Render(c, "posts/group.html", fiber.Map{
		"group":     group,
		"page":      posts,
		"paginator": page,
	})
}

// Profile handles GET /:username/
// @Summary Author profile
// @Description Author info plus a newest-first page of their posts
// @Tags feeds
// @Produce json
// @Param username path string true "Author username"
// @Param page query int false "Page number"
// @Success 200 {object} object{template=string,context=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /{username}/ [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondLookupError(c, err)
	}

	total, err := s.postRepo.CountByAuthor(c.Context(), author.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	page := s.paginator.Page(total, c.Query("page"))
	posts, err := s.postRepo.ListByAuthor(c.Context(), author.ID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	data := fiber.Map{
		"author":          author,
		"number_of_posts": total,
		"page":            posts,
		"paginator":       page,
	}

	// An author with no posts has no latest post to show.
	if total > 0 {
		latest, lerr := s.postRepo.LatestByAuthor(c.Context(), author.ID)
		if lerr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(lerr))
		}
		data["latest_post"] = latest
	}

	return s.views.Render(c, "misc/profile.html", data)
}

// PostDetail handles GET /:username/:postID/
// @Summary Post page
// @Description A single post with its author's stats
// @Tags feeds
// @Produce json
// @Param username path string true "Author username"
// @Param postID path int true "Post ID"
// @Success 200 {object} object{template=string,context=object}
// @Failure 404 {object} models.ErrorResponse
// @Router /{username}/{postID}/ [get]
func (s *Server) PostDetail(c *fiber.Ctx) error {
	author, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondLookupError(c, err)
	}

	postID, err := s.parsePostID(c)
	if err != nil {
		if err == errResponseWritten {
			return nil
		}
		return err
	}

	post, err := s.postRepo.GetByIDForAuthor(c.Context(), postID, author.ID)
	if err != nil {
		return respondLookupError(c, err)
	}

	total, err := s.postRepo.CountByAuthor(c.Context(), author.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return s.views.Render(c, "posts/post.html", fiber.Map{
		"post":            post,
		"author":          author,
		"number_of_posts": total,
	})
}
