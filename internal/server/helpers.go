package server

import (
	"errors"
	"fmt"
	"strconv"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the HTTP response.
// Handlers treat it as a normal return.
var errResponseWritten = errors.New("response written")

// currentUserID returns the authenticated user ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// parsePostID parses the postID path parameter. A malformed value behaves
// like a missing post.
func (s *Server) parsePostID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("postID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		if werr := models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("post", raw)); werr != nil {
			return 0, werr
		}
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondLookupError maps a repository error to the right HTTP response.
func respondLookupError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
		return models.RespondWithError(c, fiber.StatusNotFound, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// postDetailPath builds the canonical page path for a post.
func postDetailPath(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}
