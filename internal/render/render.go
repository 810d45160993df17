// Package render turns a handler's render instruction (template name plus
// context mapping) into an HTTP response. Template execution itself belongs
// to the frontend layer; the server only emits the instruction.
package render

import "github.com/gofiber/fiber/v2"

// Renderer consumes a named template and a context mapping.
type Renderer interface {
	Render(c *fiber.Ctx, template string, data fiber.Map) error
}

// JSON is the default Renderer: it serializes the instruction so API clients
// and tests see exactly what a template engine would receive.
type JSON struct{}

// Render writes the instruction as a JSON document.
func (JSON) Render(c *fiber.Ctx, template string, data fiber.Map) error {
	return c.JSON(fiber.Map{
		"template": template,
		"context":  data,
	})
}
