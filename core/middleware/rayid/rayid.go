// Package rayid assigns every request a correlation ID, stored in the
// request locals and echoed in the X-Ray-Id response header. Incoming
// X-Ray-Id headers are honored so upstream proxies can trace through.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName carries the ray id on the wire.
const HeaderName = "X-Ray-Id"

// LocalsKey is where the ray id is stored in the request locals.
const LocalsKey = "ray_id"

// New creates the ray-id middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
