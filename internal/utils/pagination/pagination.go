package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const maxLimit = 100

type Pagination struct {
	Skip  int
	Limit int
}

// ParseFromRequest reads skip/limit query parameters from a Fiber context,
// clamping nonsense values instead of rejecting them.
func ParseFromRequest(c *fiber.Ctx) Pagination {
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	return Clamp(skip, limit)
}

// Clamp normalizes raw skip/limit values.
func Clamp(skip, limit int) Pagination {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Skip: skip, Limit: limit}
}
