package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

// memberIDFromContext extracts the authenticated member id stored by
// the JWT middleware.  JWT numeric claims decode as float64; some
// clients send the subject as a string.
func memberIDFromContext(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// sessionKey builds the filter-store key for one calendar instance.
// The module key keeps several calendars on one page independent; an
// empty key selects the default instance.
func sessionKey(memberID uint64, moduleKey string) string {
	if moduleKey == "" {
		moduleKey = "main"
	}
	return fmt.Sprintf("%d:%s", memberID, moduleKey)
}
