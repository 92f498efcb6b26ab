package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrorHandler renders every failure as {"success": false, "message": ...}. Storage
// failures are logged with their cause and shown to the client as a generic message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			message string
			he      *echo.HTTPError
			verrs   validator.ValidationErrors
		)
		switch {
		case errors.As(err, &he):
			status = he.Code
			message = fmt.Sprint(he.Message)
		case errors.As(err, &verrs):
			status = http.StatusBadRequest
			message = validationMessage(verrs)
		default:
			status = apperrors.StatusOf(err)
			message = apperrors.PublicMessage(err)
		}

		if status >= http.StatusInternalServerError {
			msg := "request error"
			if apperrors.IsStorage(err) {
				msg = "storage failure"
			}
			log.Error(msg,
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"success": false, "message": message})
		}
		if err != nil {
			log.Warn("failed to write error response", zap.Error(err))
		}
	}
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return "Invalid input: " + strings.Join(parts, ", ")
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// getUserIDFromContext returns the id set by the JWT middleware, or 0.
func getUserIDFromContext(c echo.Context) uint {
	id, _ := c.Get(middleware.UserIDKey).(uint)
	return id
}

func requireUserID(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, apperrors.Unauthorized("User not authenticated")
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	return c.Validate(req)
}

func parseUserID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid user ID")
	}
	return uint(id), nil
}

// pageParams reads page and limit. A missing or invalid limit falls back to defaultLimit;
// a limit above maxLimit is clamped to it.
func pageParams(c echo.Context, defaultLimit, maxLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}
