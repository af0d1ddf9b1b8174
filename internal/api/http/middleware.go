package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/observability"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				status, code, message := classify(err)
				metrics.RecordError(c.Path(), c.Method(), code)
				if status >= 500 {
					logger.Error("request failed", zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(fiber.Map{
					"success": false,
					"error":   message,
					"code":    code,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

// classify flattens any error into the wire envelope fields. Routing-level
// *fiber.Error values keep their status; everything else goes through the
// DomainError taxonomy.
func classify(err error) (status int, code, message string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "VALIDATION_FAILED"
		switch {
		case fiberErr.Code >= 500:
			code = "INTERNAL_ERROR"
		case fiberErr.Code == http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case fiberErr.Code == http.StatusForbidden:
			code = "FORBIDDEN"
		case fiberErr.Code == http.StatusNotFound:
			code = "NOT_FOUND"
		}
		return fiberErr.Code, code, fiberErr.Message
	}
	domainErr := apperrors.ToDomainError(err)
	return domainErr.HTTPStatus, domainErr.Code, domainErr.Message
}
