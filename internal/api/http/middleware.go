package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/observability"
	apperrors "github.com/spec-kit/accounts-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and
// logging. The request logger is registered first so it wraps the error
// handler and observes the status that error mapping actually wrote, not the
// default 200 sitting on the response while an error is still in flight.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the only place a raw error may cross into the
// transport layer. Typed DomainErrors keep their status; anything else,
// including panics, collapses into a fixed 500 with the cause logged but
// never returned.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if e, ok := err.(*fiber.Error); ok {
					fiberErr = e
				}

				var status int
				body := fiber.Map{}

				if fiberErr != nil {
					status = fiberErr.Code
					body["reason"] = fiberErr.Message
				} else {
					domainErr := apperrors.ToDomainError(err)
					status = domainErr.HTTPStatus
					body["reason"] = domainErr.Message
					body["code"] = domainErr.Code
					if status >= 500 {
						logger.Error("request failed", zap.Error(domainErr))
					}
					if metrics != nil {
						metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
						if domainErr.Code == "UNAUTHORIZED" || domainErr.Code == "FORBIDDEN" {
							metrics.RecordAuthFlow(observability.FlowGuard, observability.OutcomeRejected)
						}
					}
				}

				c.Status(status)
				_ = c.JSON(body)
				err = nil
			}
		}()
		return c.Next()
	}
}
