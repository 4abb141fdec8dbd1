package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/accounts-service/internal/service"
)

// respond is the single place translating a service Result into a transport
// status code and body. Successes wrap their payload in "data"; failures
// expose a reason from the message catalog and, when set, an error code.
func respond(c *fiber.Ctx, result *service.Result) error {
	if result.IsFailure() {
		body := fiber.Map{"reason": result.Reason}
		if result.ErrorCode != "" {
			body["code"] = result.ErrorCode
		}
		return c.Status(result.StatusCode).JSON(body)
	}
	return c.Status(result.StatusCode).JSON(fiber.Map{"data": result.Payload})
}
