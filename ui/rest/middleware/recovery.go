package middleware

import (
	"fmt"

	pkgError "github.com/enviamsg/wa-relay/pkg/error"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				status := fiber.StatusInternalServerError
				message := fmt.Sprintf("%v", err)

				logrus.Errorf("Panic recovered in middleware: %v", err)

				if genericErr, ok := err.(pkgError.GenericError); ok {
					status = genericErr.StatusCode()
					message = genericErr.Error()
				}

				_ = ctx.Status(status).JSON(fiber.Map{"error": message})
			}
		}()

		return ctx.Next()
	}
}
