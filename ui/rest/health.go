package rest

import (
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	"github.com/gofiber/fiber/v2"
)

type Health struct {
	Messenger domainSend.IMessenger
}

func InitRestHealth(app fiber.Router, messenger domainSend.IMessenger) Health {
	rest := Health{Messenger: messenger}
	app.Get("/health", rest.Health)
	return rest
}

func (controller *Health) Health(c *fiber.Ctx) error {
	state := controller.Messenger.State()
	status := fiber.StatusOK
	if state != domainSend.StateReady {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": string(state),
	})
}
