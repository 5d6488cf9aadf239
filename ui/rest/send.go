package rest

import (
	"path/filepath"
	"strings"

	"github.com/enviamsg/wa-relay/config"
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	pkgError "github.com/enviamsg/wa-relay/pkg/error"
	"github.com/enviamsg/wa-relay/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type Send struct {
	Service domainSend.ISendUsecase
}

func InitRestSend(app fiber.Router, service domainSend.ISendUsecase) Send {
	rest := Send{Service: service}
	app.Post("/enviar-mensaje", rest.SendMessage)
	return rest
}

// SendMessage handles POST /enviar-mensaje (multipart/form-data with fields
// numero, mensaje and archivo).
func (controller *Send) SendMessage(c *fiber.Ctx) error {
	request := domainSend.MessageRequest{
		Phone:   c.FormValue("numero"),
		Message: c.FormValue("mensaje"),
	}
	utils.SanitizePhone(&request.Phone)

	if file, err := c.FormFile("archivo"); err == nil && file != nil {
		// Unique name per request so concurrent uploads never collide.
		savedPath := filepath.Join(config.PathUploads, uuid.NewString()+"-"+filepath.Base(file.Filename))
		if errSave := fasthttp.SaveMultipartFile(file, savedPath); errSave != nil {
			logrus.WithError(errSave).Error("[REST] Failed to store uploaded file")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "No se pudo guardar el archivo.",
			})
		}

		request.Attachment = &domainSend.Attachment{
			Path:     savedPath,
			FileName: file.Filename,
			MimeType: strings.TrimSpace(file.Header.Get(fiber.HeaderContentType)),
			Size:     file.Size,
		}
	}

	response, err := controller.Service.Send(c.UserContext(), request)
	if err != nil {
		status := fiber.StatusInternalServerError
		if genericErr, ok := err.(pkgError.GenericError); ok {
			status = genericErr.StatusCode()
		}
		if status >= fiber.StatusInternalServerError {
			logrus.WithField("numero", request.Phone).Errorf("[REST] Dispatch failed: %+v", err)
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": response.Status,
	})
}
