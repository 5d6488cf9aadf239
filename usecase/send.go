package usecase

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/enviamsg/wa-relay/config"
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	pkgError "github.com/enviamsg/wa-relay/pkg/error"
	pkgUtils "github.com/enviamsg/wa-relay/pkg/utils"
	"github.com/enviamsg/wa-relay/validations"
	"github.com/sirupsen/logrus"
)

type serviceSend struct {
	messenger domainSend.IMessenger
}

func NewSendService(messenger domainSend.IMessenger) domainSend.ISendUsecase {
	return &serviceSend{messenger: messenger}
}

// Send validates the request, resolves the phone number and dispatches the
// message either as plain text or as a media envelope. The uploaded file is
// removed from disk once the request is finished, on every path.
func (service serviceSend) Send(ctx context.Context, request domainSend.MessageRequest) (response domainSend.GenericResponse, err error) {
	if request.Attachment != nil {
		defer pkgUtils.RemoveFile(0, request.Attachment.Path)
	}

	err = validations.ValidateSendMessage(ctx, request)
	if err != nil {
		return response, err
	}

	recipient, registered, err := service.messenger.ResolveRecipient(ctx, request.Phone)
	if err != nil {
		return response, pkgError.InternalServerError(fmt.Sprintf("no se pudo verificar el número: %v", err))
	}
	if !registered {
		return response, pkgError.NotRegisteredError("El número no está registrado en WhatsApp.")
	}

	if request.Attachment == nil {
		if strings.TrimSpace(request.Message) == "" {
			return response, pkgError.ValidationError("Debes enviar un mensaje o un archivo.")
		}

		resp, errSend := service.messenger.SendText(ctx, recipient, request.Message)
		if errSend != nil {
			return response, errSend
		}

		logrus.WithFields(logrus.Fields{
			"message_id": resp.MessageID,
			"recipient":  recipient,
		}).Info("[SEND] Text message sent")

		response.MessageID = resp.MessageID
		response.Status = "Mensaje de texto enviado con éxito."
		return response, nil
	}

	attachment := request.Attachment
	if attachment.Size > config.WhatsappSettingMaxFileSize {
		logrus.WithFields(logrus.Fields{
			"size":  humanize.Bytes(uint64(attachment.Size)),
			"limit": humanize.Bytes(uint64(config.WhatsappSettingMaxFileSize)),
		}).Warn("[SEND] Attachment rejected by size limit")
		return response, pkgError.ValidationError("El archivo supera el tamaño máximo permitido de 15MB.")
	}

	data, err := os.ReadFile(attachment.Path)
	if err != nil {
		return response, pkgError.InternalServerError(fmt.Sprintf("no se pudo leer el archivo: %v", err))
	}

	mimeType := resolveMIME(attachment, data)

	envelope := domainSend.MediaEnvelope{
		Data:       data,
		MimeType:   mimeType,
		FileName:   attachment.FileName,
		Caption:    request.Message,
		AsDocument: sendAsDocument(mimeType),
	}

	resp, err := service.messenger.SendMedia(ctx, recipient, envelope)
	if err != nil {
		return response, err
	}

	logrus.WithFields(logrus.Fields{
		"message_id": resp.MessageID,
		"recipient":  recipient,
		"mime_type":  mimeType,
		"document":   envelope.AsDocument,
	}).Info("[SEND] Media message sent")

	response.MessageID = resp.MessageID
	if envelope.AsDocument {
		response.Status = "Documento enviado con éxito."
	} else {
		response.Status = "Archivo multimedia enviado con éxito."
	}
	return response, nil
}

// resolveMIME prefers the MIME type declared by the upload, then the file
// extension, then content sniffing.
func resolveMIME(attachment *domainSend.Attachment, data []byte) string {
	declared := strings.TrimSpace(attachment.MimeType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	extension := strings.ToLower(filepath.Ext(attachment.FileName))
	if extension != "" {
		if mimeType := mime.TypeByExtension(extension); mimeType != "" {
			return mimeType
		}
	}

	return http.DetectContentType(data)
}

// sendAsDocument implements the classification policy: images, video and
// audio go out as inline media, everything else (PDFs included) as a
// downloadable document.
func sendAsDocument(mimeType string) bool {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return false
	case strings.HasPrefix(mimeType, "video/"):
		return false
	case strings.HasPrefix(mimeType, "audio/"):
		return false
	default:
		return true
	}
}
