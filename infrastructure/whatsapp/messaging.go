package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

// ResolveRecipient resolves a phone number to a WhatsApp JID. registered is
// false when the server reports no account for the number.
func (s *Session) ResolveRecipient(ctx context.Context, phone string) (string, bool, error) {
	if s.client == nil {
		return "", false, fmt.Errorf("no client")
	}

	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, " ", "")

	resp, err := s.client.IsOnWhatsApp(ctx, []string{phone})
	if err != nil {
		return "", false, fmt.Errorf("failed to check number: %w", err)
	}
	for _, result := range resp {
		if result.IsIn {
			return result.JID.String(), true, nil
		}
	}
	return "", false, nil
}

// SendText dispatches a plain text message.
func (s *Session) SendText(ctx context.Context, recipient, text string) (domainSend.SendResponse, error) {
	if s.client == nil {
		return domainSend.SendResponse{}, fmt.Errorf("no client")
	}

	jid, err := types.ParseJID(recipient)
	if err != nil {
		return domainSend.SendResponse{}, fmt.Errorf("invalid JID: %w", err)
	}

	msg := &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String(text),
		},
	}

	resp, err := s.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return domainSend.SendResponse{}, err
	}

	return domainSend.SendResponse{
		MessageID: resp.ID,
		Timestamp: resp.Timestamp,
	}, nil
}

// SendMedia uploads the envelope payload and dispatches it either as inline
// media or as a document, depending on envelope.AsDocument.
func (s *Session) SendMedia(ctx context.Context, recipient string, envelope domainSend.MediaEnvelope) (domainSend.SendResponse, error) {
	if s.client == nil {
		return domainSend.SendResponse{}, fmt.Errorf("no client")
	}

	jid, err := types.ParseJID(recipient)
	if err != nil {
		return domainSend.SendResponse{}, fmt.Errorf("invalid JID: %w", err)
	}

	mType := mediaTypeFor(envelope)

	uploaded, err := s.client.Upload(ctx, envelope.Data, mType)
	if err != nil {
		return domainSend.SendResponse{}, fmt.Errorf("failed to upload media: %w", err)
	}

	msg := &waE2E.Message{}

	switch mType {
	case whatsmeow.MediaImage:
		msg.ImageMessage = &waE2E.ImageMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(envelope.MimeType),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Caption:       proto.String(envelope.Caption),
			JPEGThumbnail: imageThumbnail(envelope.Data),
		}
	case whatsmeow.MediaVideo:
		msg.VideoMessage = &waE2E.VideoMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(envelope.MimeType),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Caption:       proto.String(envelope.Caption),
		}
	case whatsmeow.MediaAudio:
		msg.AudioMessage = &waE2E.AudioMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(envelope.MimeType),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		}
	default:
		msg.DocumentMessage = &waE2E.DocumentMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			Mimetype:      proto.String(envelope.MimeType),
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Caption:       proto.String(envelope.Caption),
			FileName:      proto.String(envelope.FileName),
		}
	}

	resp, err := s.client.SendMessage(ctx, jid, msg)
	if err != nil {
		return domainSend.SendResponse{}, err
	}

	return domainSend.SendResponse{
		MessageID: resp.ID,
		Timestamp: resp.Timestamp,
	}, nil
}

func mediaTypeFor(envelope domainSend.MediaEnvelope) whatsmeow.MediaType {
	if envelope.AsDocument {
		return whatsmeow.MediaDocument
	}
	switch {
	case strings.HasPrefix(envelope.MimeType, "image/"):
		return whatsmeow.MediaImage
	case strings.HasPrefix(envelope.MimeType, "video/"):
		return whatsmeow.MediaVideo
	case strings.HasPrefix(envelope.MimeType, "audio/"):
		return whatsmeow.MediaAudio
	default:
		return whatsmeow.MediaDocument
	}
}

// imageThumbnail produces a small JPEG preview for image messages. Failures
// are non-fatal, the message is simply sent without a preview.
func imageThumbnail(data []byte) []byte {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logrus.Debugf("[SESSION] Failed to decode image for thumbnail: %v", err)
		return nil
	}
	resized := imaging.Resize(src, 100, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
		logrus.Debugf("[SESSION] Failed to encode thumbnail: %v", err)
		return nil
	}
	return buf.Bytes()
}
