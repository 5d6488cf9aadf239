package send

import (
	"context"
	"time"
)

// SessionState is the explicit lifecycle of the WhatsApp session. The REST
// listener is only started once the session reports StateReady.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateAwaitingQR    SessionState = "awaiting_qr"
	StateReady         SessionState = "ready"
	StateLoggedOut     SessionState = "logged_out"
)

// Attachment describes an uploaded file already persisted to local disk.
type Attachment struct {
	Path     string
	FileName string
	MimeType string
	Size     int64
}

// MessageRequest is the parsed, strictly-typed form of an inbound
// /enviar-mensaje request.
type MessageRequest struct {
	Phone      string
	Message    string
	Attachment *Attachment
}

// MediaEnvelope combines the payload, MIME type and filename of an
// attachment for transmission. AsDocument controls whether the recipient
// renders it as a downloadable file instead of inline media.
type MediaEnvelope struct {
	Data       []byte
	MimeType   string
	FileName   string
	Caption    string
	AsDocument bool
}

type SendResponse struct {
	MessageID string
	Timestamp time.Time
}

type GenericResponse struct {
	MessageID string
	Status    string
}

// IMessenger abstracts the authenticated WhatsApp session injected into the
// send usecase.
type IMessenger interface {
	// ResolveRecipient resolves a phone number to a chat identity.
	// registered is false when the number has no WhatsApp account.
	ResolveRecipient(ctx context.Context, phone string) (recipient string, registered bool, err error)
	SendText(ctx context.Context, recipient, text string) (SendResponse, error)
	SendMedia(ctx context.Context, recipient string, envelope MediaEnvelope) (SendResponse, error)
	State() SessionState
}

type ISendUsecase interface {
	Send(ctx context.Context, request MessageRequest) (GenericResponse, error)
}
