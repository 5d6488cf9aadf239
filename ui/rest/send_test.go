package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/enviamsg/wa-relay/config"
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	"github.com/enviamsg/wa-relay/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	registered   bool
	state        domainSend.SessionState
	lastEnvelope domainSend.MediaEnvelope
	mediaCalls   int
}

func (f *fakeMessenger) ResolveRecipient(_ context.Context, phone string) (string, bool, error) {
	if !f.registered {
		return "", false, nil
	}
	return phone + "@s.whatsapp.net", true, nil
}

func (f *fakeMessenger) SendText(_ context.Context, _, _ string) (domainSend.SendResponse, error) {
	return domainSend.SendResponse{MessageID: "MSG-1", Timestamp: time.Now()}, nil
}

func (f *fakeMessenger) SendMedia(_ context.Context, _ string, envelope domainSend.MediaEnvelope) (domainSend.SendResponse, error) {
	f.mediaCalls++
	f.lastEnvelope = envelope
	return domainSend.SendResponse{MessageID: "MSG-2", Timestamp: time.Now()}, nil
}

func (f *fakeMessenger) State() domainSend.SessionState {
	return f.state
}

func newTestApp(t *testing.T, messenger domainSend.IMessenger) *fiber.App {
	t.Helper()

	origUploads := config.PathUploads
	config.PathUploads = t.TempDir()
	t.Cleanup(func() { config.PathUploads = origUploads })

	app := fiber.New()
	InitRestSend(app, usecase.NewSendService(messenger))
	return app
}

type formFile struct {
	field    string
	fileName string
	mimeType string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *formFile) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.fileName+`"`)
		header.Set("Content-Type", file.mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doRequest(t *testing.T, app *fiber.App, body io.Reader, contentType string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/enviar-mensaje", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestSendMessageText(t *testing.T) {
	app := newTestApp(t, &fakeMessenger{registered: true, state: domainSend.StateReady})

	body, contentType := multipartBody(t, map[string]string{
		"numero":  "5215555555555",
		"mensaje": "hola",
	}, nil)

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "Mensaje de texto enviado con éxito.", decoded["message"])
}

func TestSendMessageMissingNumber(t *testing.T) {
	app := newTestApp(t, &fakeMessenger{registered: true, state: domainSend.StateReady})

	body, contentType := multipartBody(t, map[string]string{
		"mensaje": "hola",
		"extra":   "ignored",
	}, nil)

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decoded["error"], "obligatorio")
}

func TestSendMessageNotRegistered(t *testing.T) {
	app := newTestApp(t, &fakeMessenger{registered: false, state: domainSend.StateReady})

	body, contentType := multipartBody(t, map[string]string{
		"numero":  "5215555555555",
		"mensaje": "hola",
	}, nil)

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "El número no está registrado en WhatsApp.", decoded["error"])
}

func TestSendMessageNoContent(t *testing.T) {
	app := newTestApp(t, &fakeMessenger{registered: true, state: domainSend.StateReady})

	body, contentType := multipartBody(t, map[string]string{
		"numero": "5215555555555",
	}, nil)

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Debes enviar un mensaje o un archivo.", decoded["error"])
}

func TestSendMessageWithDocument(t *testing.T) {
	messenger := &fakeMessenger{registered: true, state: domainSend.StateReady}
	app := newTestApp(t, messenger)

	body, contentType := multipartBody(t, map[string]string{
		"numero":  "5215555555555",
		"mensaje": "adjunto",
	}, &formFile{
		field:    "archivo",
		fileName: "reporte.pdf",
		mimeType: "application/pdf",
		content:  []byte("%PDF-1.4"),
	})

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "Documento enviado con éxito.", decoded["message"])
	assert.Equal(t, 1, messenger.mediaCalls)
	assert.True(t, messenger.lastEnvelope.AsDocument)
	assert.Equal(t, "reporte.pdf", messenger.lastEnvelope.FileName)
}

func TestSendMessageWithImage(t *testing.T) {
	messenger := &fakeMessenger{registered: true, state: domainSend.StateReady}
	app := newTestApp(t, messenger)

	body, contentType := multipartBody(t, map[string]string{
		"numero": "5215555555555",
	}, &formFile{
		field:    "archivo",
		fileName: "foto.png",
		mimeType: "image/png",
		content:  []byte{0x89, 0x50, 0x4E, 0x47},
	})

	status, decoded := doRequest(t, app, body, contentType)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Archivo multimedia enviado con éxito.", decoded["message"])
	assert.False(t, messenger.lastEnvelope.AsDocument)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		state      domainSend.SessionState
		wantStatus int
	}{
		{state: domainSend.StateReady, wantStatus: http.StatusOK},
		{state: domainSend.StateAwaitingQR, wantStatus: http.StatusServiceUnavailable},
		{state: domainSend.StateLoggedOut, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(string(tc.state), func(t *testing.T) {
			app := fiber.New()
			InitRestHealth(app, &fakeMessenger{state: tc.state})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
