package whatsapp

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/enviamsg/wa-relay/config"
	domainSend "github.com/enviamsg/wa-relay/domains/send"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// Session owns the whatsmeow client and its sqlite-backed credential store.
// Device credentials persist across restarts; when a stored device exists the
// QR pairing step is skipped entirely.
type Session struct {
	client    *whatsmeow.Client
	container *sqlstore.Container

	mu    sync.RWMutex
	state domainSend.SessionState

	ready     chan struct{}
	readyOnce sync.Once
}

func NewSession() *Session {
	return &Session{
		state: domainSend.StateUninitialized,
		ready: make(chan struct{}),
	}
}

// Init opens the credential store, builds the client and connects. When no
// stored device exists the QR code is rendered to stdout for pairing.
func (s *Session) Init(ctx context.Context) error {
	dbLog := waLog.Stdout("Database", config.WhatsappLogLevel, true)
	container, err := sqlstore.New(ctx, "sqlite3", config.DBURI, dbLog)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	s.container = container

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get device: %w", err)
	}
	if device == nil {
		device = container.NewDevice()
	}

	chromePlatform := waCompanionReg.DeviceProps_CHROME
	osName := config.AppOs
	store.DeviceProps.PlatformType = &chromePlatform
	store.DeviceProps.Os = &osName

	clientLog := waLog.Stdout("Client", config.WhatsappLogLevel, true)
	s.client = whatsmeow.NewClient(device, clientLog)
	s.client.AddEventHandler(s.handleEvent)

	if s.client.Store.ID == nil {
		s.setState(domainSend.StateAwaitingQR)

		// GetQRChannel must be called before Connect
		qrChan, errQR := s.client.GetQRChannel(ctx)
		if errQR != nil {
			return fmt.Errorf("failed to get QR channel: %w", errQR)
		}
		go func() {
			for evt := range qrChan {
				switch evt.Event {
				case "code":
					qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
					logrus.Info("[SESSION] Escanea el código QR con WhatsApp para vincular la sesión")
				case "success":
					logrus.Info("[SESSION] QR pairing completed")
				default:
					logrus.Warnf("[SESSION] QR event: %s", evt.Event)
				}
			}
		}()
		logrus.Info("[SESSION] No stored session, waiting for QR scan...")
	} else {
		logrus.Info("[SESSION] Restoring stored session...")
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	return nil
}

func (s *Session) handleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		s.setState(domainSend.StateReady)
		s.readyOnce.Do(func() { close(s.ready) })
		logrus.Info("[SESSION] WhatsApp client ready")

	case *events.LoggedOut:
		// Not recovered automatically, the process must be restarted
		// and re-paired.
		s.setState(domainSend.StateLoggedOut)
		logrus.Errorf("[SESSION] Logged out by server (reason: %v), re-authentication required", v.Reason)

	case *events.Disconnected:
		logrus.Warn("[SESSION] Disconnected from WhatsApp")
	}
}

func (s *Session) setState(state domainSend.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Session) State() domainSend.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready is closed once the client is connected and authenticated.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Close disconnects the client and closes the credential store.
func (s *Session) Close() {
	if s.client != nil {
		s.client.Disconnect()
	}
	if s.container != nil {
		if err := s.container.Close(); err != nil {
			logrus.Warnf("[SESSION] Failed to close session store: %v", err)
		}
	}
}
