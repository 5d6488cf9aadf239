package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/enviamsg/wa-relay/config"
	"github.com/enviamsg/wa-relay/infrastructure/whatsapp"
	pkgError "github.com/enviamsg/wa-relay/pkg/error"
	"github.com/enviamsg/wa-relay/ui/rest"
	"github.com/enviamsg/wa-relay/ui/rest/middleware"
	"github.com/enviamsg/wa-relay/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Send whatsapp messages over http api",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	session := whatsapp.NewSession()
	if err := session.Init(context.Background()); err != nil {
		logrus.Fatalln("Failed to init whatsapp session:", err)
	}

	sendUsecase := usecase.NewSendService(session)

	app := fiber.New(fiber.Config{
		// Leave headroom above the attachment limit so oversized uploads
		// reach the handler and get the proper validation error.
		BodyLimit:             int(config.WhatsappSettingMaxFileSize) * 2,
		Network:               "tcp",
		AppName:               "Wa-Relay " + config.AppVersion,
		DisableStartupMessage: false,
		ErrorHandler:          middleware.ErrorHandler(),
	})

	app.Use(requestid.New())
	app.Use(cors.New())
	app.Use(middleware.Recovery())
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if config.AppDebug {
		app.Use(logger.New())
	}

	if len(config.AppBasicAuthCredential) > 0 {
		account := make(map[string]string)
		for _, credential := range config.AppBasicAuthCredential {
			ba := strings.Split(credential, ":")
			if len(ba) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the following format <user>:<secret>")
			}
			account[ba[0]] = ba[1]
		}
		app.Use(basicauth.New(basicauth.Config{Users: account}))
	}

	rest.InitRestSend(app, sendUsecase)
	rest.InitRestHealth(app, session)

	app.Use(func(c *fiber.Ctx) error {
		notFound := pkgError.NotFoundError("Endpoint not found")
		return c.Status(notFound.StatusCode()).JSON(fiber.Map{
			"error": notFound.Error(),
			"path":  c.Path(),
		})
	})

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		session.Close()
	}()

	// Requests are only accepted once the session is authenticated.
	logrus.Info("[REST] Waiting for the WhatsApp session to be ready...")
	<-session.Ready()

	if err := app.Listen(":" + config.AppPort); err != nil {
		logrus.Fatalln("Failed to start:", err.Error())
	}
}
