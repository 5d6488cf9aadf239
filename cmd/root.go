package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/enviamsg/wa-relay/config"
	"github.com/enviamsg/wa-relay/pkg/logging"
	"github.com/enviamsg/wa-relay/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Short: "WhatsApp message relay API",
	Long: `Relays text and media messages to WhatsApp contacts over a simple
HTTP API. The WhatsApp account must be on a multi device version.`,
}

func init() {
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		config.AppPort = envPort
	}
	if envDebug := viper.GetBool("app_debug"); envDebug {
		config.AppDebug = envDebug
	}
	if envOs := viper.GetString("app_os"); envOs != "" {
		config.AppOs = envOs
	}
	envBasicAuth := viper.GetString("app_basic_auth")
	if envBasicAuth == "" {
		envBasicAuth = os.Getenv("APP_BASIC_AUTH")
	}
	if envBasicAuth != "" {
		config.AppBasicAuthCredential = strings.Split(envBasicAuth, ",")
	}

	if envDBURI := viper.GetString("db_uri"); envDBURI != "" {
		config.DBURI = envDBURI
	}

	if envUploads := viper.GetString("path_uploads"); envUploads != "" {
		config.PathUploads = envUploads
	}
	if envLogs := viper.GetString("path_logs"); envLogs != "" {
		config.PathLogs = envLogs
	}
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&config.AppPort,
		"port", "p",
		config.AppPort,
		"change port number with --port <number> | example: --port=8080",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&config.AppDebug,
		"debug", "d",
		config.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)

	rootCmd.PersistentFlags().StringVarP(
		&config.AppOs,
		"os", "",
		config.AppOs,
		`os name --os <string> | example: --os="Chrome"`,
	)

	rootCmd.PersistentFlags().StringSliceVarP(
		&config.AppBasicAuthCredential,
		"basic-auth", "b",
		config.AppBasicAuthCredential,
		"basic auth credential | -b=yourUsername:yourPassword",
	)

	rootCmd.PersistentFlags().StringVarP(
		&config.DBURI,
		"db-uri", "",
		config.DBURI,
		`the database uri to store the session data --db-uri <string> | example: --db-uri="file:storages/whatsapp.db?_foreign_keys=on"`,
	)
}

func initApp() {
	if config.AppDebug {
		config.WhatsappLogLevel = "DEBUG"
	}

	logging.Init(config.AppDebug, config.PathLogs)

	// preparing folders if not exist
	err := utils.CreateFolder(config.PathUploads, config.PathLogs, config.PathStorages)
	if err != nil {
		logrus.Errorln(err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
