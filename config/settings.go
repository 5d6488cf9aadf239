package config

var (
	AppVersion             = "v1.0.0"
	AppPort                = "3000"
	AppDebug               = false
	AppOs                  = "WaRelay"
	AppBasicAuthCredential []string

	PathUploads  = "uploads"
	PathLogs     = "logs"
	PathStorages = "storages"

	DBURI = "file:storages/whatsapp.db?_foreign_keys=on"

	WhatsappLogLevel                 = "ERROR"
	WhatsappSettingMaxFileSize int64 = 15 * 1024 * 1024
)
