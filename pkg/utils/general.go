package utils

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CreateFolder creates every folder in the list if it does not exist yet.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFile deletes the given paths after an optional delay. Missing files
// are ignored.
func RemoveFile(delaySecond int, paths ...string) {
	if delaySecond > 0 {
		time.Sleep(time.Duration(delaySecond) * time.Second)
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("Failed to remove file %s: %v", path, err)
		}
	}
}

// SanitizePhone strips formatting characters commonly found in phone numbers.
func SanitizePhone(phone *string) {
	if phone == nil {
		return
	}
	replacer := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "")
	*phone = replacer.Replace(strings.TrimSpace(*phone))
}
