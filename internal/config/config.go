package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	GatewayURL   string
	GatewayToken string

	GoogleCredentialsFile string
	CalendarID            string
	SpreadsheetID         string

	ReminderChannelID string
	AllowedGroupIDs   []string
	TagAllUserIDs     []string

	StickerDir   string
	DataDir      string
	DatabasePath string

	QuoteTime string
	Timezone  string
}

func Load() *Config {
	return &Config{
		GatewayURL:            getEnv("WA_GATEWAY_URL", "ws://localhost:8080/ws"),
		GatewayToken:          getEnv("WA_GATEWAY_TOKEN", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "./service-account.json"),
		CalendarID:            getEnv("GOOGLE_CALENDAR_ID", ""),
		SpreadsheetID:         getEnv("GOOGLE_SPREADSHEET_ID", ""),
		ReminderChannelID:     getEnv("REMINDER_CHANNEL_ID", ""),
		AllowedGroupIDs:       getEnvList("ALLOWED_GROUP_IDS"),
		TagAllUserIDs:         getEnvList("TAG_ALL_USER_IDS"),
		StickerDir:            getEnv("STICKER_DIR", "./stickers"),
		DataDir:               getEnv("DATA_DIR", "./data"),
		DatabasePath:          getEnv("DATABASE_PATH", "./quotes.db"),
		QuoteTime:             getEnv("QUOTE_TIME", "07:00"),
		Timezone:              getEnv("TIMEZONE", "Asia/Jakarta"),
	}
}

// Location resolves the configured timezone. All date arithmetic in the
// bot happens in this single zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
