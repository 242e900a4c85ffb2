package entities

import "time"

// User is a Telegram user known to the bot.
type User struct {
	ID           int64 // Telegram user ID
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	CreatedAt    time.Time
}
