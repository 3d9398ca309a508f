package bot

import (
	"strings"

	"github.com/google/uuid"
)

// botIDPrefix marks generated bot user ids so seats can be told apart
// without a registry lookup.
const botIDPrefix = "bot-"

var botNames = []string{
	"Captain Haddock",
	"Marina",
	"Old Pike",
	"Coral",
	"Finn",
	"Nessie",
	"Barnacle Bill",
	"Pearl",
}

// BotIdentity describes a generated bot seat.
type BotIdentity struct {
	UserID      string
	Name        string
	AvatarIndex int
}

// NewIdentity mints a fresh bot identity for a seat index.
func NewIdentity(seat int) BotIdentity {
	return BotIdentity{
		UserID:      botIDPrefix + uuid.NewString(),
		Name:        botNames[seat%len(botNames)],
		AvatarIndex: seat % len(botNames),
	}
}

// IsBot reports whether a user id belongs to a generated bot.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, botIDPrefix)
}
