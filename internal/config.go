package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	BufferSize        int           `env:"BUFFER_SIZE,default=256"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	IdleMax           time.Duration `env:"IDLE_MAX,default=10m"`
	ProbeInterval     time.Duration `env:"PROBE_INTERVAL,default=60s"`
	JoinTimeout       time.Duration `env:"JOIN_TIMEOUT,default=1s"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
	RoomsPerPage      int           `env:"ROOMS_PER_PAGE,default=6"`

	// Moderation; an empty word list disables it entirely.
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
}

// CensoredList splits the comma-separated censored word list, dropping
// blanks.
func (c Config) CensoredList() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
