package shared

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, Level("error", true))
	assert.Equal(t, zerolog.WarnLevel, Level("warn", false))
	assert.Equal(t, zerolog.InfoLevel, Level("", false))
	assert.Equal(t, zerolog.InfoLevel, Level("loud", false))
}
