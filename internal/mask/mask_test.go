package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingKey(t *testing.T) {
	assert.Equal(t, "abcd************", PingKey("abcdefghij"))
	assert.Equal(t, "************", PingKey("ab"))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", Email("alice@example.com"))
	assert.Equal(t, "***", Email("not-an-email"))
	assert.Equal(t, "***", Email("@example.com"))
}
