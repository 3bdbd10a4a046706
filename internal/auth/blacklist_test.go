package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklist_RevokeAndCheck(t *testing.T) {
	bl := NewTokenBlacklist()

	assert.False(t, bl.IsRevoked("token-a"))

	bl.Revoke("token-a", time.Minute)
	assert.True(t, bl.IsRevoked("token-a"))
	assert.False(t, bl.IsRevoked("token-b"))
}

func TestBlacklist_ExpiredTokenNotStored(t *testing.T) {
	bl := NewTokenBlacklist()

	// Истекший токен и так не пройдет проверку подписи, хранить его незачем
	bl.Revoke("already-expired", 0)
	assert.False(t, bl.IsRevoked("already-expired"))

	bl.Revoke("negative-ttl", -time.Minute)
	assert.False(t, bl.IsRevoked("negative-ttl"))
}

func TestBlacklist_EntryExpires(t *testing.T) {
	bl := NewTokenBlacklist()

	bl.Revoke("short-lived", 50*time.Millisecond)
	assert.True(t, bl.IsRevoked("short-lived"))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, bl.IsRevoked("short-lived"))
}
