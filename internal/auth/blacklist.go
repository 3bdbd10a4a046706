package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TokenBlacklist - хранилище отозванных refresh токенов.
// Запись живет ровно столько, сколько осталось жить самому токену,
// после чего вычищается автоматически.
type TokenBlacklist interface {
	Revoke(token string, ttl time.Duration)
	IsRevoked(token string) bool
}

type cacheBlacklist struct {
	cache *gocache.Cache
}

// NewTokenBlacklist создает in-memory blacklist с TTL-вытеснением.
func NewTokenBlacklist() TokenBlacklist {
	return &cacheBlacklist{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (b *cacheBlacklist) Revoke(token string, ttl time.Duration) {
	if ttl <= 0 {
		// Токен уже истек, хранить нечего
		return
	}
	b.cache.Set(token, struct{}{}, ttl)
}

func (b *cacheBlacklist) IsRevoked(token string) bool {
	_, found := b.cache.Get(token)
	return found
}
