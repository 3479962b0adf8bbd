package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenStore keeps one API token per user. Creating a token replaces the
// previous one, so a new login ends the user's other session.
type TokenStore interface {
	Create(ctx context.Context, userID string) (string, error)
	// Will return true if token is the user's current, unexpired token.
	Validate(ctx context.Context, userID string, token string) (bool, error)
	Revoke(ctx context.Context, userID string) error
}

// Generate a random hex string of the given length.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("cannot generate a token with length of: %v", length)
	}

	bytes := make([]byte, length/2)

	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate token error: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// The credential cookie holds the user ID and the token split by a colon.
func CookieValue(userID string, token string) string {
	return userID + ":" + token
}

// Extract the id and token split by a colon.
func ParseCookieValue(value string) (id string, token string) {
	index := strings.Index(value, ":")

	if index != -1 {
		id = value[:index]
		token = value[index+1:]
	}

	return
}

// RedisTokenStore stores tokens in Redis with an expiry of API_TOKEN_TTL.
type RedisTokenStore struct {
	rdb *redis.Client
}

func CreateRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Will generate an API token and store it in Redis.
func (s *RedisTokenStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := GenerateToken(API_TOKEN_LEN)
	if err != nil {
		return "", fmt.Errorf("create api token error: %w", err)
	}

	if err := s.rdb.SetEX(ctx, sessionKey(userID), token, API_TOKEN_TTL).Err(); err != nil {
		return "", fmt.Errorf("create api token error: %w", err)
	}

	return token, nil
}

func (s *RedisTokenStore) Validate(ctx context.Context, userID string, token string) (bool, error) {
	if userID == "" || token == "" {
		return false, nil
	}

	val, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("validate api token error: %w", err)
	}

	return val == token, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

// MemoryTokenStore keeps tokens in process memory. Tokens do not survive a restart.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
	now    func() time.Time
}

type memoryToken struct {
	token   string
	expires time.Time
}

func CreateMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken), now: time.Now}
}

func (s *MemoryTokenStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := GenerateToken(API_TOKEN_LEN)
	if err != nil {
		return "", fmt.Errorf("create api token error: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[userID] = memoryToken{token: token, expires: s.now().Add(API_TOKEN_TTL)}

	return token, nil
}

func (s *MemoryTokenStore) Validate(ctx context.Context, userID string, token string) (bool, error) {
	if userID == "" || token == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tokens[userID]
	if !ok {
		return false, nil
	}

	if !s.now().Before(stored.expires) {
		delete(s.tokens, userID)
		return false, nil
	}

	return stored.token == token, nil
}

func (s *MemoryTokenStore) Revoke(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)

	return nil
}
