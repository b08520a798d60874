package auth

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/bookshop-client/internal/storage"
)

// CredentialCache lets a previously signed-in user back in while the backend
// is unreachable. Only a bcrypt hash of the password is stored, alongside the
// last user record the backend returned. Opt-in via configuration.
type CredentialCache struct {
	store storage.Store
}

type cachedCredential struct {
	Hash []byte `json:"hash"`
	User User   `json:"user"`
}

func NewCredentialCache(store storage.Store) *CredentialCache {
	return &CredentialCache{store: store}
}

func credentialKey(email string) string {
	return "offline_login_" + strings.ToLower(strings.TrimSpace(email))
}

// Remember caches the credential after a successful remote login.
func (c *CredentialCache) Remember(ctx context.Context, email, password string, user User) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Auth] Failed to hash credential for offline cache: %v", err)
		return
	}
	data, err := json.Marshal(cachedCredential{Hash: hash, User: user})
	if err != nil {
		log.Printf("[Auth] Failed to encode cached credential: %v", err)
		return
	}
	if err := c.store.Set(ctx, credentialKey(email), data); err != nil {
		log.Printf("[Auth] Failed to persist cached credential: %v", err)
	}
}

// Verify checks a password against the cache and returns the cached user
// record on a match. Absent or corrupt cache entries simply do not match.
func (c *CredentialCache) Verify(ctx context.Context, email, password string) (User, bool) {
	data, ok, err := c.store.Get(ctx, credentialKey(email))
	if err != nil || !ok {
		return User{}, false
	}

	var cached cachedCredential
	if err := json.Unmarshal(data, &cached); err != nil {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword(cached.Hash, []byte(password)) != nil {
		return User{}, false
	}
	return cached.User, true
}

// Forget drops the cached credential, used on explicit logout.
func (c *CredentialCache) Forget(ctx context.Context, email string) {
	if err := c.store.Delete(ctx, credentialKey(email)); err != nil {
		log.Printf("[Auth] Failed to drop cached credential: %v", err)
	}
}
