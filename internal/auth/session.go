package auth

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/bookshop-client/internal/storage"
	"github.com/example/bookshop-client/internal/util"
)

const (
	currentUserKey     = "current_user"
	rememberedEmailKey = "remembered_email"
)

// User is the authenticated user record as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

// UnmarshalJSON tolerates numeric user ids from the backend.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = util.FlexibleID(aux.ID)
	return nil
}

// Session persists the signed-in user and the remembered login email. All
// reads are corruption-tolerant: bad stored data reads as "signed out".
type Session struct {
	store storage.Store
}

func NewSession(store storage.Store) *Session {
	return &Session{store: store}
}

// Save records the signed-in user.
func (s *Session) Save(ctx context.Context, user User) {
	data, err := json.Marshal(user)
	if err != nil {
		log.Printf("[Auth] Failed to encode user record: %v", err)
		return
	}
	if err := s.store.Set(ctx, currentUserKey, data); err != nil {
		log.Printf("[Auth] Failed to persist user record: %v", err)
	}
}

// Current returns the signed-in user, if any. A session token that has
// expired clears the record and reads as signed out.
func (s *Session) Current(ctx context.Context) (User, bool) {
	data, ok, err := s.store.Get(ctx, currentUserKey)
	if err != nil || !ok {
		return User{}, false
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		return User{}, false
	}

	if user.Token != "" && TokenExpired(user.Token) {
		log.Printf("[Auth] Session token expired for %s, signing out", user.Email)
		s.Clear(ctx)
		return User{}, false
	}

	return user, true
}

// Clear signs the user out. The remembered email survives.
func (s *Session) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, currentUserKey); err != nil {
		log.Printf("[Auth] Failed to clear user record: %v", err)
	}
}

// RememberEmail stores the email to prefill the next login form.
func (s *Session) RememberEmail(ctx context.Context, email string) {
	if err := s.store.Set(ctx, rememberedEmailKey, []byte(email)); err != nil {
		log.Printf("[Auth] Failed to remember email: %v", err)
	}
}

// RememberedEmail returns the last remembered login email, if any.
func (s *Session) RememberedEmail(ctx context.Context) string {
	data, ok, err := s.store.Get(ctx, rememberedEmailKey)
	if err != nil || !ok {
		return ""
	}
	return string(data)
}
