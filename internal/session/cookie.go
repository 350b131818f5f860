package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// CookieName is the name of the session cookie.
const CookieName = "talkmaster_session"

const nonceSize = 24

var (
	// ErrNoSession means the request carries no session cookie.
	ErrNoSession = errors.New("session: no cookie")
	// ErrInvalid means the cookie could not be opened: tampered, sealed with
	// another secret or malformed.
	ErrInvalid = errors.New("session: invalid cookie")
	// ErrExpired means the cookie opened but its lifetime is over.
	ErrExpired = errors.New("session: expired")
)

// payload is what travels inside the sealed cookie.
type payload struct {
	Token     string         `json:"t"`
	Role      model.RoleName `json:"r,omitempty"`
	Resolved  bool           `json:"rr,omitempty"`
	UserID    int64          `json:"uid,omitempty"`
	Name      string         `json:"n,omitempty"`
	Email     string         `json:"e,omitempty"`
	ExpiresAt int64          `json:"exp"`
}

// Codec seals State into an authenticated, encrypted cookie value.
type Codec struct {
	key    [32]byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCodec derives the secretbox key from secret.
func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Codec{key: sha256.Sum256([]byte(secret)), ttl: ttl, secure: secure, now: time.Now}
}

// Seal encodes st. The cookie lifetime is the codec TTL, shortened to the
// token's own expiry when that comes first.
func (k *Codec) Seal(st State) (string, time.Time, error) {
	exp := k.now().Add(k.ttl)
	if !st.Hint.ExpiresAt.IsZero() && st.Hint.ExpiresAt.Before(exp) {
		exp = st.Hint.ExpiresAt
	}
	raw, err := json.Marshal(payload{
		Token:     st.Token,
		Role:      st.Hint.Role,
		Resolved:  st.Hint.Resolved,
		UserID:    st.Identity.UserID,
		Name:      st.Identity.Name,
		Email:     st.Identity.Email,
		ExpiresAt: exp.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: encode: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", time.Time{}, fmt.Errorf("session: nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], raw, &nonce, &k.key)
	return base64.RawURLEncoding.EncodeToString(sealed), exp, nil
}

// Open decodes a cookie value produced by Seal.
func (k *Codec) Open(value string) (State, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(sealed) < nonceSize+secretbox.Overhead {
		return State{}, ErrInvalid
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	raw, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &k.key)
	if !ok {
		return State{}, ErrInvalid
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.Token == "" {
		return State{}, ErrInvalid
	}
	exp := time.Unix(p.ExpiresAt, 0)
	if !k.now().Before(exp) {
		return State{}, ErrExpired
	}

	st := State{
		Token:    p.Token,
		Identity: Identity{UserID: p.UserID, Name: p.Name, Email: p.Email},
	}
	// The token payload is re-read so subject and expiry stay in step with it;
	// the stored role covers tokens that carry none.
	if h, err := DecodeHint(p.Token); err == nil || errors.Is(err, ErrNoRoleClaim) {
		st.Hint = h
	}
	if st.Hint.Role == "" {
		st.Hint.Role = p.Role
		st.Hint.Resolved = p.Resolved
	}
	return st, nil
}

// Read opens the session cookie of the request.
func (k *Codec) Read(c echo.Context) (State, error) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return State{}, ErrNoSession
	}
	return k.Open(ck.Value)
}

// Write seals st into the response cookie.
func (k *Codec) Write(c echo.Context, st State) error {
	value, exp, err := k.Seal(st)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   k.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (k *Codec) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   k.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
