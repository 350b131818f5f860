package view

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const flashCookie = "talkmaster_flash"

// Flash kinds, matching the banner palette.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot banner. Target names the table or form it belongs
// above (e.g. "talks", "rooms"); an empty Target shows it at the top.
type Flash struct {
	Kind    string `json:"k"`
	Title   string `json:"t,omitempty"`
	Message string `json:"m"`
	Target  string `json:"g,omitempty"`
}

// Success builds a success banner.
func Success(target, title, msg string) *Flash {
	return &Flash{Kind: FlashSuccess, Title: title, Message: msg, Target: target}
}

// Failure builds an error banner.
func Failure(target, msg string) *Flash {
	return &Flash{Kind: FlashError, Message: msg, Target: target}
}

// SetFlash stores f for the next page the browser loads.
func SetFlash(c echo.Context, f *Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash returns the pending banner, if any, and clears it.
func TakeFlash(c echo.Context) *Flash {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
