package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

// Token is the body returned by POST /auth/token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token. The API expects an
// OAuth2 password form where the username is the email address.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", strings.TrimSpace(email))
	form.Set("password", password)

	var tok Token
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/token",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &tok)
	return tok, err
}

// Me returns the user the bearer token belongs to, as verified by the API.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.get(ctx, "/auth/me", nil, &u)
	return u, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in model.Registration) (model.User, error) {
	var u model.User
	err := c.sendJSON(ctx, http.MethodPost, "/auth/register", in, &u)
	return u, err
}
