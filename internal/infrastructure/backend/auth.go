package backend

import (
	"context"
	"net/http"
)

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Login exchanges credentials for a token pair and returns a session
// bound to it. Wrong credentials come back as an HTTPError (401).
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var tokens Tokens
	anon := c.WithSession(nil)
	if err := anon.Do(ctx, http.MethodPost, "/token/", nil, creds, &tokens); err != nil {
		return nil, err
	}
	return NewSession(tokens), nil
}

// CurrentUser returns the user owning the session.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var u User
	err := c.Do(ctx, http.MethodGet, "/current-user/", nil, nil, &u)
	return u, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	var u User
	err := c.WithSession(nil).Do(ctx, http.MethodPost, "/register/", nil, reg, &u)
	return u, err
}
