package backend

import (
	"context"

	"delice/internal/domain"
)

type authUser struct {
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

func (u authUser) role() string {
	if r, ok := u.Metadata["role"].(string); ok && r != "" {
		return r
	}
	return "customer"
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         authUser `json:"user"`
}

func (t tokenResponse) session() domain.Session {
	return domain.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         domain.User{Email: t.User.Email, Role: t.User.role()},
	}
}

// SignIn exchanges credentials for a session (password grant).
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var tr tokenResponse
	u := c.BaseURL + "/auth/v1/token?grant_type=password"
	err := c.doJSON(ctx, "POST", u, "", map[string]string{"email": email, "password": password}, &tr, nil)
	if err != nil {
		return domain.Session{}, err
	}
	return tr.session(), nil
}

// SignUp registers a new account. The collaborator may return a full
// token pair straight away (email confirmation disabled).
func (c *Client) SignUp(ctx context.Context, email, password string) (domain.Session, error) {
	var tr tokenResponse
	u := c.BaseURL + "/auth/v1/signup"
	err := c.doJSON(ctx, "POST", u, "", map[string]string{"email": email, "password": password}, &tr, nil)
	if err != nil {
		return domain.Session{}, err
	}
	return tr.session(), nil
}

// Refresh trades a refresh token for a fresh pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	var tr tokenResponse
	u := c.BaseURL + "/auth/v1/token?grant_type=refresh_token"
	err := c.doJSON(ctx, "POST", u, "", map[string]string{"refresh_token": refreshToken}, &tr, nil)
	if err != nil {
		return domain.Session{}, err
	}
	return tr.session(), nil
}

// GetUser validates an access token and returns the user behind it.
// Used on launch to decide whether a persisted session is still good.
func (c *Client) GetUser(ctx context.Context, accessToken string) (domain.User, error) {
	var au authUser
	if err := c.doJSON(ctx, "GET", c.BaseURL+"/auth/v1/user", accessToken, nil, &au, nil); err != nil {
		return domain.User{}, err
	}
	return domain.User{Email: au.Email, Role: au.role()}, nil
}

// SignOut revokes the session remotely. Local state is the caller's
// problem; a failed revoke does not block a local sign-out.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.doJSON(ctx, "POST", c.BaseURL+"/auth/v1/logout", accessToken, nil, nil, nil)
}
