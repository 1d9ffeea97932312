package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/julianstephens/habitlog/internal/constants"
	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

const userIDKey = "habitlog_user_id"

// LoginResponse is returned by the callback once a session exists.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Handler serves the sign-in routes.
type Handler struct {
	provider      Exchanger
	sessions      *Sessions
	store         storage.Provider
	secureCookies bool
}

func NewHandler(provider Exchanger, sessions *Sessions, store storage.Provider, secureCookies bool) *Handler {
	return &Handler{
		provider:      provider,
		sessions:      sessions,
		store:         store,
		secureCookies: secureCookies,
	}
}

// Register mounts /login, /callback and /logout on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/login", h.login)
	g.GET("/callback", h.callback)
	g.POST("/logout", h.logout)
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *Handler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) login(c echo.Context) error {
	state, err := newState()
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie(constants.OAuthStateCookieName, state, 600))
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

func (h *Handler) callback(c echo.Context) error {
	if msg := c.QueryParam("error"); msg != "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "sign-in was declined: "+msg)
	}

	stateCookie, err := c.Cookie(constants.OAuthStateCookieName)
	state := c.QueryParam("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid sign-in state")
	}
	c.SetCookie(h.cookie(constants.OAuthStateCookieName, "", -1))

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	id, err := h.provider.Exchange(c.Request().Context(), code)
	if err != nil {
		logger.Warn("OAuth exchange failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "sign-in failed")
	}

	user := models.User{ID: id.Subject, Email: id.Email, Name: id.Name}
	if err := h.store.UpsertUser(user); err != nil {
		return err
	}
	if stored, err := h.store.GetUser(user.ID); err == nil {
		user = stored
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		return err
	}
	c.SetCookie(h.cookie(constants.SessionCookieName, sess.Token, int(time.Until(sess.ExpiresAt).Seconds())))
	logger.Info("User signed in", "user", user.ID)

	return c.JSON(http.StatusOK, LoginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: user})
}

func (h *Handler) logout(c echo.Context) error {
	if token := tokenFrom(c); token != "" {
		if err := h.sessions.Revoke(token); err != nil {
			return err
		}
	}
	c.SetCookie(h.cookie(constants.SessionCookieName, "", -1))
	return c.NoContent(http.StatusNoContent)
}

// tokenFrom reads a bearer token, falling back to the session cookie.
func tokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if ck, err := c.Cookie(constants.SessionCookieName); err == nil {
		return ck.Value
	}
	return ""
}

// RequireSession rejects requests without a live session with 401 and makes
// the session's user available through UserID.
func RequireSession(sessions *Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessions.Lookup(tokenFrom(c))
			if apperr.Is(err, apperr.ErrUnauthorized) {
				return echo.NewHTTPError(http.StatusUnauthorized, apperr.ErrUnauthorized.Error())
			}
			if err != nil {
				return err
			}
			c.Set(userIDKey, sess.UserID)
			return next(c)
		}
	}
}

// UserID returns the signed-in user set by RequireSession.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
