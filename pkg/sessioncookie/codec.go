// Package sessioncookie signs session ids into the session cookie.
//
// The cookie value is an HS256 JWT whose only claim is the session id (jti),
// so the client never sees anything beyond an opaque, tamper-evident reference.
package sessioncookie

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

// Codec reads and writes the session cookie.
type Codec struct {
	name   string
	secret []byte
}

func New(name, secret string) *Codec {
	if name == "" {
		name = "m294-session"
	}
	return &Codec{name: name, secret: []byte(secret)}
}

func (c *Codec) Name() string { return c.name }

// Encode signs sessionID.
func (c *Codec) Encode(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrInvalidCookie
	}
	claims := jwt.RegisteredClaims{
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies value and returns the session id it carries.
func (c *Codec) Decode(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidCookie
	}
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}

// Read returns the session id carried by the request cookie, or "" when the
// cookie is absent or fails verification.
func (c *Codec) Read(ctx *fasthttp.RequestCtx) string {
	raw := ctx.Request.Header.Cookie(c.name)
	if len(raw) == 0 {
		return ""
	}
	id, err := c.Decode(string(raw))
	if err != nil {
		return ""
	}
	return id
}

// Write sets the session cookie on the response.
func (c *Codec) Write(ctx *fasthttp.RequestCtx, sessionID string) error {
	value, err := c.Encode(sessionID)
	if err != nil {
		return err
	}
	cookie := c.cookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetValue(value)
	ctx.Response.Header.SetCookie(cookie)
	return nil
}

// Clear expires the session cookie on the client.
func (c *Codec) Clear(ctx *fasthttp.RequestCtx) {
	cookie := c.cookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)
}

func (c *Codec) cookie() *fasthttp.Cookie {
	cookie := fasthttp.AcquireCookie()
	cookie.SetKey(c.name)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(false)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	return cookie
}
