package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"panelkeu/models"
	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookieName = "panelkeu_session"
	sessionTTL        = 24 * time.Hour
	loginRoute        = "/"
	forcedLogoutRoute = "/?forceLogout=true"
)

// createSession stores the backend bearer token server-side and hands the
// browser a signed cookie carrying only the session id. The id is stored
// hashed, so a leaked store row cannot be replayed as a cookie.
func createSession(c *gin.Context, bearer string, user panelapi.SessionUser) (*models.Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	sid := hex.EncodeToString(b)

	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	sess := models.Session{
		TokenHash:   hashSessionID(sid),
		BearerToken: bearer,
		UserJSON:    string(userJSON),
		Role:        user.Role,
		ExpiresAt:   time.Now().Add(sessionTTL),
	}
	if err := db.Create(&sess).Error; err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": sess.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(sessionSecret)
	if err != nil {
		return nil, err
	}
	c.SetCookie(sessionCookieName, signed, int(sessionTTL.Seconds()), "/", "", false, true)
	return &sess, nil
}

func hashSessionID(sid string) string {
	h := sha256.Sum256([]byte(sid))
	return hex.EncodeToString(h[:])
}

// loadSession resolves the cookie back to its store row. Any failure — bad
// signature, unknown id, expiry, revocation — reads as "not logged in".
func loadSession(c *gin.Context) (*models.Session, bool) {
	raw, err := c.Cookie(sessionCookieName)
	if err != nil || raw == "" {
		return nil, false
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return sessionSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, false
	}
	var sess models.Session
	if err := db.Where("token_hash = ?", hashSessionID(sid)).First(&sess).Error; err != nil {
		return nil, false
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) {
		return nil, false
	}
	return &sess, true
}

// destroySession clears every persisted trace of the session: the store row
// (bearer token, user, role, active project) and the cookie.
func destroySession(c *gin.Context, sess *models.Session) {
	if sess != nil {
		db.Delete(&models.Session{}, sess.ID)
		projects.drop(sess.ID)
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
}

// sessionAuthMiddleware is the auth gate in front of every dashboard route.
// Pages redirect to the login route; JSON/SSE routes answer 401 instead.
func sessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := loadSession(c)
		if !ok {
			if wantsJSON(c) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			} else {
				c.Redirect(http.StatusSeeOther, loginRoute)
			}
			c.Abort()
			return
		}
		c.Set("session", sess)
		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/dashboard/events") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// currentSession fetches the row stashed by sessionAuthMiddleware.
func currentSession(c *gin.Context) *models.Session {
	v, _ := c.Get("session")
	sess, _ := v.(*models.Session)
	return sess
}

func sessionUser(sess *models.Session) panelapi.SessionUser {
	var user panelapi.SessionUser
	_ = json.Unmarshal([]byte(sess.UserJSON), &user)
	return user
}

// forceLogout is the single handler for authorization failures from the
// backend: wipe the session and send the user to the login page with the
// forced-logout flag so it can show the "sesi berakhir" notice.
func forceLogout(c *gin.Context) {
	sess := currentSession(c)
	destroySession(c, sess)
	if wantsJSON(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "force_logout": true})
	} else {
		c.Redirect(http.StatusSeeOther, forcedLogoutRoute)
	}
	c.Abort()
}

// apiErrorMessage funnels a backend error into the page error taxonomy:
// 401 triggers the forced logout side effect (handled=true, stop rendering),
// 422 surfaces the server message verbatim, anything else the generic one.
func apiErrorMessage(c *gin.Context, err error, generic string) (msg string, handled bool) {
	if errors.Is(err, panelapi.ErrUnauthorized) {
		forceLogout(c)
		return "", true
	}
	if ve, ok := panelapi.IsValidation(err); ok {
		return ve.Message, false
	}
	return generic, false
}

// submitGuard rejects a second submission for the same session+entity while
// the first is still in flight.
var submitGuard sync.Map

func beginSubmit(key string) bool {
	_, loaded := submitGuard.LoadOrStore(key, struct{}{})
	return !loaded
}

func endSubmit(key string) {
	submitGuard.Delete(key)
}
