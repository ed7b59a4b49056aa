package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
	"github.com/GustavoCaso/bookcatalog/internal/util"
)

// SetupAuthCookie creates a session for user and attaches its cookie to req.
func SetupAuthCookie(
	t *testing.T,
	s storage.Storage,
	req *http.Request,
	user storage.User,
	cookieKey string,
	duration time.Duration,
) {
	t.Helper()

	const idLength = 16
	sessionID := util.GenerateRandomID(idLength)
	expiresAt := time.Now().Add(duration)

	if _, err := s.CreateSession(t.Context(), user.ID(), sessionID, expiresAt); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req.AddCookie(&http.Cookie{
		Name:  cookieKey,
		Value: sessionID,
	})
}
