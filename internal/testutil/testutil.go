package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/crypto"
	"bookshelf/internal/user"
)

// TestUser is a registered reader for handler tests.
var TestUser = user.User{
	ID:        "test-user-id-123",
	Name:      "Test Reader",
	Email:     "reader@example.com",
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestBook is a normalized catalog record.
var TestBook = catalog.Book{
	ID:            "vol-789",
	ISBN:          "9780123456789",
	Title:         "Test Book Title",
	Author:        "Test Author",
	PageCount:     "320",
	PublishedYear: "2004",
	Categories:    []string{"Ficção"},
}

// GenerateTestToken signs a one hour token for userID.
func GenerateTestToken(secret, userID string) string {
	token, _ := crypto.GenerateToken(secret, userID, time.Hour)
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, userID string) string {
	c := crypto.Claims{
		Sub: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}

// NewRequest builds a request with body encoded as JSON.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse is a decoded recorder result.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	raw, _ := io.ReadAll(result.Body)

	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   body,
	}
}

// ErrorCode returns error.code from a JSON error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
