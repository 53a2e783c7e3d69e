package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFMiddleware(t *testing.T) {
	t.Run("GenerateCSRFToken", func(t *testing.T) {
		var seen string
		handler := GenerateCSRFToken(CSRFConfig{})(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetCSRFTokenFromContext(r)
				w.WriteHeader(http.StatusOK)
			}),
		)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == csrfCookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, seen, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("GenerateCSRFToken keeps existing cookie", func(t *testing.T) {
		var seen string
		handler := GenerateCSRFToken(CSRFConfig{})(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetCSRFTokenFromContext(r)
			}),
		)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "existing", seen)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("ValidateCSRFToken", func(t *testing.T) {
		token := "test-token-123"

		tests := []struct {
			name           string
			method         string
			cookie         *http.Cookie
			formToken      string
			headerToken    string
			expectedStatus int
		}{
			{"valid POST request", http.MethodPost, &http.Cookie{Name: "csrf_token", Value: token}, token, "", http.StatusOK},
			{"valid header token", http.MethodPost, &http.Cookie{Name: "csrf_token", Value: token}, "", token, http.StatusOK},
			{"header takes precedence", http.MethodPost, &http.Cookie{Name: "csrf_token", Value: token}, token, "wrong", http.StatusForbidden},
			{"GET request (no validation)", http.MethodGet, nil, "", "", http.StatusOK},
			{"missing cookie", http.MethodPost, nil, token, "", http.StatusForbidden},
			{"missing form token", http.MethodPost, &http.Cookie{Name: "csrf_token", Value: token}, "", "", http.StatusForbidden},
			{"mismatched tokens", http.MethodDelete, &http.Cookie{Name: "csrf_token", Value: token}, "different-token", "", http.StatusForbidden},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := ValidateCSRFToken(CSRFConfig{})(
					http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(http.StatusOK)
					}),
				)

				form := url.Values{}
				if tt.formToken != "" {
					form.Set("csrf_token", tt.formToken)
				}

				req := httptest.NewRequest(tt.method, "/", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				if tt.headerToken != "" {
					req.Header.Set(csrfHeader, tt.headerToken)
				}
				if tt.cookie != nil {
					req.AddCookie(tt.cookie)
				}

				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				assert.Equal(t, tt.expectedStatus, w.Code)
			})
		}
	})
}

func multipartRequest(t *testing.T, token string, fileSize int) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("csrf_token", token))
	part, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, fileSize))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/new", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	return req
}

func TestValidateCSRFToken_Multipart(t *testing.T) {
	var parsed bool
	handler := ValidateCSRFToken(CSRFConfig{MaxMultipartBytes: 4096})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parsed = r.MultipartForm != nil && len(r.MultipartForm.File["image"]) == 1
		}),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartRequest(t, "tok", 100))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, parsed, "the handler sees the already parsed form")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, multipartRequest(t, "tok", 10_000))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
