package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func carry(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	// the last Set-Cookie for the session wins, as in a browser
	req.AddCookie(cookies[len(cookies)-1])
	return req
}

func TestSetAndPop(t *testing.T) {
	f := New(testKey, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	f.Set(w, r, KeyError, "Invalid credentials")
	f.Set(w, r, KeyUsername, "alice")

	next := carry(t, w)
	w2 := httptest.NewRecorder()
	msgs := f.Pop(w2, next)

	assert.Equal(t, "Invalid credentials", msgs.Error)
	assert.Equal(t, "alice", msgs.Username)
	assert.Empty(t, msgs.Success)

	// popped flashes are gone on the following request
	again := carry(t, w2)
	assert.Equal(t, Messages{}, f.Pop(httptest.NewRecorder(), again))
}

func TestPop_NoSession(t *testing.T) {
	f := New(testKey, false)
	w := httptest.NewRecorder()

	assert.Equal(t, Messages{}, f.Pop(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, w.Result().Cookies())
}

func TestPop_ForeignKey(t *testing.T) {
	w := httptest.NewRecorder()
	New([]byte("ffffffffffffffffffffffffffffffff"), false).Set(w, httptest.NewRequest(http.MethodGet, "/", nil), KeySuccess, "saved")

	assert.Equal(t, Messages{}, New(testKey, false).Pop(httptest.NewRecorder(), carry(t, w)))
}
