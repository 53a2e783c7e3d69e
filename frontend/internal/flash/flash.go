// Package flash carries one-shot messages across a redirect in a signed
// cookie session.
package flash

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pixora-dev/pixora/shared/logger"
)

const sessionName = "pixora_flash"

const (
	KeyError    = "error"
	KeySuccess  = "success"
	KeyUsername = "username" // prefill for the auth forms
)

// Messages are the flashes popped for one render.
type Messages struct {
	Error    string
	Success  string
	Username string
}

type Flashes struct {
	store sessions.Store
}

func New(key []byte, secure bool) *Flashes {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // long enough to survive the redirect
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Set queues msg under key for the next page the browser renders.
func (f *Flashes) Set(w http.ResponseWriter, r *http.Request, key, msg string) {
	session, err := f.store.Get(r, sessionName)
	if err != nil {
		// a cookie signed with an old key; start over
		logger.Log.Debug("discarding unreadable flash session", "error", err)
	}
	session.AddFlash(msg, key)
	if err := session.Save(r, w); err != nil {
		logger.Log.Error("failed to save flash", "key", key, "error", err)
	}
}

// Pop returns and clears every pending flash. It must run before the
// response body is written.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) Messages {
	session, err := f.store.Get(r, sessionName)
	if err != nil || session.IsNew {
		return Messages{}
	}

	msgs := Messages{
		Error:    last(session.Flashes(KeyError)),
		Success:  last(session.Flashes(KeySuccess)),
		Username: last(session.Flashes(KeyUsername)),
	}
	if msgs != (Messages{}) {
		if err := session.Save(r, w); err != nil {
			logger.Log.Error("failed to clear flashes", "error", err)
		}
	}
	return msgs
}

func last(values []interface{}) string {
	for i := len(values) - 1; i >= 0; i-- {
		if s, ok := values[i].(string); ok {
			return s
		}
	}
	return ""
}
