package handler

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// SessionName is the cookie that carries one-shot notices.
	SessionName = "cse_session"
	noticeKey   = "notice"
)

// addNotice queues msg for the next rendered view. A missing session store
// drops the notice.
func addNotice(c echo.Context, msg string) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(msg, noticeKey)
	_ = sess.Save(c.Request(), c.Response())
}

// takeNotices returns and clears the queued notices.
func takeNotices(c echo.Context) []string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes(noticeKey)
	if len(flashes) == 0 {
		return nil
	}
	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return out
}

// clearSession expires the notice session.
func clearSession(c echo.Context) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return
	}
	sess.Values = map[any]any{}
	sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
	_ = sess.Save(c.Request(), c.Response())
}
