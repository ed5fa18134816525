package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
)

// recordingRenderer remembers the last view instead of producing HTML.
type recordingRenderer struct {
	name string
	data echo.Map
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.name = name
	r.data, _ = data.(echo.Map)
	_, err := io.WriteString(w, name)
	return err
}

func (r *recordingRenderer) notices() []string {
	n, _ := r.data["notices"].([]string)
	return n
}

func (r *recordingRenderer) fieldErrors() domain.FieldErrors {
	fe, _ := r.data["errors"].(domain.FieldErrors)
	return fe
}

type testRequest struct {
	method  string
	target  string
	form    url.Values
	id      domain.Identity
	cookies []*http.Cookie
	params  map[string]string
}

// serve runs h behind the session middleware, the way the router does.
func serve(t *testing.T, tr testRequest, h echo.HandlerFunc) (*httptest.ResponseRecorder, *recordingRenderer, error) {
	t.Helper()

	e := echo.New()
	rr := &recordingRenderer{}
	e.Renderer = rr
	e.Validator = NewValidator()

	var body io.Reader
	if tr.form != nil {
		body = strings.NewReader(tr.form.Encode())
	}
	req := httptest.NewRequest(tr.method, tr.target, body)
	if tr.form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range tr.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(tr.params) > 0 {
		names := make([]string, 0, len(tr.params))
		values := make([]string, 0, len(tr.params))
		for name, value := range tr.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	middleware.SetIdentity(c, tr.id)

	store := sessions.NewCookieStore([]byte("test-session-secret"))
	err := session.Middleware(store)(h)(c)
	return rec, rr, err
}

func loggedIn(id int64, role domain.Role) domain.Identity {
	return domain.Identity{LoggedIn: true, AccountID: id, FirstName: "Ada", Email: "ada@example.com", Role: role}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
