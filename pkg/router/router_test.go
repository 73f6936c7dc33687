package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/runs/abc", "/api/v1/runs/*", true},
		{"/api/v1/runs/abc/reports", "/api/v1/runs/*/reports", true},
		{"/api/v1/runs/abc/errors", "/api/v1/runs/*/reports", false},
		{"/api/v1/runs/abc/extra/parts", "/api/v1/runs/*", true},
		{"/api/v1/other/abc", "/api/v1/runs/*", false},
		{"/swagger/index.html", "/swagger/*", true},
		{"/api/v1/runs", "/api/v1/runs/*/reports", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, matchPattern(c.path, c.pattern), "%s vs %s", c.path, c.pattern)
	}
}

func TestDispatch(t *testing.T) {
	r := New()
	var hit string
	r.GET("/api/v1/runs", func(w http.ResponseWriter, req *http.Request) { hit = "list" })
	r.GET("/api/v1/runs/*/reports", func(w http.ResponseWriter, req *http.Request) { hit = "reports" })
	r.GET("/api/v1/runs/*", func(w http.ResponseWriter, req *http.Request) { hit = "get" })

	t.Run("exact route wins", func(t *testing.T) {
		hit = ""
		r.dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
		assert.Equal(t, "list", hit)
	})

	t.Run("wildcard patterns match in registration order", func(t *testing.T) {
		hit = ""
		r.dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc/reports", nil))
		assert.Equal(t, "reports", hit)

		hit = ""
		r.dispatch(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))
		assert.Equal(t, "get", hit)
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.dispatch(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("known path with wrong method is 405", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.dispatch(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/runs", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
