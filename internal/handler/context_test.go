package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestMemberIDFromContext(t *testing.T) {
	cases := []struct {
		name   string
		value  interface{}
		want   uint64
		wantOK bool
	}{
		{"float64 claim", float64(42), 42, true},
		{"string claim", "7", 7, true},
		{"uint64 claim", uint64(9), 9, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext()
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, ok := memberIDFromContext(c)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("memberIDFromContext = (%d, %v), want (%d, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestSessionKey(t *testing.T) {
	if got := sessionKey(3, "sidebar"); got != "3:sidebar" {
		t.Errorf("sessionKey = %q, want 3:sidebar", got)
	}
	if got := sessionKey(3, ""); got != "3:main" {
		t.Errorf("empty module key: sessionKey = %q, want 3:main", got)
	}
}
