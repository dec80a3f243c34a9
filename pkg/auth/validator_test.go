package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJWTValidatorIssueAndAuthenticate(t *testing.T) {
	Convey("Given a JWT validator", t, func() {
		v := NewJWTValidator("test-secret")
		tok, err := v.IssueToken("user1", time.Hour)

		Convey("Then a token is issued", func() {
			So(err, ShouldBeNil)
			So(tok, ShouldNotBeEmpty)
		})

		Convey("Then a request carrying it authenticates", func() {
			req := httptest.NewRequest("POST", "/a2a", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			So(v.Authenticate(req), ShouldBeNil)
		})
	})

	Convey("Given a request without an authorization header", t, func() {
		v := NewJWTValidator("test-secret")
		req := httptest.NewRequest("POST", "/a2a", nil)

		Convey("Then authentication fails", func() {
			err := v.Authenticate(req)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing authorization header")
		})
	})

	Convey("Given a request with a token signed by a different secret", t, func() {
		wrong := NewJWTValidator("other-secret")
		tok, _ := wrong.IssueToken("user1", time.Hour)

		right := NewJWTValidator("test-secret")
		req := httptest.NewRequest("POST", "/a2a", nil)
		req.Header.Set("Authorization", "Bearer "+tok)

		Convey("Then authentication fails", func() {
			So(right.Authenticate(req), ShouldNotBeNil)
		})
	})
}

func TestNoopValidatorAdmitsEverything(t *testing.T) {
	Convey("Given the noop validator", t, func() {
		req := httptest.NewRequest("POST", "/a2a", nil)
		So(Noop{}.Authenticate(req), ShouldBeNil)
	})
}
