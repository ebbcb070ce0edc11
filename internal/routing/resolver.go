// Package routing decides where a request for a page should land given the
// current session. It is pure: the API layer feeds it the path, the page's
// role requirement and the session, and acts on the returned decision.
package routing

import (
	"net/url"

	"github.com/educonnect/educonnect/internal/models"
)

const (
	PathRoot    = "/"
	PathLogin   = "/login"
	PathSignup  = "/cadastro"
	PathStudent = "/home-aluno"
	PathMentor  = "/home-mentor"
)

// Decision is the outcome of resolving a path. When Allow is false,
// RedirectTo carries the path the caller must be sent to instead.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// HomePath returns the landing page for a role. Unknown roles land on the
// student page rather than failing.
func HomePath(role string) string {
	if role == models.RoleMentor {
		return PathMentor
	}
	return PathStudent
}

// Resolve applies the dispatch rules in order:
//
//  1. The root path forwards an authenticated user to their home page and
//     anonymous visitors to the login page.
//  2. Login and signup pages bounce authenticated users back home.
//  3. A page with a role requirement needs a session; anonymous visitors
//     are sent to login with the original path preserved so the login
//     flow can return them.
//  4. A session with the wrong role is sent to its own home page, never
//     to an error page.
func Resolve(path string, requiredRole string, user *models.User) Decision {
	if path == PathRoot {
		if user != nil {
			return redirect(HomePath(user.Role))
		}
		return redirect(PathLogin)
	}

	if path == PathLogin || path == PathSignup {
		if user != nil {
			return redirect(HomePath(user.Role))
		}
		return allow()
	}

	if requiredRole == "" {
		return allow()
	}

	if user == nil {
		return redirect(loginWithReturn(path))
	}
	if user.Role != requiredRole {
		return redirect(HomePath(user.Role))
	}
	return allow()
}

func loginWithReturn(path string) string {
	return PathLogin + "?redirect=" + url.QueryEscape(path)
}
