// Package guard decides whether a client-side view may be shown to the current identity.
// Guards only read the session; they never call the API.
package guard

import (
	"strings"

	"github.com/yeremiapane/tablemate/session"
)

const (
	HomePath  = "/"
	LoginPath = "/login"
)

// SessionReader is satisfied by *session.Holder.
type SessionReader interface {
	Current() (session.Identity, bool)
}

type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision { return Decision{Allowed: true} }

func redirect(path string) Decision { return Decision{Redirect: path} }

func orDefault(path, def string) string {
	if path == "" {
		return def
	}
	return path
}

type Guard func(SessionReader) Decision

// PublicOnly lets anonymous visitors through and sends logged-in ones to home.
func PublicOnly(home string) Guard {
	home = orDefault(home, HomePath)
	return func(s SessionReader) Decision {
		if _, ok := s.Current(); ok {
			return redirect(home)
		}
		return allow()
	}
}

// AdminOnly sends everyone but administrators to the login page, including logged-in users.
func AdminOnly(login string) Guard {
	login = orDefault(login, LoginPath)
	return func(s SessionReader) Decision {
		id, ok := s.Current()
		if !ok || !id.IsAdmin() {
			return redirect(login)
		}
		return allow()
	}
}

// Authenticated requires any identity.
func Authenticated(login string) Guard {
	login = orDefault(login, LoginPath)
	return func(s SessionReader) Decision {
		if _, ok := s.Current(); !ok {
			return redirect(login)
		}
		return allow()
	}
}

type route struct {
	prefix string
	guard  Guard
}

// Navigator maps paths to guards. The longest matching prefix wins; unmatched paths are open.
type Navigator struct {
	session SessionReader
	routes  []route
}

func NewNavigator(s SessionReader) *Navigator {
	n := &Navigator{session: s}
	n.Handle("/login", PublicOnly(HomePath))
	n.Handle("/register", PublicOnly(HomePath))
	n.Handle("/admin", AdminOnly(LoginPath))
	n.Handle("/reservations/mine", Authenticated(LoginPath))
	return n
}

func (n *Navigator) Handle(prefix string, g Guard) {
	n.routes = append(n.routes, route{prefix: prefix, guard: g})
}

func (n *Navigator) Check(path string) Decision {
	var best *route
	for i := range n.routes {
		r := &n.routes[i]
		if matches(path, r.prefix) && (best == nil || len(r.prefix) > len(best.prefix)) {
			best = r
		}
	}
	if best == nil {
		return allow()
	}
	return best.guard(n.session)
}

// Resolve follows redirects until a path is allowed.
func (n *Navigator) Resolve(path string) string {
	seen := map[string]bool{}
	for !seen[path] {
		seen[path] = true
		d := n.Check(path)
		if d.Allowed {
			return path
		}
		path = d.Redirect
	}
	return path
}

// matches treats prefix as a whole path segment: "/admin" matches "/admin/users" but not "/administrator".
func matches(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || prefix == "/" || path[len(prefix)] == '/'
}
