// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides what the client shows for a navigable path.

The route table carries the role set each screen needs. [Guard.Navigate]
consults the session store and returns a [Decision]; it never errors. A denied
role check is a silent redirect home, not an error page.
*/
package guard

import (
	"context"
	"strings"

	"github.com/toikana/marketplace/internal/app/session"
	"github.com/toikana/marketplace/internal/platform/sec"
)

// Well-known locations.
const (
	PathHome = "/"
	PathAuth = "/auth"
)

// Outcome is the kind of a navigation decision.
type Outcome string

const (
	// OutcomeLoading defers the decision while the session is restoring.
	OutcomeLoading  Outcome = "loading"
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
	OutcomeNotFound Outcome = "not_found"
)

// Route is one entry of the route table.
type Route struct {
	// Pattern uses ":name" for path parameters.
	Pattern string
	Name    string

	// Protected routes need a signed-in identity.
	Protected bool

	// Roles restricts a protected route further. Empty means any identity.
	Roles sec.RoleSet
}

// Decision is the result of a navigation.
type Decision struct {
	Outcome  Outcome
	Route    *Route
	Params   map[string]string
	Location string

	// From is the originally requested path on a redirect to sign-in.
	From string
}

var managers = sec.Roles(sec.RolePartner, sec.RoleAdmin)

// Routes returns the application route table in match order.
func Routes() []Route {
	return []Route{
		{Pattern: "/", Name: "home"},
		{Pattern: "/auth", Name: "auth"},
		{Pattern: "/catalog", Name: "catalog"},
		{Pattern: "/places/:id", Name: "place"},
		{Pattern: "/artists/:id", Name: "artist"},
		{Pattern: "/rentals/:id", Name: "rental"},
		{Pattern: "/profile", Name: "profile", Protected: true},
		{Pattern: "/profile/settings", Name: "profile_settings", Protected: true},
		{Pattern: "/profile/favorites", Name: "profile_favorites", Protected: true},
		{Pattern: "/profile/history", Name: "profile_history", Protected: true},
		{Pattern: "/profile/services", Name: "profile_services", Protected: true, Roles: managers},
		{Pattern: "/create-service/:type", Name: "create_service", Protected: true, Roles: managers},
		{Pattern: "/edit-service/:type/:id", Name: "edit_service", Protected: true, Roles: managers},
		{Pattern: "/admin", Name: "admin", Protected: true, Roles: sec.Roles(sec.RoleAdmin)},
	}
}

// StateSource exposes the session state. Implemented by [session.Store].
type StateSource interface {
	State() session.State
}

// Guard evaluates navigations against the route table.
type Guard struct {
	routes []Route
	source StateSource
}

// New constructs a [Guard] over [Routes].
func New(source StateSource) *Guard {
	return &Guard{routes: Routes(), source: source}
}

/*
Navigate decides the outcome of opening location.

  - Unknown paths: NotFound.
  - Public routes: Render.
  - Protected routes while the session is loading: Loading (no redirect).
  - No identity: Redirect to /auth with From = location.
  - Role check fails: Redirect to /.
*/
func (guard *Guard) Navigate(location string) Decision {
	path := location
	if index := strings.IndexAny(path, "?#"); index >= 0 {
		path = path[:index]
	}

	route, params := guard.match(path)
	if route == nil {
		return Decision{Outcome: OutcomeNotFound, Location: location}
	}

	if !route.Protected {
		return Decision{Outcome: OutcomeRender, Route: route, Params: params, Location: location}
	}

	state := guard.source.State()
	if state.Loading {
		return Decision{Outcome: OutcomeLoading, Route: route, Params: params, Location: location}
	}

	if state.Identity == nil {
		return Decision{Outcome: OutcomeRedirect, Route: route, Location: PathAuth, From: location}
	}

	if !sec.CanAccess(state.Identity, state.Principal(), route.Roles) {
		return Decision{Outcome: OutcomeRedirect, Route: route, Location: PathHome}
	}

	return Decision{Outcome: OutcomeRender, Route: route, Params: params, Location: location}
}

// Refresher re-reads the profile. Implemented by [session.Store].
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Open is [Guard.Navigate] preceded by a profile refresh for role-restricted
// routes, so a role granted elsewhere applies on the next navigation. A failed
// refresh falls back to the known profile.
func (guard *Guard) Open(ctx context.Context, location string) Decision {
	decision := guard.Navigate(location)
	if decision.Route == nil || decision.Route.Roles.IsEmpty() || decision.Outcome == OutcomeLoading {
		return decision
	}
	if decision.Outcome == OutcomeRedirect && decision.Location == PathAuth {
		return decision
	}

	refresher, ok := guard.source.(Refresher)
	if !ok {
		return decision
	}
	if err := refresher.Refresh(ctx); err != nil {
		return decision
	}
	return guard.Navigate(location)
}

// ReturnTo is where sign-in sends the user afterwards.
func ReturnTo(decision Decision) string {
	if decision.From != "" {
		return decision.From
	}
	return PathHome
}

func (guard *Guard) match(path string) (*Route, map[string]string) {
	segments := split(path)

	for i := range guard.routes {
		route := &guard.routes[i]
		pattern := split(route.Pattern)
		if len(pattern) != len(segments) {
			continue
		}

		params := map[string]string{}
		matched := true
		for j, part := range pattern {
			if name, ok := strings.CutPrefix(part, ":"); ok {
				if segments[j] == "" {
					matched = false
					break
				}
				params[name] = segments[j]
				continue
			}
			if part != segments[j] {
				matched = false
				break
			}
		}

		if matched {
			return route, params
		}
	}

	return nil, nil
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
