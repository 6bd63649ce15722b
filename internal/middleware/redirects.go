package middleware

import (
	"strings"

	"github.com/RiskyMH/Forms/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RedirectRule declares one routing redirect. Cookie conditions only test the
// PRESENCE of the session cookie; page handlers verify validity themselves.
type RedirectRule struct {
	Source        string
	Destination   string
	MissingCookie bool // apply only when the session cookie is absent
	HasCookie     bool // apply only when the session cookie is present
	AppendFrom    bool // append ?from=<original path> to the destination
	UseFromQuery  bool // prefer the ?from= query value as the destination
}

// redirectRules mirrors the app's declarative routing table, including the
// two legacy paths kept as an easter egg.
var redirectRules = []RedirectRule{
	{Source: "/", Destination: "/login"},
	{Source: "/index", Destination: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	{Source: "/index.html", Destination: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
	{Source: "/dashboard", Destination: "/login", MissingCookie: true, AppendFrom: true},
	{Source: "/editor/:id", Destination: "/login", MissingCookie: true, AppendFrom: true},
	{Source: "/editor/:id/responses", Destination: "/login", MissingCookie: true, AppendFrom: true},
	{Source: "/login", Destination: "/dashboard", HasCookie: true, UseFromQuery: true},
}

// RegisterRedirects installs the redirect table. Register BEFORE the page
// routes: a rule that does not apply falls through to the page handler.
func RegisterRedirects(app *fiber.App) {
	for _, rule := range redirectRules {
		app.Get(rule.Source, redirectHandler(rule))
	}
}

func redirectHandler(rule RedirectRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hasCookie := c.Cookies(services.SessionCookie) != ""
		if rule.MissingCookie && hasCookie {
			return c.Next()
		}
		if rule.HasCookie && !hasCookie {
			return c.Next()
		}

		dest := rule.Destination
		if rule.UseFromQuery {
			if from := c.Query("from"); isLocalPath(from) {
				dest = from
			}
		}
		if rule.AppendFrom {
			dest += "?from=" + c.Path()
		}

		return c.Redirect(dest, fiber.StatusFound)
	}
}

// isLocalPath reports whether a from= value is a same-site path. Absolute URLs
// and protocol-relative //host values must not become redirect targets.
func isLocalPath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}
