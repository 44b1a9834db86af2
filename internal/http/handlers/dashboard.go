// Package handlers provides the HTTP handlers for the read-only status
// surface: the dashboard page showing aggregate moderation counts, and a
// small set of JSON helpers for error responses.
//
// The dashboard issues only aggregate reads (total warnings, users with
// levels) against the engagement store; it never mutates moderation state.
package handlers

import (
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/http/middleware"
	"github.com/nqAtomic/my-discord-bott/internal/repo"
)

// dashboardTpl is the status page. It is compiled once at package load;
// a broken template is a programmer error and should fail fast.
var dashboardTpl = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
<head>
<title>Bot Dashboard</title>
<style>
body { background:#0f172a; color:white; font-family:Arial; text-align:center }
.card { background:#1e293b; padding:20px; margin:20px; border-radius:12px }
</style>
</head>
<body>
<h1>Guardian Dashboard</h1>

<div class="card">
<h2>Total Warnings</h2>
<p>{{ warns }}</p>
</div>

<div class="card">
<h2>Users with Levels</h2>
<p>{{ users }}</p>
</div>

</body>
</html>
`))

// Dashboard holds the dependencies of the status page.
type Dashboard struct {
	DB *gorm.DB
}

// Home renders the dashboard with the current aggregate counts. Store
// failures surface as a 503 so probes can distinguish "page up, store
// down" from a healthy deployment.
func (d *Dashboard) Home(c *gin.Context) {
	ctx := c.Request.Context()

	warns, err := repo.CountWarnings(ctx, d.DB)
	if err != nil {
		d.failStore(c, err)
		return
	}
	users, err := repo.CountLeveledUsers(ctx, d.DB)
	if err != nil {
		d.failStore(c, err)
		return
	}

	html, err := dashboardTpl.Execute(pongo2.Context{
		"warns": warns,
		"users": users,
	})
	if err != nil {
		Fail(c, http.StatusInternalServerError, ErrCodeInternal, "template render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (d *Dashboard) failStore(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("dashboard store query failed")
	Fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "store unavailable")
}
