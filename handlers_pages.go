package main

import (
	"net/http"
	"net/url"

	"panelkeu/models"
	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

func queryEscape(s string) string { return url.QueryEscape(s) }

// basePageData carries the shell: logged-in user, role gates for the menu,
// the active project and the selector list.
func basePageData(c *gin.Context, sess *models.Session) gin.H {
	user := sessionUser(sess)
	project, hasProject := sessionProject(sess)
	return gin.H{
		"Next":        c.Request.URL.RequestURI(),
		"User":        user,
		"IsStaff":     sess.Role == panelapi.RoleStaff,
		"Project":     project,
		"HasProject":  hasProject,
		"ProjectList": allProjects(c, sess),
	}
}

func dashboardPageHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "dashboard"

	project, ok := defaultProject(c, sess)
	if !ok {
		// no project yet: render the empty state instead of calling with an
		// invalid scope
		render(c, http.StatusOK, "dashboard.html", data)
		return
	}
	data["Project"] = project
	data["HasProject"] = true

	summary, err := apiClient.DashboardSummary(c.Request.Context(), sess.BearerToken, project.ID)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memuat ringkasan. Silakan coba lagi.")
		if handled {
			return
		}
		data["Error"] = msg
		render(c, http.StatusOK, "dashboard.html", data)
		return
	}
	data["Summary"] = summary
	render(c, http.StatusOK, "dashboard.html", data)
}
