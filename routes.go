package main

import (
	"net/http"
	"strings"

	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/", loginPageHandler)
	r.POST("/login", loginSubmitHandler)
	r.POST("/logout", logoutHandler)

	dash := r.Group("/dashboard")
	dash.Use(sessionAuthMiddleware())
	dash.GET("", dashboardPageHandler)
	dash.POST("/project", selectProjectHandler)
	dash.GET("/events", projectEventsHandler)

	dash.GET("/transactions", transactionsPageHandler)
	dash.GET("/transactions/add", transactionFormHandler)
	dash.POST("/transactions/add", submitTransactionHandler)
	dash.GET("/transactions/edit/:uuid", transactionFormHandler)
	dash.POST("/transactions/edit/:uuid", submitTransactionHandler)
	dash.GET("/transactions/view/:uuid", transactionViewHandler)
	dash.POST("/transactions/:uuid/delete", deleteTransactionHandler)
	dash.GET("/transactions/export", exportTransactionsHandler)
	dash.POST("/transactions/scan", scanInvoiceHandler)

	dash.GET("/reports", reportsPageHandler)
	dash.GET("/settings", settingsPageHandler)
	dash.POST("/settings", saveSettingsHandler)
	dash.POST("/settings/password", changePasswordHandler)

	admin := dash.Group("")
	admin.Use(privilegedOnly())
	admin.GET("/clients", clientsPageHandler)
	admin.POST("/clients", createClientHandler)
	admin.POST("/clients/:id", updateClientHandler)
	admin.POST("/clients/:id/delete", deleteClientHandler)
	admin.GET("/users", usersPageHandler)
	admin.POST("/users", createUserHandler)
	admin.POST("/users/:id", updateUserHandler)
	admin.POST("/users/:id/delete", deleteUserHandler)
	admin.GET("/form-builder", formBuilderPageHandler)
	admin.POST("/form-builder", saveFormFieldHandler)
	admin.POST("/form-builder/:id/delete", deleteFormFieldHandler)
}

// privilegedOnly hides the management pages from staff accounts. The menu
// already omits them; this stops direct navigation too.
func privilegedOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess.Role == panelapi.RoleStaff {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

func loginPageHandler(c *gin.Context) {
	if _, ok := loadSession(c); ok {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"ForcedLogout": c.Query("forceLogout") == "true",
	})
}

func loginSubmitHandler(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		render(c, http.StatusOK, "login.html", gin.H{"Error": "Email dan password wajib diisi"})
		return
	}
	token, user, err := apiClient.Login(c.Request.Context(), email, password)
	if err != nil {
		// invalid credentials arrive as 401 or 422; both read the same here
		render(c, http.StatusOK, "login.html", gin.H{"Error": "Email atau password tidak valid"})
		return
	}
	sess, err := createSession(c, token, user)
	if err != nil {
		render(c, http.StatusOK, "login.html", gin.H{"Error": "Gagal membuat sesi. Silakan coba lagi."})
		return
	}
	// default the active project to the first one the account can see
	defaultProject(c, sess)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func logoutHandler(c *gin.Context) {
	if sess, ok := loadSession(c); ok {
		destroySession(c, sess)
	} else {
		destroySession(c, nil)
	}
	c.Redirect(http.StatusSeeOther, loginRoute)
}
