package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

func usersPageHandler(c *gin.Context) {
	sess := currentSession(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	q := panelapi.ListQuery{
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    page,
		PerPage: 10,
	}
	data := basePageData(c, sess)
	data["Active"] = "users"
	data["Search"] = q.Search
	data["Error"] = c.Query("error")

	rows, paging, err := apiClient.ListUsers(c.Request.Context(), sess.BearerToken, q)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memuat user. Silakan coba lagi.")
		if handled {
			return
		}
		data["Error"] = msg
		render(c, http.StatusOK, "users.html", data)
		return
	}
	data["Users"] = rows
	data["Page"] = paging
	render(c, http.StatusOK, "users.html", data)
}

// userInputFromForm reads the dialog form. Project association is the
// multi-select client_ids model.
func userInputFromForm(c *gin.Context) panelapi.UserInput {
	role, _ := strconv.Atoi(c.DefaultPostForm("role", "1"))
	status, _ := strconv.Atoi(c.DefaultPostForm("status", "1"))
	var clientIDs []int64
	for _, raw := range c.PostFormArray("client_ids") {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			clientIDs = append(clientIDs, id)
		}
	}
	return panelapi.UserInput{
		Name:      strings.TrimSpace(c.PostForm("name")),
		Email:     strings.TrimSpace(c.PostForm("email")),
		Password:  c.PostForm("password"),
		Role:      role,
		Status:    status,
		ClientIDs: clientIDs,
	}
}

func createUserHandler(c *gin.Context) {
	sess := currentSession(c)
	in := userInputFromForm(c)
	if in.Name == "" || in.Email == "" {
		redirectUsersError(c, "Nama dan email wajib diisi")
		return
	}
	key := fmt.Sprintf("%d:user:new", sess.ID)
	if !beginSubmit(key) {
		redirectUsersError(c, "Permintaan sebelumnya masih diproses")
		return
	}
	defer endSubmit(key)

	if err := apiClient.CreateUser(c.Request.Context(), sess.BearerToken, in); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menambahkan user. Silakan coba lagi.")
		if handled {
			return
		}
		redirectUsersError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/users")
}

func updateUserHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectUsersError(c, "User tidak ditemukan")
		return
	}
	in := userInputFromForm(c)
	if in.Name == "" || in.Email == "" {
		redirectUsersError(c, "Nama dan email wajib diisi")
		return
	}
	key := fmt.Sprintf("%d:user:%d", sess.ID, id)
	if !beginSubmit(key) {
		redirectUsersError(c, "Permintaan sebelumnya masih diproses")
		return
	}
	defer endSubmit(key)

	if err := apiClient.UpdateUser(c.Request.Context(), sess.BearerToken, id, in); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memperbarui user. Silakan coba lagi.")
		if handled {
			return
		}
		redirectUsersError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/users")
}

func deleteUserHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectUsersError(c, "User tidak ditemukan")
		return
	}
	if err := apiClient.DeleteUser(c.Request.Context(), sess.BearerToken, id); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menghapus user. Silakan coba lagi.")
		if handled {
			return
		}
		redirectUsersError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/users")
}

func redirectUsersError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/dashboard/users?error="+queryEscape(msg))
}
