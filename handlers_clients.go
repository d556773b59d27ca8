package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

// clientsPageHandler lists projects with search + pagination. The search box
// debounces client-side before navigating, so every request seen here is
// already settled input.
func clientsPageHandler(c *gin.Context) {
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
	data["Active"] = "clients"
	data["Search"] = q.Search
	data["Error"] = c.Query("error")

	rows, paging, err := apiClient.ListWarehouses(c.Request.Context(), sess.BearerToken, q)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Error fetching clients")
		if handled {
			return
		}
		data["Error"] = msg
		render(c, http.StatusOK, "clients.html", data)
		return
	}
	data["Clients"] = rows
	data["Page"] = paging
	render(c, http.StatusOK, "clients.html", data)
}

func clientInputFromForm(c *gin.Context) panelapi.WarehouseInput {
	status, _ := strconv.Atoi(c.DefaultPostForm("status", "1"))
	return panelapi.WarehouseInput{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Phone:    strings.TrimSpace(c.PostForm("phone")),
		Address:  strings.TrimSpace(c.PostForm("address")),
		Status:   status,
		Password: c.PostForm("password"),
	}
}

func createClientHandler(c *gin.Context) {
	sess := currentSession(c)
	in := clientInputFromForm(c)
	if in.Name == "" {
		redirectClientsError(c, "Nama wajib diisi")
		return
	}
	key := fmt.Sprintf("%d:client:new", sess.ID)
	if !beginSubmit(key) {
		redirectClientsError(c, "Permintaan sebelumnya masih diproses")
		return
	}
	defer endSubmit(key)

	if err := apiClient.CreateWarehouse(c.Request.Context(), sess.BearerToken, in); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menambahkan project. Silakan coba lagi.")
		if handled {
			return
		}
		redirectClientsError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/clients")
}

func updateClientHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectClientsError(c, "Project tidak ditemukan")
		return
	}
	in := clientInputFromForm(c)
	in.Password = "" // password only on create
	if in.Name == "" {
		redirectClientsError(c, "Nama wajib diisi")
		return
	}
	key := fmt.Sprintf("%d:client:%d", sess.ID, id)
	if !beginSubmit(key) {
		redirectClientsError(c, "Permintaan sebelumnya masih diproses")
		return
	}
	defer endSubmit(key)

	if err := apiClient.UpdateWarehouse(c.Request.Context(), sess.BearerToken, id, in); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memperbarui client. Silakan coba lagi.")
		if handled {
			return
		}
		redirectClientsError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/clients")
}

// deleteClientHandler runs after the confirm dialog on the page.
func deleteClientHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectClientsError(c, "Project tidak ditemukan")
		return
	}
	if err := apiClient.DeleteWarehouse(c.Request.Context(), sess.BearerToken, id); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menghapus client. Silakan coba lagi.")
		if handled {
			return
		}
		redirectClientsError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/clients")
}

func redirectClientsError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/dashboard/clients?error="+queryEscape(msg))
}
