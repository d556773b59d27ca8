package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"panelkeu/pkg/formfield"
	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

// formBuilderPageHandler manages the dynamic field schema of the active
// project. ?edit=<id> loads that definition into the editor and hides it
// from the listing below.
func formBuilderPageHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "form-builder"
	data["Error"] = c.Query("error")
	data["FieldTypes"] = formfield.TypeNames()

	project, ok := sessionProject(sess)
	if !ok {
		data["Fields"] = []panelapi.FormField{}
		render(c, http.StatusOK, "formbuilder.html", data)
		return
	}

	fields, err := apiClient.ListFormFields(c.Request.Context(), sess.BearerToken, project.ID)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memuat field. Silakan coba lagi.")
		if handled {
			return
		}
		data["Error"] = msg
		fields = nil
	}

	editID, _ := strconv.ParseInt(c.Query("edit"), 10, 64)
	if editID > 0 {
		listed := fields[:0]
		for _, f := range fields {
			if f.ID == editID {
				data["Editing"] = f
				continue
			}
			listed = append(listed, f)
		}
		fields = listed
	}
	data["Fields"] = fields
	render(c, http.StatusOK, "formbuilder.html", data)
}

// saveFormFieldHandler creates a definition, or updates one when the hidden
// id input is set. The wire name is always re-derived from the label.
func saveFormFieldHandler(c *gin.Context) {
	sess := currentSession(c)
	project, ok := sessionProject(sess)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/dashboard/form-builder")
		return
	}

	label := strings.TrimSpace(c.PostForm("label"))
	if label == "" {
		redirectFormBuilderError(c, "Label wajib diisi")
		return
	}
	typ, err := formfield.ParseType(c.PostForm("type"))
	if err != nil {
		redirectFormBuilderError(c, "Tipe field tidak dikenali")
		return
	}

	in := panelapi.FormField{
		Name:        formfield.DeriveName(label),
		Label:       label,
		Type:        typ.String(),
		Required:    c.PostForm("required") == "on",
		WarehouseID: project.ID,
	}
	if typ == formfield.TypeSelect {
		// one value per option row, blanks dropped
		for _, raw := range c.PostFormArray("options") {
			if v := strings.TrimSpace(raw); v != "" {
				in.Options = append(in.Options, v)
			}
		}
		if len(in.Options) == 0 {
			redirectFormBuilderError(c, "Field pilihan membutuhkan minimal satu opsi")
			return
		}
	}

	editID, _ := strconv.ParseInt(c.PostForm("id"), 10, 64)
	key := fmt.Sprintf("%d:field:%d", sess.ID, editID)
	if !beginSubmit(key) {
		c.Redirect(http.StatusSeeOther, "/dashboard/form-builder")
		return
	}
	defer endSubmit(key)

	if editID > 0 {
		err = apiClient.UpdateFormField(c.Request.Context(), sess.BearerToken, editID, in)
	} else {
		err = apiClient.CreateFormField(c.Request.Context(), sess.BearerToken, in)
	}
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menyimpan field. Silakan coba lagi.")
		if handled {
			return
		}
		redirectFormBuilderError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/form-builder")
}

func deleteFormFieldHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Redirect(http.StatusSeeOther, "/dashboard/form-builder")
		return
	}
	if err := apiClient.DeleteFormField(c.Request.Context(), sess.BearerToken, id); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menghapus field. Silakan coba lagi.")
		if handled {
			return
		}
		redirectFormBuilderError(c, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/form-builder")
}

func redirectFormBuilderError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/dashboard/form-builder?error="+queryEscape(msg))
}
