package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"panelkeu/models"
	"panelkeu/pkg/formfield"
	"panelkeu/pkg/invoicescan"
	"panelkeu/pkg/panelapi"
	"panelkeu/pkg/rupiah"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxInvoiceBytes is the hard ceiling for an attached invoice: 300KB of raw
// file, checked before base64 encoding.
const maxInvoiceBytes = 300 * 1024

// dynamicFieldView is one rendered "Informasi Tambahan" control.
type dynamicFieldView struct {
	Label    string
	Required bool
	Control  template.HTML
}

// loadFieldDefinitions fetches and decodes the active project's schema.
// Definitions with an unknown type tag are dropped with a warning instead of
// being guessed at.
func loadFieldDefinitions(c *gin.Context, sess *models.Session, warehouseID int64) ([]formfield.Definition, error) {
	fields, err := apiClient.ListFormFields(c.Request.Context(), sess.BearerToken, warehouseID)
	if err != nil {
		return nil, err
	}
	defs := make([]formfield.Definition, 0, len(fields))
	for _, f := range fields {
		typ, err := formfield.ParseType(f.Type)
		if err != nil {
			log.Printf("form field %d (%s): %v, skipped", f.ID, f.Label, err)
			continue
		}
		defs = append(defs, formfield.Definition{
			ID:          f.ID,
			Name:        f.Name,
			Label:       f.Label,
			Type:        typ,
			Required:    f.Required,
			Options:     f.Options,
			WarehouseID: f.WarehouseID,
		})
	}
	return defs, nil
}

func renderDynamicFields(defs []formfield.Definition, stored []formfield.Datum) []dynamicFieldView {
	views := make([]dynamicFieldView, 0, len(defs))
	for _, def := range defs {
		views = append(views, dynamicFieldView{
			Label:    def.Label,
			Required: def.Required,
			Control:  formfield.Render(def, formfield.ValueByKey(stored, def.Name)),
		})
	}
	return views
}

// transactionFormHandler serves both the add form and, when a uuid route
// param is present, the same form pre-populated for editing.
func transactionFormHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "transactions"
	data["OCREnabled"] = ocrEnabled

	var tx panelapi.Transaction
	editMode := false
	if raw := c.Param("uuid"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
			return
		}
		tx, err = apiClient.GetTransaction(c.Request.Context(), sess.BearerToken, id.String())
		if err != nil {
			msg, handled := apiErrorMessage(c, err, "Gagal memuat transaksi. Silakan coba lagi.")
			if handled {
				return
			}
			c.Redirect(http.StatusSeeOther, "/dashboard/transactions?error="+queryEscape(msg))
			return
		}
		editMode = true
	}

	var views []dynamicFieldView
	if project, ok := sessionProject(sess); ok {
		defs, err := loadFieldDefinitions(c, sess, project.ID)
		if err != nil {
			if _, handled := apiErrorMessage(c, err, ""); handled {
				return
			}
			// schema fetch failure degrades to a form without extra fields
		} else {
			views = renderDynamicFields(defs, tx.AdditionalData)
		}
	}

	data["EditMode"] = editMode
	data["Tx"] = tx
	if tx.Amount != 0 {
		abs := tx.Amount
		if abs < 0 {
			abs = -abs
		}
		data["AmountAbs"] = abs
	}
	data["DynamicFields"] = views
	render(c, http.StatusOK, "transaction_form.html", data)
}

// submitTransactionHandler assembles the standard + dynamic payload and
// posts it as create or update.
func submitTransactionHandler(c *gin.Context) {
	sess := currentSession(c)
	project, hasProject := sessionProject(sess)

	editUUID := ""
	if raw := c.Param("uuid"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
			return
		}
		editUUID = id.String()
	}

	date := strings.TrimSpace(c.PostForm("date"))
	description := strings.TrimSpace(c.PostForm("description"))
	category := c.PostForm("category")
	if date == "" || description == "" || category == "" {
		rerenderTransactionForm(c, sess, editUUID, "Tanggal, deskripsi dan kategori wajib diisi")
		return
	}
	amountAbs, err := rupiah.ParseAmount(c.PostForm("amount"))
	if err != nil {
		rerenderTransactionForm(c, sess, editUUID, "Jumlah tidak valid")
		return
	}

	in := panelapi.TransactionInput{
		Date:          date,
		Description:   description,
		Amount:        rupiah.Signed(amountAbs, category),
		Category:      category,
		Status:        c.DefaultPostForm("status", "Selesai"),
		PaymentMethod: c.PostForm("payment_method"),
		Notes:         c.PostForm("notes"),
	}
	if hasProject {
		in.WarehouseID = project.ID
	}

	invoice, err := readInvoiceUpload(c)
	if err != nil {
		rerenderTransactionForm(c, sess, editUUID, err.Error())
		return
	}
	if invoice != "" {
		in.InvoiceFile = invoice
	} else if editUUID != "" {
		in.InvoiceFile = c.PostForm("existing_invoice") // keep the stored blob
	}

	if hasProject {
		defs, derr := loadFieldDefinitions(c, sess, project.ID)
		if derr != nil {
			if _, handled := apiErrorMessage(c, derr, ""); handled {
				return
			}
		} else {
			in.AdditionalData = formfield.Collect(c.Request.PostForm, defs)
		}
	}

	key := fmt.Sprintf("%d:tx:%s", sess.ID, editUUID)
	if editUUID == "" {
		key = fmt.Sprintf("%d:tx:new", sess.ID)
	}
	if !beginSubmit(key) {
		rerenderTransactionForm(c, sess, editUUID, "Permintaan sebelumnya masih diproses")
		return
	}
	defer endSubmit(key)

	if editUUID != "" {
		err = apiClient.UpdateTransaction(c.Request.Context(), sess.BearerToken, editUUID, in)
	} else {
		err = apiClient.CreateTransaction(c.Request.Context(), sess.BearerToken, in)
	}
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menyimpan transaksi. Silakan coba lagi.")
		if handled {
			return
		}
		rerenderTransactionForm(c, sess, editUUID, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
}

// readInvoiceUpload converts an attached invoice into a data-URL blob,
// enforcing the size ceiling on the raw bytes. No file is fine.
func readInvoiceUpload(c *gin.Context) (string, error) {
	header, err := c.FormFile("invoice")
	if err != nil {
		return "", nil // no attachment
	}
	if header.Size > maxInvoiceBytes {
		return "", errors.New("Ukuran file maksimal 300KB")
	}
	f, err := header.Open()
	if err != nil {
		return "", errors.New("Gagal membaca file. Silakan coba lagi.")
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return "", errors.New("Gagal membaca file. Silakan coba lagi.")
	}
	if len(raw) > maxInvoiceBytes {
		return "", errors.New("Ukuran file maksimal 300KB")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// rerenderTransactionForm shows the form again with an inline error. The
// file input always comes back cleared; everything else the user typed is
// left to the browser's back-fill.
func rerenderTransactionForm(c *gin.Context, sess *models.Session, editUUID, msg string) {
	data := basePageData(c, sess)
	data["Active"] = "transactions"
	data["OCREnabled"] = ocrEnabled
	data["Error"] = msg
	data["EditMode"] = editUUID != ""

	var tx panelapi.Transaction
	if editUUID != "" {
		if loaded, err := apiClient.GetTransaction(c.Request.Context(), sess.BearerToken, editUUID); err == nil {
			tx = loaded
		}
	}
	data["Tx"] = tx
	var views []dynamicFieldView
	if project, ok := sessionProject(sess); ok {
		if defs, err := loadFieldDefinitions(c, sess, project.ID); err == nil {
			views = renderDynamicFields(defs, tx.AdditionalData)
		}
	}
	data["DynamicFields"] = views
	render(c, http.StatusUnprocessableEntity, "transaction_form.html", data)
}

// scanInvoiceHandler OCRs an uploaded invoice and answers an amount
// suggestion for the form's Jumlah input. Advisory only.
func scanInvoiceHandler(c *gin.Context) {
	if !ocrEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "ocr disabled"})
		return
	}
	header, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if header.Size > maxInvoiceBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ukuran file maksimal 300KB"})
		return
	}
	tmp := filepath.Join(os.TempDir(), "panelkeu-scan-"+uuid.NewString()+filepath.Ext(header.Filename))
	if err := c.SaveUploadedFile(header, tmp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	defer os.Remove(tmp)

	best, ok, err := invoicescan.Scan(tmp)
	if err != nil {
		log.Printf("invoice scan: %v", err)
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "amount": best.Amount, "raw": best.Raw})
}
