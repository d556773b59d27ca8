package main

import (
	"net/http"
	"strconv"
	"strings"

	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func transactionsPageHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "transactions"
	data["Error"] = c.Query("error")

	project, hasProject := sessionProject(sess)
	data["Search"] = strings.TrimSpace(c.Query("search"))
	data["Category"] = c.Query("category")
	data["Date"] = c.Query("date")
	if !hasProject {
		// no active project: skip the scoped fetch, show the empty list
		data["Transactions"] = []panelapi.Transaction{}
		data["Page"] = panelapi.Page{CurrentPage: 1, TotalPages: 1}
		render(c, http.StatusOK, "transactions.html", data)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	category := c.Query("category")
	if category == "all" {
		category = ""
	}
	q := panelapi.TransactionQuery{
		Search:        strings.TrimSpace(c.Query("search")),
		Type:          category,
		TransactionAt: c.Query("date"),
		WarehouseID:   project.ID,
		Page:          page,
		PerPage:       10,
	}
	rows, paging, err := apiClient.ListTransactions(c.Request.Context(), sess.BearerToken, q)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memuat transaksi. Silakan coba lagi.")
		if handled {
			return
		}
		data["Error"] = msg
		render(c, http.StatusOK, "transactions.html", data)
		return
	}
	data["Transactions"] = rows
	data["Page"] = paging
	render(c, http.StatusOK, "transactions.html", data)
}

func transactionViewHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
		return
	}
	tx, err := apiClient.GetTransaction(c.Request.Context(), sess.BearerToken, id.String())
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal memuat transaksi. Silakan coba lagi.")
		if handled {
			return
		}
		c.Redirect(http.StatusSeeOther, "/dashboard/transactions?error="+queryEscape(msg))
		return
	}
	data := basePageData(c, sess)
	data["Active"] = "transactions"
	data["Tx"] = tx
	data["InvoiceIsImage"] = strings.HasPrefix(tx.InvoiceFile, "data:image/")
	data["InvoiceIsPDF"] = strings.HasPrefix(tx.InvoiceFile, "data:application/pdf")
	render(c, http.StatusOK, "transaction_view.html", data)
}

// deleteTransactionHandler runs after the page's confirm dialog.
func deleteTransactionHandler(c *gin.Context) {
	sess := currentSession(c)
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
		return
	}
	if err := apiClient.DeleteTransaction(c.Request.Context(), sess.BearerToken, id.String()); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal menghapus transaksi. Silakan coba lagi.")
		if handled {
			return
		}
		c.Redirect(http.StatusSeeOther, "/dashboard/transactions?error="+queryEscape(msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/transactions")
}

// exportTransactionsHandler proxies the backend PDF straight through as a
// download.
func exportTransactionsHandler(c *gin.Context) {
	sess := currentSession(c)
	q := panelapi.ExportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Type:      c.DefaultQuery("type", "all"),
	}
	blob, err := apiClient.ExportTransactionsPDF(c.Request.Context(), sess.BearerToken, q)
	if err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal mengekspor PDF. Silakan coba lagi.")
		if handled {
			return
		}
		c.Redirect(http.StatusSeeOther, "/dashboard/transactions?error="+queryEscape(msg))
		return
	}
	name := "transactions-" + uuid.NewString() + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", blob)
}
