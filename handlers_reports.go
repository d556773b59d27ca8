package main

import (
	"net/http"
	"sort"
	"time"

	"panelkeu/pkg/panelapi"
	"panelkeu/pkg/rupiah"

	"github.com/gin-gonic/gin"
)

// maxReportPages caps the yearly fetch-all at 100 pages of 100 rows.
const maxReportPages = 100

// monthReport is one row of the laporan bulanan table.
type monthReport struct {
	Month        string // "2026-08"
	MonthLabel   string // "Agustus 2026"
	Income       int64
	Expense      int64
	Balance      int64
	Transactions int
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return monthNames[t.Month()-1] + " " + t.Format("2006")
}

// buildMonthlyReport groups transactions by their transaction_at month,
// newest month first.
func buildMonthlyReport(txs []panelapi.Transaction) []monthReport {
	byMonth := map[string][]int64{}
	for _, tx := range txs {
		if len(tx.Date) < 7 {
			continue
		}
		key := tx.Date[:7]
		byMonth[key] = append(byMonth[key], tx.Amount)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	rows := make([]monthReport, 0, len(keys))
	for _, k := range keys {
		income, expense, balance := rupiah.SumByCategory(byMonth[k])
		rows = append(rows, monthReport{
			Month:        k,
			MonthLabel:   monthLabel(k),
			Income:       income,
			Expense:      expense,
			Balance:      balance,
			Transactions: len(byMonth[k]),
		})
	}
	return rows
}

// reportsPageHandler shows monthly income/expense aggregates for the active
// project, scoped by an optional year filter.
func reportsPageHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "reports"

	project, ok := sessionProject(sess)
	if !ok {
		data["Rows"] = []monthReport{}
		render(c, http.StatusOK, "reports.html", data)
		return
	}

	year := c.DefaultQuery("year", time.Now().Format("2006"))
	data["Year"] = year

	var all []panelapi.Transaction
	q := panelapi.TransactionQuery{
		WarehouseID:   project.ID,
		TransactionAt: year,
		Page:          1,
		PerPage:       100,
	}
	// the exit conditions are backend-reported metadata, so the loop also
	// stops when the page number fails to advance or a hard bound is hit
	for fetched := 0; fetched < maxReportPages; fetched++ {
		txs, page, err := apiClient.ListTransactions(c.Request.Context(), sess.BearerToken, q)
		if err != nil {
			msg, handled := apiErrorMessage(c, err, "Gagal memuat laporan. Silakan coba lagi.")
			if handled {
				return
			}
			data["Error"] = msg
			break
		}
		all = append(all, txs...)
		next := page.CurrentPage + 1
		if !page.HasNext() || next <= q.Page {
			break
		}
		q.Page = next
	}

	rows := buildMonthlyReport(all)
	var amounts []int64
	for _, tx := range all {
		amounts = append(amounts, tx.Amount)
	}
	income, expense, balance := rupiah.SumByCategory(amounts)
	data["Rows"] = rows
	data["TotalIncome"] = income
	data["TotalExpense"] = expense
	data["TotalBalance"] = balance
	data["Footer"] = loadSettings(sessionUser(sess).ID).ReportFooter
	render(c, http.StatusOK, "reports.html", data)
}
