package main

import (
	"encoding/json"
	"net/http"

	"panelkeu/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// panelSettings is the settings page blob, stored locally per backend user.
type panelSettings struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`
	ReportFooter   string `json:"report_footer"`
}

func loadSettings(userID int64) panelSettings {
	var pref models.Preference
	var s panelSettings
	if err := db.Where("user_id = ?", userID).First(&pref).Error; err == nil {
		_ = json.Unmarshal([]byte(pref.SettingsJSON), &s)
	}
	return s
}

func storeSettings(userID int64, s panelSettings) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pref := models.Preference{UserID: userID, SettingsJSON: string(blob)}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings_json", "updated_at"}),
	}).Create(&pref).Error
}

func settingsPageHandler(c *gin.Context) {
	sess := currentSession(c)
	data := basePageData(c, sess)
	data["Active"] = "settings"
	data["Settings"] = loadSettings(sessionUser(sess).ID)
	data["Error"] = c.Query("error")
	data["Saved"] = c.Query("saved") == "true"
	render(c, http.StatusOK, "settings.html", data)
}

func saveSettingsHandler(c *gin.Context) {
	sess := currentSession(c)
	s := panelSettings{
		CompanyName:    c.PostForm("company_name"),
		CompanyAddress: c.PostForm("company_address"),
		CompanyPhone:   c.PostForm("company_phone"),
		ReportFooter:   c.PostForm("report_footer"),
	}
	if err := storeSettings(sessionUser(sess).ID, s); err != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error="+queryEscape("Gagal menyimpan pengaturan. Silakan coba lagi."))
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/settings?saved=true")
}

// changePasswordHandler relays the password change to the backend. The panel
// never stores credentials, so mismatch checks are the only local validation.
func changePasswordHandler(c *gin.Context) {
	sess := currentSession(c)
	current := c.PostForm("current_password")
	updated := c.PostForm("new_password")
	confirm := c.PostForm("confirm_password")

	if current == "" || updated == "" || confirm == "" {
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error="+queryEscape("Semua kolom password wajib diisi"))
		return
	}
	if updated != confirm {
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error="+queryEscape("Konfirmasi password tidak cocok"))
		return
	}
	if err := apiClient.ChangePassword(c.Request.Context(), sess.BearerToken, current, updated); err != nil {
		msg, handled := apiErrorMessage(c, err, "Gagal mengubah password. Silakan coba lagi.")
		if handled {
			return
		}
		c.Redirect(http.StatusSeeOther, "/dashboard/settings?error="+queryEscape(msg))
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard/settings?saved=true")
}
