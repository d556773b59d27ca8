package main

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"panelkeu/models"
	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// setupTestServer wires the router against a fake backend and a throwaway
// sqlite session store.
func setupTestServer(t *testing.T, backend http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	apiClient = panelapi.New(srv.URL)

	var err error
	db, err = gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}, &models.Preference{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sessionSecret = []byte("test-secret")
	projects = newProjectStore()
	ocrEnabled = false
	if err := loadTemplates(); err != nil {
		t.Fatalf("load templates: %v", err)
	}

	r := gin.New()
	setupRoutes(r)
	return r
}

func performRequest(r *gin.Engine, method, path string, body *bytes.Buffer, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(req *http.Request) { req.AddCookie(c) }
}

func formBody(values url.Values) *bytes.Buffer {
	return bytes.NewBufferString(values.Encode())
}

// seedSession inserts a session row directly and returns the matching signed
// cookie, bypassing the login roundtrip.
func seedSession(t *testing.T, role int, warehouseID int64, warehouseName string) *http.Cookie {
	t.Helper()
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	sid := hex.EncodeToString(b)

	userJSON, _ := json.Marshal(panelapi.SessionUser{ID: 7, Name: "Tester", Email: "t@example.com", Role: role})
	sess := models.Session{
		TokenHash:     hashSessionID(sid),
		BearerToken:   "backend-token",
		UserJSON:      string(userJSON),
		Role:          role,
		WarehouseID:   warehouseID,
		WarehouseName: warehouseName,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": sess.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(sessionSecret)
	if err != nil {
		t.Fatalf("sign cookie: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: signed}
}

func warehousesJSON(list ...panelapi.Warehouse) string {
	type page struct {
		CurrentPage int                  `json:"current_page"`
		LastPage    int                  `json:"last_page"`
		PerPage     int                  `json:"per_page"`
		Data        []panelapi.Warehouse `json:"data"`
	}
	blob, _ := json.Marshal(map[string]any{"data": page{CurrentPage: 1, LastPage: 1, PerPage: 10, Data: list}})
	return string(blob)
}

func TestDashboardRequiresLogin(t *testing.T) {
	r := setupTestServer(t, http.NewServeMux())

	w := performRequest(r, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestAuthGateRejectsForgedCookie(t *testing.T) {
	r := setupTestServer(t, http.NewServeMux())

	// same claims, wrong key
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "deadbeef",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("wrong-secret"))
	w := performRequest(r, http.MethodGet, "/dashboard", nil,
		withCookie(&http.Cookie{Name: sessionCookieName, Value: signed}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("forged cookie should bounce to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":{"token":"tok-1","user":{"id":1,"name":"Admin","email":"a@b.c","role":1}}}`)
	})
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama", Status: 1}))
	})
	r := setupTestServer(t, mux)

	w := performRequest(r, http.MethodPost, "/login",
		formBody(url.Values{"email": {"a@b.c"}, "password": {"rahasia"}}))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %q", w.Code, w.Header().Get("Location"))
	}
	cookieHeader := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookieHeader, sessionCookieName+"=") {
		t.Fatalf("expected session cookie, got %q", cookieHeader)
	}

	// the first project becomes the active one
	var sess models.Session
	if err := db.First(&sess).Error; err != nil {
		t.Fatalf("session row missing: %v", err)
	}
	if sess.WarehouseID != 3 || sess.WarehouseName != "Gudang Utama" {
		t.Fatalf("default project not stored: %+v", sess)
	}
	if sess.BearerToken != "tok-1" {
		t.Fatalf("bearer token not stored: %q", sess.BearerToken)
	}
}

func TestLoginRejectsEmptyFields(t *testing.T) {
	r := setupTestServer(t, http.NewServeMux())
	w := performRequest(r, http.MethodPost, "/login", formBody(url.Values{"email": {""}, "password": {""}}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected inline error page, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email dan password wajib diisi") {
		t.Fatalf("missing validation message in body")
	}
}

func TestForcedLogoutOnBackend401(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodGet, "/dashboard/transactions", nil, withCookie(cookie))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != forcedLogoutRoute {
		t.Fatalf("expected forced-logout redirect, got %q", loc)
	}
	var count int64
	db.Model(&models.Session{}).Count(&count)
	if count != 0 {
		t.Fatalf("session row should be deleted after forced logout, found %d", count)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), sessionCookieName+"=;") {
		t.Fatalf("cookie not cleared: %q", w.Header().Get("Set-Cookie"))
	}
}

func TestValidationMessageShownVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON())
	})
	mux.HandleFunc("POST /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Nama sudah digunakan"}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 0, "")

	w := performRequest(r, http.MethodPost, "/dashboard/clients",
		formBody(url.Values{"name": {"Gudang Baru"}}), withCookie(cookie))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect with error, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("Nama sudah digunakan")) {
		t.Fatalf("server message not carried verbatim: %q", loc)
	}
}

func TestStaffBlockedFromManagementPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON())
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleStaff, 0, "")

	for _, path := range []string{"/dashboard/clients", "/dashboard/users", "/dashboard/form-builder"} {
		w := performRequest(r, http.MethodGet, path, nil, withCookie(cookie))
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
			t.Fatalf("%s: staff should be bounced to dashboard, got %d %q",
				path, w.Code, w.Header().Get("Location"))
		}
	}
}

func multipartTransaction(t *testing.T, invoiceSize int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("date", "2026-08-01")
	_ = mw.WriteField("description", "Pembelian ATK")
	_ = mw.WriteField("category", "Pengeluaran")
	_ = mw.WriteField("amount", "250.000")
	if invoiceSize > 0 {
		fw, err := mw.CreateFormFile("invoice", "nota.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := fw.Write(bytes.Repeat([]byte{0xAB}, invoiceSize)); err != nil {
			t.Fatalf("write blob: %v", err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestInvoiceSizeCap(t *testing.T) {
	var created atomic.Int32
	var gotAmount atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	mux.HandleFunc("GET /api/form-fields", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("POST /api/transactions", func(w http.ResponseWriter, r *http.Request) {
		var in panelapi.TransactionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode create payload: %v", err)
		}
		gotAmount.Store(in.Amount)
		created.Add(1)
		fmt.Fprint(w, `{"status":"success"}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	// exactly at the limit: accepted
	body, contentType := multipartTransaction(t, maxInvoiceBytes)
	w := performRequest(r, http.MethodPost, "/dashboard/transactions/add", body,
		withCookie(cookie),
		func(req *http.Request) { req.Header.Set("Content-Type", contentType) })
	if w.Code != http.StatusSeeOther {
		t.Fatalf("at-limit upload should pass, got %d: %s", w.Code, w.Body.String())
	}
	if created.Load() != 1 {
		t.Fatalf("transaction not created")
	}
	if gotAmount.Load() != -250000 {
		t.Fatalf("pengeluaran amount should be signed negative, got %d", gotAmount.Load())
	}

	// one byte over: rejected inline, nothing sent to the backend
	body, contentType = multipartTransaction(t, maxInvoiceBytes+1)
	w = performRequest(r, http.MethodPost, "/dashboard/transactions/add", body,
		withCookie(cookie),
		func(req *http.Request) { req.Header.Set("Content-Type", contentType) })
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("oversize upload should re-render the form, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ukuran file maksimal 300KB") {
		t.Fatalf("missing size error in body")
	}
	if created.Load() != 1 {
		t.Fatalf("oversize upload must not reach the backend")
	}
}

func TestProjectSelectionBroadcasts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(
			panelapi.Warehouse{ID: 3, Name: "Gudang Utama"},
			panelapi.Warehouse{ID: 9, Name: "Cabang Bandung"},
		))
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	var sess models.Session
	if err := db.First(&sess).Error; err != nil {
		t.Fatalf("session row missing: %v", err)
	}
	ch, cancel := projects.Subscribe(sess.ID)
	defer cancel()

	w := performRequest(r, http.MethodPost, "/dashboard/project",
		formBody(url.Values{"warehouse_id": {"9"}, "next": {"/dashboard/transactions"}}),
		withCookie(cookie))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard/transactions" {
		t.Fatalf("unexpected redirect: %d %q", w.Code, w.Header().Get("Location"))
	}

	select {
	case p := <-ch:
		if p.ID != 9 || p.Name != "Cabang Bandung" {
			t.Fatalf("broadcast carried %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	if err := db.First(&sess, sess.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if sess.WarehouseID != 9 || sess.WarehouseName != "Cabang Bandung" {
		t.Fatalf("selection not persisted: %+v", sess)
	}
}

func TestProjectSelectionRejectsUnknownID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	performRequest(r, http.MethodPost, "/dashboard/project",
		formBody(url.Values{"warehouse_id": {"999"}}), withCookie(cookie))

	var sess models.Session
	db.First(&sess)
	if sess.WarehouseID != 3 {
		t.Fatalf("unknown project id must not be stored, got %d", sess.WarehouseID)
	}
}

func TestTransactionsPageWithoutProject(t *testing.T) {
	var backendHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON())
	})
	mux.HandleFunc("GET /api/transactions", func(w http.ResponseWriter, _ *http.Request) {
		backendHits.Add(1)
		fmt.Fprint(w, `{"data":{"current_page":1,"last_page":1,"per_page":10,"data":[]}}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 0, "")

	w := performRequest(r, http.MethodGet, "/dashboard/transactions", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("expected empty-state page, got %d", w.Code)
	}
	if backendHits.Load() != 0 {
		t.Fatalf("no scoped fetch may happen without an active project")
	}
	if !strings.Contains(w.Body.String(), "Pilih project terlebih dahulu") {
		t.Fatalf("missing empty state message")
	}
}

func TestTransactionsPaginationControls(t *testing.T) {
	var fetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	mux.HandleFunc("GET /api/transactions", func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		if got := r.URL.Query().Get("warehouse_id"); got != "3" {
			t.Errorf("fetch not scoped to active project, warehouse_id=%q", got)
		}
		fmt.Fprint(w, `{"data":{"current_page":1,"last_page":4,"per_page":10,"data":[
			{"uuid":"2f67e2f1-6c44-4a15-9a0e-58f9f04e2f11","transaction_at":"2026-08-01",
			 "description":"Penjualan","amount":150000,"category":"Pemasukan","status":"Selesai"}]}}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodGet, "/dashboard/transactions", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	if fetches.Load() != 1 {
		t.Fatalf("expected exactly one list fetch, got %d", fetches.Load())
	}
	html := w.Body.String()
	if !strings.Contains(html, "Halaman 1 dari 4") {
		t.Fatalf("missing page indicator")
	}
	// page 1 of 4: previous disabled, next enabled
	if !strings.Contains(html, "disabled>Sebelumnya") {
		t.Fatalf("previous control should be disabled on page 1")
	}
	if strings.Contains(html, "disabled>Berikutnya") {
		t.Fatalf("next control should be enabled")
	}
	if !strings.Contains(html, "Rp 150.000") {
		t.Fatalf("amount not formatted as rupiah")
	}
}

func TestFormBuilderDerivesFieldName(t *testing.T) {
	var got panelapi.FormField
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	mux.HandleFunc("GET /api/form-fields", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("POST /api/form-fields", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode field payload: %v", err)
		}
		fmt.Fprint(w, `{"status":"success"}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodPost, "/dashboard/form-builder",
		formBody(url.Values{
			"label":    {"Nomor Invoice "},
			"type":     {"select"},
			"options":  {"A", "  B  ", ""},
			"required": {"on"},
		}), withCookie(cookie))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("got %d", w.Code)
	}
	if got.Name != "nomorinvoice" {
		t.Fatalf("derived name = %q", got.Name)
	}
	if got.Label != "Nomor Invoice" || !got.Required || got.WarehouseID != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if len(got.Options) != 2 || got.Options[0] != "A" || got.Options[1] != "B" {
		t.Fatalf("options not normalized: %v", got.Options)
	}
}

func TestFormBuilderRejectsUnknownType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodPost, "/dashboard/form-builder",
		formBody(url.Values{"label": {"Prioritas"}, "type": {"checkbox"}}), withCookie(cookie))
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("Tipe field tidak dikenali")) {
		t.Fatalf("unknown type must be rejected, got %q", loc)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON())
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 0, "")

	w := performRequest(r, http.MethodPost, "/dashboard/settings",
		formBody(url.Values{"company_name": {"PT Contoh"}, "report_footer": {"Rahasia"}}),
		withCookie(cookie))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("save failed: %d", w.Code)
	}

	w = performRequest(r, http.MethodGet, "/dashboard/settings", nil, withCookie(cookie))
	if !strings.Contains(w.Body.String(), "PT Contoh") {
		t.Fatalf("stored settings not rendered")
	}

	// second save updates in place
	w = performRequest(r, http.MethodPost, "/dashboard/settings",
		formBody(url.Values{"company_name": {"PT Contoh Baru"}}), withCookie(cookie))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("second save failed: %d", w.Code)
	}
	var count int64
	db.Model(&models.Preference{}).Count(&count)
	if count != 1 {
		t.Fatalf("preference rows = %d, want upsert into 1", count)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON())
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 0, "")

	w := performRequest(r, http.MethodPost, "/dashboard/settings/password",
		formBody(url.Values{
			"current_password": {"lama"},
			"new_password":     {"baru"},
			"confirm_password": {"beda"},
		}), withCookie(cookie))
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("Konfirmasi password tidak cocok")) {
		t.Fatalf("mismatch must be rejected locally, got %q", loc)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	r := setupTestServer(t, http.NewServeMux())
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodPost, "/logout", formBody(url.Values{}), withCookie(cookie))
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != loginRoute {
		t.Fatalf("unexpected redirect: %d %q", w.Code, w.Header().Get("Location"))
	}
	var count int64
	db.Model(&models.Session{}).Count(&count)
	if count != 0 {
		t.Fatalf("session row survived logout")
	}
}

func TestProjectEventsStreamDeliversSelection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(
			panelapi.Warehouse{ID: 3, Name: "Gudang Utama"},
			panelapi.Warehouse{ID: 9, Name: "Cabang Bandung"},
		))
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	var sess models.Session
	if err := db.First(&sess).Error; err != nil {
		t.Fatalf("session row missing: %v", err)
	}

	front := httptest.NewServer(r)
	t.Cleanup(front.Close)

	// change the selection once the stream handler has subscribed
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			projects.mu.Lock()
			n := len(projects.subs[sess.ID])
			projects.mu.Unlock()
			if n > 0 {
				performRequest(r, http.MethodPost, "/dashboard/project",
					formBody(url.Values{"warehouse_id": {"9"}}), withCookie(cookie))
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Error("stream never subscribed")
	}()

	req, err := http.NewRequest(http.MethodGet, front.URL+"/dashboard/events", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.AddCookie(cookie)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Fatalf("content type = %q", got)
	}

	var event []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // end of first event
		}
		event = append(event, line)
	}
	joined := strings.Join(event, "\n")
	if !strings.Contains(joined, "event:project") {
		t.Fatalf("expected a project event, got %q", joined)
	}
	if !strings.Contains(joined, "Cabang Bandung") || !strings.Contains(joined, `"id":9`) {
		t.Fatalf("event payload missing selection: %q", joined)
	}
}

func TestEventsRouteAnswers401AsJSON(t *testing.T) {
	r := setupTestServer(t, http.NewServeMux())
	w := performRequest(r, http.MethodGet, "/dashboard/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("stream route must not redirect, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unauthorized") {
		t.Fatalf("expected JSON error body, got %q", w.Body.String())
	}
}

func TestReportsSurviveStalledPagination(t *testing.T) {
	var fetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	// paginator metadata never advances, as a buggy backend would echo it
	mux.HandleFunc("GET /api/transactions", func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		fmt.Fprint(w, `{"data":{"current_page":1,"last_page":99,"per_page":100,"data":[
			{"uuid":"2f67e2f1-6c44-4a15-9a0e-58f9f04e2f11","transaction_at":"2026-03-05",
			 "description":"Penjualan","amount":150000,"category":"Pemasukan","status":"Selesai"}]}}`)
	})
	r := setupTestServer(t, mux)
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodGet, "/dashboard/reports?year=2026", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	// page 1 is fetched, page 2 comes back claiming to be page 1 again, stop
	if got := fetches.Load(); got != 2 {
		t.Fatalf("expected the fetch loop to stop after 2 requests, got %d", got)
	}
	if !strings.Contains(w.Body.String(), "Maret 2026") {
		t.Fatalf("fetched rows missing from the report")
	}
}

func TestScanSuggestionNeverOverridesTypedAmount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/warehouses", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, warehousesJSON(panelapi.Warehouse{ID: 3, Name: "Gudang Utama"}))
	})
	mux.HandleFunc("GET /api/form-fields", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	r := setupTestServer(t, mux)
	ocrEnabled = true
	cookie := seedSession(t, panelapi.RoleAdmin, 3, "Gudang Utama")

	w := performRequest(r, http.MethodGet, "/dashboard/transactions/add", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	// the scan script fills the amount input only while it is still empty
	if !strings.Contains(w.Body.String(), `amount.value.trim() === ""`) {
		t.Fatalf("scan suggestion guard missing from the form page")
	}
}

func TestExpiredSessionSweep(t *testing.T) {
	setupTestServer(t, http.NewServeMux())

	db.Create(&models.Session{TokenHash: "h1", BearerToken: "x", Role: 1,
		ExpiresAt: time.Now().Add(-time.Hour)})
	db.Create(&models.Session{TokenHash: "h2", BearerToken: "x", Role: 1,
		ExpiresAt: time.Now().Add(time.Hour), Revoked: true})
	db.Create(&models.Session{TokenHash: "h3", BearerToken: "x", Role: 1,
		ExpiresAt: time.Now().Add(time.Hour)})

	sweepExpiredSessions()

	var rest []models.Session
	db.Find(&rest)
	if len(rest) != 1 || rest[0].TokenHash != "h3" {
		t.Fatalf("sweep kept %+v", rest)
	}
}
