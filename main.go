package main

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"

	"panelkeu/pkg/panelapi"

	"github.com/gin-gonic/gin"
)

var (
	sessionSecret []byte // loaded from env SESSION_SECRET (fallback to dev default)
	apiClient     *panelapi.Client
	projects      *projectStore
	ocrEnabled    bool
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	sessionSecret = []byte(secret)

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		log.Fatal("API_BASE_URL is not set. The panel needs the backend base URL.")
	}
	apiClient = panelapi.New(baseURL)
	ocrEnabled = envBool("OCR_ENABLED", false)

	// Support a lightweight migrate command: `./panelkeu migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		log.Println("migration completed")
		return
	}

	initDB()
	projects = newProjectStore()

	if err := loadTemplates(); err != nil {
		log.Fatal("failed to load templates:", err)
	}
	if gin.Mode() == gin.DebugMode {
		go watchTemplates()
	}

	r := gin.Default()

	setupRoutes(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	r.Run(addr)
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes"
}
