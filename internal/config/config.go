package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig collects the settings the server needs at startup.
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	JWTSecret         string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	DefaultProfileURL string
	RootAdminUserName string
	RootAdminPassword string
	RootAdminEmail    string
}

// Load reads the application config from environment variables, falling back
// to safe defaults for anything missing. A .env file is honored when present.
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "codeshift.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "codeshift-dev-secret"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "codeshift-dev-jwt-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	defaultProfileURL := strings.TrimSpace(os.Getenv("DEFAULT_PROFILE_IMAGE_URL"))
	if defaultProfileURL == "" {
		defaultProfileURL = "/static/images/default_profile.png"
	}

	rootAdminUserName := strings.TrimSpace(os.Getenv("ROOT_ADMIN_USER_NAME"))
	rootAdminPassword := strings.TrimSpace(os.Getenv("ROOT_ADMIN_PASSWORD"))
	rootAdminEmail := strings.TrimSpace(os.Getenv("ROOT_ADMIN_EMAIL"))
	if rootAdminEmail == "" && rootAdminUserName != "" {
		rootAdminEmail = fmt.Sprintf("%s@localhost", rootAdminUserName)
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		JWTSecret:         jwtSecret,
		GinMode:           ginMode,
		UploadDir:         uploadDir,
		UploadURLPath:     uploadURLPath,
		DefaultProfileURL: defaultProfileURL,
		RootAdminUserName: rootAdminUserName,
		RootAdminPassword: rootAdminPassword,
		RootAdminEmail:    rootAdminEmail,
	}
}
