package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard_backend/internal/app"
	"jobboard_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestServer - полный HTTP стек приложения поверх изолированной
// in-memory БД. Каждый тест получает собственную БД, поэтому тесты
// не мешают друг другу и могут идти параллельно.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()

	// Уникальное имя, чтобы пул соединений GORM видел одну и ту же БД,
	// а параллельные тесты - разные
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get *sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	router := app.SetupRouter(cfg, db)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server: server,
		DB:     db,
		Config: cfg,
	}
	t.Cleanup(ts.Close)
	return ts
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "production" // тише логи в тестах
	cfg.JWT.Secret = "test-secret-do-not-use-in-prod"
	cfg.JWT.AccessExpiry = "1h"
	cfg.JWT.RefreshExpiry = "168h"
	cfg.JWT.LeewaySeconds = 30
	// Лимитер не должен срабатывать в тестах
	cfg.RateLimit.AuthRPS = 1000
	cfg.RateLimit.AuthBurst = 1000
	return cfg
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest выполняет JSON запрос к тестовому серверу и возвращает
// ответ вместе с прочитанным телом.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
