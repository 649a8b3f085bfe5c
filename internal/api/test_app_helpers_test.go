package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/idolanuel5885/serenity-plus/internal/db"
	"github.com/idolanuel5885/serenity-plus/internal/realtime"
	"github.com/idolanuel5885/serenity-plus/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecretKey   = "test-secret-key"
	testOperatorKey = "test-operator-key"
)

func newLifecycleTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "serenity-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repos := db.NewRepositories(database)

	weekService := services.NewWeekService(repos.Weeks, repos.Partnerships)
	accountService := services.NewAccountService(repos.Users)
	partnershipService := services.NewPartnershipService(repos.Partnerships, repos.Users, weekService)
	sessionService := services.NewSessionService(
		repos.Sessions, repos.Weeks, repos.Users, repos.Partnerships,
		weekService, nil, realtime.NoopPublisher{},
	)
	recoveryService := services.NewRecoveryService(repos.Users, nil)
	healthService := services.NewHealthService(repos.WeekCreationLogs, repos.Partnerships, nil)

	operatorKeyHash, err := bcrypt.GenerateFromPassword([]byte(testOperatorKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash operator key: %v", err)
	}

	handler := NewHandler(HandlerConfig{
		Accounts:        accountService,
		Partnerships:    partnershipService,
		Weeks:           weekService,
		Sessions:        sessionService,
		Health:          healthService,
		Recovery:        recoveryService,
		SecretKey:       testSecretKey,
		OperatorKeyHash: string(operatorKeyHash),
	})

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, payload any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})

	decoded := map[string]any{}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response body %q: %v", raw, err)
		}
	}
	return response, decoded
}

// createTestUser registers a user through the public endpoint and returns the
// created id and invite code.
func createTestUser(t *testing.T, app *fiber.App, name string, email string, weeklyTarget int) (uint, string) {
	t.Helper()

	response, body := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"name":         name,
		"email":        email,
		"weeklyTarget": weeklyTarget,
	}, nil)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create user %s: status %d, body %v", email, response.StatusCode, body)
	}

	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("create user %s: missing id in %v", email, body)
	}
	code, ok := body["inviteCode"].(string)
	if !ok || code == "" {
		t.Fatalf("create user %s: missing invite code in %v", email, body)
	}
	return uint(id), code
}

// pairTestUsers redeems the inviter's code for the requester and returns the
// partnership id.
func pairTestUsers(t *testing.T, app *fiber.App, requesterID uint, inviteCode string) uint {
	t.Helper()

	response, body := doJSON(t, app, http.MethodPost, "/api/partnerships", fiber.Map{
		"requesterId": requesterID,
		"inviteCode":  inviteCode,
	}, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("create partnership: status %d, body %v", response.StatusCode, body)
	}

	id, ok := body["partnershipId"].(float64)
	if !ok {
		t.Fatalf("create partnership: missing partnershipId in %v", body)
	}
	return uint(id)
}

func operatorToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	response, body := doJSON(t, app, http.MethodPost, "/api/admin/login", fiber.Map{"key": testOperatorKey}, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("operator login: status %d, body %v", response.StatusCode, body)
	}
	token, ok := body["token"].(string)
	if !ok || token == "" {
		t.Fatalf("operator login: missing token in %v", body)
	}
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: fmt.Sprintf("Bearer %s", token)}
}
