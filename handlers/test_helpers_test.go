package handlers

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"legalcase_app_go/config"
	"legalcase_app_go/db"
	"legalcase_app_go/middleware"
	"legalcase_app_go/models"
	"legalcase_app_go/services"
	"legalcase_app_go/services/docstore"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	store       *docstore.MemoryStore
	coordinator *services.CaseCoordinator
}

func setupTestEnv(t *testing.T) *testEnv {
	// Use unique shared memory name to isolate tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.New().String())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Case{}))

	// Set global DB
	db.DB = testDB

	store := docstore.NewMemoryStore()
	return &testEnv{
		db:          testDB,
		store:       store,
		coordinator: services.NewCaseCoordinator(services.NewCaseRecordStore(testDB), store.Cases(), services.MockAnalysisEngine{}),
	}
}

func (env *testEnv) createUser(t *testing.T, role string) *models.User {
	user := &models.User{
		Name:     "User " + role,
		Email:    uuid.New().String() + "@test.com",
		Password: "hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

// setupEcho builds a JSON request context carrying the config, the services
// and the calling user.
func (env *testEnv) setupEcho(method, path string, body io.Reader, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment:     "test",
		DefaultPageSize: config.DefaultPageSize,
		MaxPageSize:     config.DefaultMaxPageSize,
	})
	c.Set(middleware.ContextKeyCoordinator, env.coordinator)
	c.Set(middleware.ContextKeyResearch, env.store.Research())
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
	}
	return c, rec
}

// httpCode extracts the status of an echo.HTTPError
func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T: %v", err, err)
	return he.Code
}

func withParam(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}
