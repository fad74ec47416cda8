package integration_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/cinema-room-scheduling/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinema_rooms"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

// BaseSuite runs the application against real postgres and redis containers
// shared by every test of the suite.
type BaseSuite struct {
	suite.Suite
	app            *TestApp
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	dbContainer, err := getDbContainer(ctx)
	s.Require().NoError(err, "postgres container")
	s.dbContainer = dbContainer

	cacheContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err, "redis container")
	s.cacheContainer = cacheContainer

	testApp, err := newTestApp(suiteConfig(dbContainer.ConnectionString, cacheContainer.ConnectionString))
	s.Require().NoError(err, "test app")
	s.app = testApp
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		s.app.Close()
	}

	terminate := func(c testcontainers.Container) {
		if err := testcontainers.TerminateContainer(c); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}

	if s.dbContainer != nil {
		terminate(s.dbContainer.Container)
	}
	if s.cacheContainer != nil {
		terminate(s.cacheContainer.Container)
	}
}

// suiteConfig keeps the room lock short so a leaked lock fails fast.
func suiteConfig(dsn, redisAddr string) app.Config {
	return app.Config{
		Port: 3000,
		Env:  "test",
		DB: app.DBConfig{
			DSN:          dsn,
			MaxOpenConns: 10,
			MaxIdleTime:  time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          redisAddr,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			MaxIdleTime:  time.Minute,
		},
		Rooms: app.RoomsConfig{
			LockTTL:  5 * time.Second,
			CacheTTL: time.Minute,
		},
	}
}

// Scenario is one request against the routes, with optional state set up
// before it and assertions on the stored state after it.
type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	Headers          map[string]string
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp) {
	t.Run(s.Name, func(t *testing.T) {
		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		rec := httptest.NewRecorder()
		testApp.App.Routes().ServeHTTP(rec, newScenarioRequest(s.Method, s.URL, s.Body, s.Headers))

		res := rec.Result()
		defer res.Body.Close()

		assert.Equal(t, s.ExpectedStatus, res.StatusCode)

		if s.ExpectedResponse != "" {
			compareResponse(t, res.Body, s.ExpectedResponse)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, res)
		}
	})
}
