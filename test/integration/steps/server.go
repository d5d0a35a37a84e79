//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"net/http/httptest"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/config"
	"github.com/giftcircle/backend/internal/infra/db"
	"github.com/giftcircle/backend/internal/infra/dependency"
	"github.com/giftcircle/backend/internal/infra/metrics"
	"github.com/giftcircle/backend/internal/infra/server/router"
	"github.com/giftcircle/backend/internal/integration/adapters"
	"github.com/giftcircle/backend/internal/integration/email"
	"github.com/giftcircle/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// suite holds the process-wide server shared by every scenario.
type suite struct {
	server   *httptest.Server
	injector *dependency.Injector
	db       *mock.Db
	timeMock *mock.Time
	sender   *email.LogSender
	pages    *mock.PageServer
	redis    *mock.Redis
	window   time.Duration
}

var (
	shared     *suite
	sharedOnce sync.Once
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		startSuite()
	})

	ctx.AfterSuite(func() {
		if shared == nil {
			return
		}
		shared.server.Close()
		shared.pages.Close()
		shared.redis.Close()
	})
}

func startSuite() *suite {
	sharedOnce.Do(func() {
		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.Email.AppBaseURL = "http://app.test"
		cfg.Notify.Workers = 2
		cfg.Notify.BufferSize = 64
		cfg.Scraper.Enabled = true
		cfg.Scraper.Timeout = 2 * time.Second
		cfg.Scraper.AllowPrivateNetworks = true

		database := mock.NewDb(db.Models())
		timeMock := mock.NewTime()
		sender := email.NewLogSender()
		redisMock := mock.NewRedis()

		injector, err := dependency.NewInjector(cfg, db.Wrap(database.DbConn), redisMock.Client, metrics.New(), dependency.Overrides{
			Clock:       timeMock,
			Random:      adapters.NewSeededRandomSource(7, 11),
			EmailSender: sender,
		})
		if err != nil {
			panic(err)
		}

		engine := injector.Router.Setup(router.Options{Environment: "test"})
		shared = &suite{
			server:   httptest.NewServer(engine),
			injector: injector,
			db:       database,
			timeMock: timeMock,
			sender:   sender,
			pages:    mock.NewPageServer(),
			redis:    redisMock,
			window:   cfg.RateLimit.LoginWindow,
		}
	})
	return shared
}
