// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/giftcircle/backend/config"
	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/application/usecase/auth"
	"github.com/giftcircle/backend/internal/application/usecase/gift"
	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/application/usecase/notification"
	"github.com/giftcircle/backend/internal/application/usecase/secretsanta"
	"github.com/giftcircle/backend/internal/application/usecase/wishlist"
	"github.com/giftcircle/backend/internal/infra/db"
	"github.com/giftcircle/backend/internal/infra/metrics"
	"github.com/giftcircle/backend/internal/infra/server/router"
	"github.com/giftcircle/backend/internal/integration/adapters"
	"github.com/giftcircle/backend/internal/integration/email"
	"github.com/giftcircle/backend/internal/integration/email/templates"
	"github.com/giftcircle/backend/internal/integration/entrypoint/controller"
	"github.com/giftcircle/backend/internal/integration/entrypoint/middleware"
	"github.com/giftcircle/backend/internal/integration/notify"
	"github.com/giftcircle/backend/internal/integration/persistence"
	"github.com/giftcircle/backend/internal/integration/ratelimit"
	"github.com/giftcircle/backend/internal/integration/scraper"
)

const (
	productionPasswordCost = 12
	testPasswordCost       = 4
	testLoginLimit         = 1000
)

// Overrides replaces runtime collaborators, mainly for tests. Nil fields
// keep the production implementation.
type Overrides struct {
	Clock       adapter.Clock
	Random      adapter.RandomSource
	EmailSender adapter.EmailSender
	Scraper     adapter.ImageScraper
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	Database    *db.Database
	Redis       *redis.Client
	Metrics     *metrics.Metrics
	Router      *router.Router
	EmailWorker *email.Worker
	Dispatcher  *notify.Dispatcher
	MemoryStore *ratelimit.MemoryStore
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient and m may be nil.
func NewInjector(cfg *config.Config, database *db.Database, redisClient *redis.Client, m *metrics.Metrics, overrides Overrides) (*Injector, error) {
	gdb := database.DB()

	// Repositories
	userRepo := persistence.NewUserRepository(gdb)
	sessionRepo := persistence.NewSessionRepository(gdb)
	groupRepo := persistence.NewGroupRepository(gdb)
	giftRepo := persistence.NewGiftRepository(gdb)
	pairingRepo := persistence.NewPairingRepository(gdb)
	notificationRepo := persistence.NewNotificationRepository(gdb)
	outbox := persistence.NewOutboxRepository(gdb)
	txManager := persistence.NewTxManager(gdb)

	// Services
	clock := overrides.Clock
	if clock == nil {
		clock = adapters.NewSystemClock()
	}
	random := overrides.Random
	if random == nil {
		random = adapters.NewRandomSource()
	}
	passwordHasher := adapters.NewPasswordHasher(passwordCost(cfg))
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, adapters.TokenDurations{
		Access:  cfg.JWT.AccessTokenExpiry,
		Refresh: cfg.JWT.RefreshTokenExpiry,
	}, sessionRepo)
	imageScraper := overrides.Scraper
	if imageScraper == nil {
		imageScraper = newScraper(cfg.Scraper)
	}

	// Email
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	emailService := email.NewService(outbox, cfg.Email.AppBaseURL)
	sender := overrides.EmailSender
	if sender == nil {
		sender = newEmailSender(cfg.Email)
	}
	emailWorker := email.NewWorker(outbox, sender, renderer, m, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Lease:        cfg.Email.Lease,
		Retention:    cfg.Email.Retention,
	})

	dispatcher := notify.NewDispatcher(notificationRepo, userRepo, emailService, m, notify.Config{
		Workers:    cfg.Notify.Workers,
		BufferSize: cfg.Notify.BufferSize,
	})

	// Auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordHasher, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordHasher, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	currentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)

	// Group use cases
	createGroupUseCase := group.NewCreateGroupUseCase(groupRepo, txManager)
	listGroupsUseCase := group.NewListGroupsUseCase(groupRepo, clock)
	getGroupByCodeUseCase := group.NewGetGroupByCodeUseCase(groupRepo, userRepo)
	joinGroupUseCase := group.NewJoinGroupUseCase(groupRepo, txManager)
	listMembersUseCase := group.NewListMembersUseCase(groupRepo)
	updateGroupUseCase := group.NewUpdateGroupUseCase(groupRepo)
	archiveGroupUseCase := group.NewArchiveGroupUseCase(groupRepo, txManager)
	inviteMembersUseCase := group.NewInviteMembersUseCase(groupRepo, userRepo, emailService, clock, cfg.Email.AppBaseURL)
	previewInviteUseCase := group.NewPreviewInviteUseCase(groupRepo, userRepo, clock)
	acceptInviteUseCase := group.NewAcceptInviteUseCase(groupRepo, txManager, clock)

	// Gift use cases
	createGiftUseCase := gift.NewCreateGiftUseCase(giftRepo, groupRepo, imageScraper)
	listMyGiftsUseCase := gift.NewListMyGiftsUseCase(giftRepo, groupRepo)
	updateGiftUseCase := gift.NewUpdateGiftUseCase(giftRepo, groupRepo, imageScraper, dispatcher)
	deleteGiftUseCase := gift.NewDeleteGiftUseCase(giftRepo, groupRepo, dispatcher)
	markAsBoughtUseCase := gift.NewMarkAsBoughtUseCase(giftRepo, groupRepo, clock)
	unmarkAsBoughtUseCase := gift.NewUnmarkAsBoughtUseCase(giftRepo, groupRepo)
	wishlistUseCase := wishlist.NewGetVisibleWishlistUseCase(
		groupRepo, giftRepo, dispatcher, random, clock, claimVisibility(cfg.Wishlist.ClaimVisibility),
	)

	// Secret Santa use cases
	generatePairingsUseCase := secretsanta.NewGeneratePairingsUseCase(txManager, groupRepo, pairingRepo, dispatcher, random)
	assignmentUseCase := secretsanta.NewGetMyAssignmentUseCase(groupRepo, pairingRepo, userRepo)

	// Notification use cases
	listNotificationsUseCase := notification.NewListNotificationsUseCase(notificationRepo)
	markReadUseCase := notification.NewMarkReadUseCase(notificationRepo)

	// Controllers
	var redisPinger controller.Pinger
	if redisClient != nil {
		redisPinger = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	healthController := controller.NewHealthController(database.Ping, redisPinger)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
		currentUserUseCase,
	)

	groupController := controller.NewGroupController(
		createGroupUseCase,
		listGroupsUseCase,
		getGroupByCodeUseCase,
		joinGroupUseCase,
		listMembersUseCase,
		updateGroupUseCase,
		archiveGroupUseCase,
		inviteMembersUseCase,
		previewInviteUseCase,
		acceptInviteUseCase,
	)

	giftController := controller.NewGiftController(
		createGiftUseCase,
		listMyGiftsUseCase,
		updateGiftUseCase,
		deleteGiftUseCase,
		markAsBoughtUseCase,
		unmarkAsBoughtUseCase,
		wishlistUseCase,
		m,
	)

	secretSantaController := controller.NewSecretSantaController(generatePairingsUseCase, assignmentUseCase, m)

	notificationController := controller.NewNotificationController(listNotificationsUseCase, markReadUseCase)

	// Middleware
	memoryStore := ratelimit.NewMemoryStore()
	var primaryStore ratelimit.Store = memoryStore
	if redisClient != nil {
		primaryStore = ratelimit.NewRedisStore(redisClient)
	}
	loginMax := cfg.RateLimit.LoginMax
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginMax = testLoginLimit
	}
	loginLimiter := ratelimit.NewLimiter(primaryStore, memoryStore, "ratelimit:login:", loginMax, cfg.RateLimit.LoginWindow)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		groupController,
		giftController,
		secretSantaController,
		notificationController,
		authMiddleware,
		loginLimiter,
		m,
	)

	return &Injector{
		Config:      cfg,
		Database:    database,
		Redis:       redisClient,
		Metrics:     m,
		Router:      r,
		EmailWorker: emailWorker,
		Dispatcher:  dispatcher,
		MemoryStore: memoryStore,
	}, nil
}

// Shutdown drains the notification dispatcher.
func (i *Injector) Shutdown(ctx context.Context) error {
	return i.Dispatcher.Shutdown(ctx)
}

func passwordCost(cfg *config.Config) int {
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		return testPasswordCost
	}
	return productionPasswordCost
}

func claimVisibility(v config.ClaimVisibility) wishlist.ClaimVisibility {
	if v == config.ClaimVisibilityShowAll {
		return wishlist.ShowAllClaims
	}
	return wishlist.HideOthersClaims
}

func newScraper(cfg config.ScraperConfig) adapter.ImageScraper {
	if !cfg.Enabled {
		return scraper.Disabled{}
	}
	return scraper.New(scraper.Config{
		Timeout:              cfg.Timeout,
		UserAgent:            cfg.UserAgent,
		AllowPrivateNetworks: cfg.AllowPrivateNetworks,
	})
}

func newEmailSender(cfg config.EmailConfig) adapter.EmailSender {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, emails will be logged instead of sent")
		return email.NewLogSender()
	}
	return email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
}
