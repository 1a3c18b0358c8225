// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	applicationsfeature "github.com/sciencebridge/sciencebridge/internal/app/features/applications"
	authgooglefeature "github.com/sciencebridge/sciencebridge/internal/app/features/authgoogle"
	dashboardfeature "github.com/sciencebridge/sciencebridge/internal/app/features/dashboard"
	documentsfeature "github.com/sciencebridge/sciencebridge/internal/app/features/documents"
	errorsfeature "github.com/sciencebridge/sciencebridge/internal/app/features/errors"
	eventsfeature "github.com/sciencebridge/sciencebridge/internal/app/features/events"
	healthfeature "github.com/sciencebridge/sciencebridge/internal/app/features/health"
	homefeature "github.com/sciencebridge/sciencebridge/internal/app/features/home"
	loginfeature "github.com/sciencebridge/sciencebridge/internal/app/features/login"
	logoutfeature "github.com/sciencebridge/sciencebridge/internal/app/features/logout"
	messagesfeature "github.com/sciencebridge/sciencebridge/internal/app/features/messages"
	passwordresetfeature "github.com/sciencebridge/sciencebridge/internal/app/features/passwordreset"
	plansfeature "github.com/sciencebridge/sciencebridge/internal/app/features/plans"
	profilefeature "github.com/sciencebridge/sciencebridge/internal/app/features/profile"
	projectsfeature "github.com/sciencebridge/sciencebridge/internal/app/features/projects"
	registerfeature "github.com/sciencebridge/sciencebridge/internal/app/features/register"
	"github.com/sciencebridge/sciencebridge/internal/app/store/oauthstate"
	"github.com/sciencebridge/sciencebridge/internal/app/store/resettokens"
	"github.com/sciencebridge/sciencebridge/internal/app/system/auth"
	"github.com/sciencebridge/sciencebridge/internal/app/system/mailer"
	"github.com/sciencebridge/sciencebridge/internal/app/system/uploads"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It creates the session manager, boots the
// template engine, and mounts the feature routers for every application
// area: home, auth, profile, projects, applications, dashboard, documents,
// messages, events, and plans.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	fileStore, err := buildStorage(appCfg)
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}
	uploadPolicy := uploads.NewPolicy(appCfg.UploadMaxSize, nil, nil)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context when a
	// valid session cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Locally stored uploads are served straight off disk.
	if appCfg.StorageType == "local" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public pages
	homeHandler := homefeature.NewHandler(db, sessionMgr, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	registerHandler := registerfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/auth/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, appCfg.GoogleEnabled(), logger)
	r.Mount("/auth/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/auth/logout", logoutfeature.Routes(logoutHandler))

	mail := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort, appCfg.MailSMTPUser, appCfg.MailSMTPPass, appCfg.MailFrom, appCfg.MailFromName, logger)
	resetTokens := resettokens.New(db, appCfg.ResetTokenExpiry)
	resetHandler := passwordresetfeature.NewHandler(db, sessionMgr, errLog, mail, resetTokens, appCfg.BaseURL, logger)
	r.Mount("/auth/reset", passwordresetfeature.Routes(resetHandler))

	if appCfg.GoogleEnabled() {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr, oauthstate.New(db), appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Profile
	profileHandler := profilefeature.NewHandler(db, sessionMgr, errLog, fileStore, uploadPolicy, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Projects and participation
	projectsHandler := projectsfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	applicationsHandler := applicationsfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr))

	// Dashboard and suggestions
	dashboardHandler := dashboardfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))
	r.Mount("/suggestions", dashboardfeature.SuggestionRoutes(dashboardHandler, sessionMgr))

	// Documents
	documentsHandler := documentsfeature.NewHandler(db, sessionMgr, errLog, fileStore, uploadPolicy, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	// Messaging
	messagesHandler := messagesfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// Events
	eventsHandler := eventsfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	// Subscription plans
	plansHandler := plansfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/plans", plansfeature.Routes(plansHandler, sessionMgr))

	return r, nil
}
