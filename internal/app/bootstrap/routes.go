// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	auditlogfeature "github.com/dalemusser/projecthub/internal/app/features/auditlog"
	geofeature "github.com/dalemusser/projecthub/internal/app/features/geo"
	healthfeature "github.com/dalemusser/projecthub/internal/app/features/health"
	projectrequestsfeature "github.com/dalemusser/projecthub/internal/app/features/projectrequests"
	projectsfeature "github.com/dalemusser/projecthub/internal/app/features/projects"
	userinfofeature "github.com/dalemusser/projecthub/internal/app/features/userinfo"
	"github.com/dalemusser/projecthub/internal/app/system/auditlog"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/dalemusser/projecthub/internal/app/system/metrics"
	"github.com/dalemusser/projecthub/internal/app/system/ratelimit"
	"github.com/dalemusser/projecthub/internal/app/system/statuses"
	"github.com/dalemusser/projecthub/internal/app/workflow/requestflow"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// staticDir is served at /static; the default image_root lives inside it.
const staticDir = "static"

// BuildHandler constructs the root HTTP handler (router) for projecthub.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the shared services (file stores,
// status vocabulary, audit logger, request workflow, metrics) once and
// mounts every feature router on top of them:
//
//	/api/projects                 project CRUD, attachments, downloads
//	/api/project-requests         request submission
//	/api/projectwaitingapprove    submitted projects with attachments
//	/api/project-events/{id}      audit trail of one project
//	/api/provinces|districts|villages
//	/api/protected                echo of the verified identity
//	/health, /metrics, /static/*
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	uploads, err := filestore.NewOS(appCfg.UploadRoot)
	if err != nil {
		logger.Error("upload root init failed", zap.String("root", appCfg.UploadRoot), zap.Error(err))
		return nil, err
	}
	images, err := filestore.NewOS(appCfg.ImageRoot)
	if err != nil {
		logger.Error("image root init failed", zap.String("root", appCfg.ImageRoot), zap.Error(err))
		return nil, err
	}

	m := metrics.New()
	st := statuses.New(appCfg.DefaultStatus, appCfg.ProjectStatuses)
	audit := auditlog.New(deps.Store.Events, logger, auditlog.Config{Projects: appCfg.AuditLog})
	engine := requestflow.New(deps.Store.Projects, deps.Store.Attachments, uploads, logger, requestflow.Options{
		AllowResubmit: appCfg.AllowResubmit(),
		Serialize:     appCfg.RequestSerialize,
		Metrics:       m,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store.Pinger, appCfg.DBDriver, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", m.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", staticDir))
	if p := appCfg.ImageURLPrefix; p != "" && !strings.HasPrefix(p+"/", "/static/") {
		r.Handle(p+"/*", fileserver.Handler(p, appCfg.ImageRoot))
	}

	var verifier *auth.Verifier
	if appCfg.JWTSecret != "" {
		verifier, err = auth.NewVerifier(appCfg.JWTSecret, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("jwt_secret is empty; bearer tokens are ignored and /api/protected always returns 401")
	}

	projectsHandler := projectsfeature.NewHandler(deps.Store, projectsfeature.Files{
		Uploads:        uploads,
		Images:         images,
		ImageURLPrefix: appCfg.ImageURLPrefix,
	}, st, audit, m, logger)
	requestsHandler := projectrequestsfeature.NewHandler(engine, audit, logger)
	geoHandler := geofeature.NewHandler(deps.Store.Geo, logger)
	userinfoHandler := userinfofeature.NewHandler()
	eventsHandler := auditlogfeature.NewHandler(deps.Store.Events, logger)

	writes := ratelimit.New(appCfg.RateLimitWrites, appCfg.RateLimitBurst)

	r.Route("/api", func(api chi.Router) {
		api.Use(writes.Middleware)
		api.Use(limitBody(appCfg.MaxUploadMB << 20))
		if verifier != nil {
			api.Use(verifier.LoadIdentity)
		}
		if appCfg.AuthRequired {
			api.Use(auth.RequireIdentity)
		}

		api.Mount("/projects", projectsfeature.Routes(projectsHandler))
		api.Mount("/project-requests", projectrequestsfeature.Routes(requestsHandler))
		api.Get("/projectwaitingapprove", projectsHandler.ServeWaitingApprove)
		api.Mount("/project-events", auditlogfeature.Routes(eventsHandler))

		geofeature.Mount(api, geoHandler)
		userinfofeature.MountRoutes(api, userinfoHandler)
	})

	logger.Info("router built",
		zap.String("db_driver", appCfg.DBDriver),
		zap.String("upload_root", uploads.Root()),
		zap.String("image_root", images.Root()),
		zap.Bool("auth_required", appCfg.AuthRequired),
		zap.Strings("statuses", appCfg.ProjectStatuses),
	)

	return r, nil
}

// limitBody caps request bodies so multipart parsing fails with
// *http.MaxBytesError instead of buffering an unbounded upload.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
