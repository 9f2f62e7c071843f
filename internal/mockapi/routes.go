package mockapi

import (
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/config"
	"github.com/ivenhartford/LCH-sub002/platform/httpkit"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewRouter assembles the gin engine for the development API.
func NewRouter(cfg *config.Config, store *Store, log *logger.Logger) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))
	if cfg.MockLatency > 0 {
		engine.Use(simulateLatency(cfg.MockLatency))
	}
	engine.Use(httpkit.NewIPRateLimiter(rate.Limit(50), 100, log).RateLimit())

	h := NewHandler(store, validator.New(), cfg, log)

	engine.GET("/healthz", h.Health)

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(httpkit.NewAuthRateLimiter(log).RateLimit())
	authGroup.POST("/login", h.SignIn)

	protected := api.Group("")
	protected.Use(httpkit.AuthRequired(cfg))

	protected.GET("/clients", h.ListClients)
	protected.POST("/clients", h.CreateClient)
	protected.GET("/clients/:id", h.GetClient)
	protected.PUT("/clients/:id", h.UpdateClient)

	protected.GET("/patients", h.ListPatients)
	protected.GET("/patients/:id", h.GetPatient)

	protected.GET("/appointments", h.ListAppointments)
	protected.POST("/appointments", h.CreateAppointment)
	protected.GET("/appointments/:id", h.GetAppointment)
	protected.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)

	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/analytics", h.Analytics)

	protected.GET("/profile", h.Profile)
	protected.PUT("/profile", h.UpdateProfile)

	protected.GET("/settings/clinic", h.ClinicSettings)
	protected.PUT("/settings/clinic", h.UpdateClinicSettings)
	protected.GET("/settings/appointment-types", h.ListAppointmentTypes)
	protected.POST("/settings/appointment-types", h.CreateAppointmentType)
	protected.PUT("/settings/appointment-types/:id", h.UpdateAppointmentType)

	return engine
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

// simulateLatency delays every request so loading states are visible during
// front-end work.
func simulateLatency(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		time.Sleep(d)
		c.Next()
	}
}
