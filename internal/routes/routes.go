package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
	"github.com/BruksfildServices01/company-scheduler/internal/cache"
	"github.com/BruksfildServices01/company-scheduler/internal/config"
	"github.com/BruksfildServices01/company-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/company-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/company-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/company-scheduler/internal/middleware"
	ucAvailability "github.com/BruksfildServices01/company-scheduler/internal/usecase/availability"
	ucCatalog "github.com/BruksfildServices01/company-scheduler/internal/usecase/catalog"
	ucReservation "github.com/BruksfildServices01/company-scheduler/internal/usecase/reservation"
	ucSchedule "github.com/BruksfildServices01/company-scheduler/internal/usecase/schedule"
)

// Deps are the process-wide singletons built in main. Redis may be nil.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
	Log    *zap.Logger
	Audit  *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		gin.Recovery(),
		middleware.CORSMiddleware(d.Config.Server.CORSOrigins),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	var repo scheduling.Repository = infraRepo.NewSchedulingGormRepository(d.DB)

	var (
		slotCache   ucAvailability.SlotCache
		invalidator ucReservation.Invalidator
		limiter     middleware.Limiter
	)
	if d.Redis != nil {
		availabilityCache := cache.NewAvailability(d.Redis, d.Config.Redis.CacheTTL)
		slotCache = availabilityCache
		invalidator = availabilityCache
		limiter = middleware.NewRedisLimiter(d.Redis, d.Config.RateLimit.Limit, d.Config.RateLimit.Window)
	} else {
		limiter = middleware.NewLocalLimiter(d.Config.RateLimit.Limit, d.Config.RateLimit.Window)
	}

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucAvailability.NewGetAvailableSlots(repo, slotCache, d.Log)

	reserveUC := ucReservation.NewValidateAndReserve(repo, invalidator, d.Audit, d.Log)
	rescheduleUC := ucReservation.NewReschedule(repo, invalidator, d.Audit, d.Log)
	transitionUC := ucReservation.NewTransition(repo, invalidator, d.Audit, d.Log)
	claimUC := ucReservation.NewClaimReservation(repo, invalidator, d.Audit, d.Log)
	listByDateUC := ucReservation.NewListByDate(repo)
	listByMonthUC := ucReservation.NewListByMonth(repo)

	createShiftUC := ucSchedule.NewCreateShift(repo, invalidator, d.Audit, d.Log)
	updateServiceUC := ucCatalog.NewUpdateService(repo, d.Audit, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(d.DB, repo, availabilityUC, reserveUC)

	reservationHandler := handlers.NewReservationHandler(
		availabilityUC,
		reserveUC,
		rescheduleUC,
		transitionUC,
		claimUC,
		listByDateUC,
		listByMonthUC,
	)

	meHandler := handlers.NewMeHandler(d.DB)
	companyHandler := handlers.NewCompanyHandler(d.DB, d.Audit)
	serviceHandler := handlers.NewServiceHandler(d.DB, updateServiceUC, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	shiftHandler := handlers.NewShiftHandler(d.DB, repo, createShiftUC, invalidator, d.Audit, d.Log)
	workerHandler := handlers.NewWorkerHandler(d.DB, repo, d.Audit)
	customerHandler := handlers.NewCustomerHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	exportHandler := handlers.NewExportHandler(repo, listByDateUC)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimit(limiter, d.Log))
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/reservations", publicHandler.CreateReservation)
		}

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config.Auth.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/company", companyHandler.Get)
			secured.PATCH("/company", companyHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			secured.GET("/working-hours", workingHoursHandler.Get)
			secured.PUT("/working-hours", workingHoursHandler.Update)

			secured.GET("/shifts", shiftHandler.List)
			secured.POST("/shifts", shiftHandler.Create)
			secured.DELETE("/shifts/:id", shiftHandler.Delete)

			secured.GET("/workers", workerHandler.List)
			secured.PATCH("/workers/:id", workerHandler.Update)
			secured.PUT("/workers/:id/services", workerHandler.SetServices)

			secured.GET("/availability", reservationHandler.Availability)

			// ------------------------------
			// RESERVATIONS
			// ------------------------------
			secured.POST("/reservations", reservationHandler.Create)
			secured.GET("/reservations", reservationHandler.ListByDate)
			secured.GET("/reservations/month", reservationHandler.ListByMonth)
			secured.PATCH("/reservations/:id/accept", reservationHandler.Transition(scheduling.ActionAccept))
			secured.PATCH("/reservations/:id/start", reservationHandler.Transition(scheduling.ActionStart))
			secured.PATCH("/reservations/:id/complete", reservationHandler.Transition(scheduling.ActionComplete))
			secured.PATCH("/reservations/:id/cancel", reservationHandler.Transition(scheduling.ActionCancel))
			secured.PATCH("/reservations/:id/claim", reservationHandler.Claim)
			secured.PATCH("/reservations/:id/reschedule", reservationHandler.Reschedule)

			secured.GET("/customers", customerHandler.List)
			secured.GET("/audit-logs", auditLogsHandler.List)

			secured.GET("/exports/agenda.xlsx", exportHandler.DayAgenda)
			secured.GET("/exports/workers/:id/agenda.ics", exportHandler.WorkerCalendar)
		}
	}
}
