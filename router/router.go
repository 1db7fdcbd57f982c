package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/controllers"
	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
	"gorm.io/gorm"
)

type Options struct {
	Config config.Config
	// Hub receives live events; nil disables the websocket feed.
	Hub *live.Hub
	// Blacklist holds revoked tokens; nil gets a fresh one.
	Blacklist *utils.TokenBlacklist
	// Context bounds the rate limiters' idle sweeps; nil skips them.
	Context context.Context
}

// limiterSweep is how often rate limiters forget idle clients.
const limiterSweep = 5 * time.Minute

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	cfg := opts.Config
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Metrics())
	if cfg.RateLimitRequests > 0 {
		limiter := middlewares.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		if opts.Context != nil {
			go limiter.Cleanup(opts.Context, limiterSweep)
		}
		r.Use(limiter.RateLimit())
	}

	var publisher services.Publisher
	if opts.Hub != nil {
		publisher = opts.Hub
	}

	// Inisialisasi service & controller
	authSvc := services.NewAuthService(db, utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), opts.Blacklist)
	customerSvc := services.NewCustomerService(db)
	notificationSvc := services.NewNotificationService(db, publisher)
	reservationSvc := services.NewReservationService(db, customerSvc, notificationSvc, publisher, cfg.Booking)
	dashboardSvc := services.NewDashboardService(db, reservationSvc.Location)

	authCtrl := controllers.NewAuthController(authSvc)
	userCtrl := controllers.NewUserController(services.NewUserService(db))
	customerCtrl := controllers.NewCustomerController(customerSvc)
	menuCtrl := controllers.NewMenuController(services.NewMenuService(db))
	reservationCtrl := controllers.NewReservationController(reservationSvc)
	notificationCtrl := controllers.NewNotificationController(notificationSvc)
	adminCtrl := controllers.NewAdminController(dashboardSvc, services.NewReportService(dashboardSvc, reservationSvc))

	requireAuth := middlewares.AuthMiddleware(authSvc)
	requireAdmin := middlewares.RequireAdmin()

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter untuk login/register
	authGroup := r.Group("/auth")
	{
		credentials := authGroup.Group("")
		if cfg.AuthRatePerMinute > 0 {
			strict := middlewares.NewStrictRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
			if opts.Context != nil {
				go strict.Cleanup(opts.Context, limiterSweep)
			}
			credentials.Use(strict.Handler())
		}
		credentials.POST("/login", authCtrl.Login)
		credentials.POST("/register", authCtrl.Register)

		authGroup.GET("/me", requireAuth, authCtrl.Me)
		authGroup.POST("/logout", requireAuth, authCtrl.Logout)
	}

	// Menu bisa dilihat tanpa login
	r.GET("/menu", menuCtrl.GetAllMenus)
	r.GET("/menu/:id", menuCtrl.GetMenuByID)

	// Booking terbuka untuk tamu
	r.POST("/reservations", middlewares.OptionalAuth(authSvc), reservationCtrl.CreateReservation)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	member := r.Group("/reservations", requireAuth)
	{
		member.GET("/mine", reservationCtrl.MyReservations)
		member.GET("/:id", reservationCtrl.GetReservationByID)
		member.POST("/:id/cancel", reservationCtrl.CancelReservation)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/", requireAuth, requireAdmin)
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users", userCtrl.CreateUser)
		admin.GET("/users/:id", userCtrl.GetUserByID)
		admin.PUT("/users/:id", userCtrl.UpdateUser)
		admin.DELETE("/users/:id", userCtrl.DeleteUser)

		admin.GET("/customers", customerCtrl.GetAllCustomers)
		admin.POST("/customers", customerCtrl.CreateCustomer)
		admin.GET("/customers/:id", customerCtrl.GetCustomerByID)
		admin.PUT("/customers/:id", customerCtrl.UpdateCustomer)
		admin.DELETE("/customers/:id", customerCtrl.DeleteCustomer)

		admin.POST("/menu", menuCtrl.CreateMenu)
		admin.PUT("/menu/:id", menuCtrl.UpdateMenu)
		admin.DELETE("/menu/:id", menuCtrl.DeleteMenu)

		admin.GET("/reservations", reservationCtrl.GetAllReservations)
		admin.PUT("/reservations/:id", reservationCtrl.UpdateReservation)
		admin.DELETE("/reservations/:id", reservationCtrl.DeleteReservation)
		admin.POST("/reservations/:id/confirm", reservationCtrl.ConfirmReservation)
		admin.POST("/reservations/:id/complete", reservationCtrl.CompleteReservation)

		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/dashboard/upcoming", adminCtrl.GetUpcomingReservations)
		admin.GET("/dashboard/recent", adminCtrl.GetRecentReservations)
		admin.GET("/dashboard/weekly", adminCtrl.GetWeeklyReservations)
		admin.GET("/dashboard/weekly.png", adminCtrl.GetWeeklyChart)
		admin.GET("/reports/reservations.pdf", adminCtrl.GetReservationsReport)

		admin.GET("/notifications", notificationCtrl.GetAllNotifications)
		admin.PATCH("/notifications/read", notificationCtrl.MarkAllAsRead)
		admin.PATCH("/notifications/:id/read", notificationCtrl.MarkAsRead)
		admin.DELETE("/notifications/:id", notificationCtrl.DeleteNotification)
	}

	// Feed realtime untuk admin console
	if opts.Hub != nil {
		wsCtrl := controllers.NewWebSocketController(opts.Hub)
		r.GET("/ws", middlewares.WebSocketAuthMiddleware(authSvc), requireAdmin, wsCtrl.Connect)
	}

	return r
}
