package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/booking"
	bookingHttp "github.com/quicktutor/quicktutor-backend/internal/booking/http"
	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/file"
	fileHttp "github.com/quicktutor/quicktutor-backend/internal/file/http"
	"github.com/quicktutor/quicktutor-backend/internal/message"
	messageHttp "github.com/quicktutor/quicktutor-backend/internal/message/http"
	"github.com/quicktutor/quicktutor-backend/internal/notification"
	notificationHttp "github.com/quicktutor/quicktutor-backend/internal/notification/http"
	"github.com/quicktutor/quicktutor-backend/internal/report"
	reportHttp "github.com/quicktutor/quicktutor-backend/internal/report/http"
	"github.com/quicktutor/quicktutor-backend/internal/review"
	reviewHttp "github.com/quicktutor/quicktutor-backend/internal/review/http"
	"github.com/quicktutor/quicktutor-backend/internal/student"
	studentHttp "github.com/quicktutor/quicktutor-backend/internal/student/http"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
	tutorHttp "github.com/quicktutor/quicktutor-backend/internal/tutor/http"
	"github.com/quicktutor/quicktutor-backend/internal/user"
	userHttp "github.com/quicktutor/quicktutor-backend/internal/user/http"
	"github.com/quicktutor/quicktutor-backend/internal/virtualtutor"
	virtualtutorHttp "github.com/quicktutor/quicktutor-backend/internal/virtualtutor/http"
)

// Config holds the services and settings the router assembles.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	TutorService        tutor.Service
	StudentService      student.Service
	BookingService      booking.Service
	MessageService      message.Service
	NotificationService notification.Service
	ReviewService       review.Service
	ReportService       report.Service
	FileService         file.Service
	VirtualTutorService virtualtutor.Service

	FeedBus    *feed.Bus
	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware and registers all module routes
// under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	studentMiddleware := auth.RequireRole(string(user.RoleStudent))
	tutorMiddleware := auth.RequireRole(string(user.RoleTutor))
	adminMiddleware := auth.RequireRole(string(user.RoleAdmin))

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	tutorHandler := tutorHttp.NewHandler(cfg.TutorService)
	studentHandler := studentHttp.NewHandler(cfg.StudentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.FeedBus)
	messageHandler := messageHttp.NewHandler(cfg.MessageService, cfg.FeedBus)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)
	reportHandler := reportHttp.NewHandler(cfg.ReportService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	virtualTutorHandler := virtualtutorHttp.NewHandler(cfg.VirtualTutorService)
	overviewHandler := NewOverviewHandler(cfg.UserService, cfg.TutorService, cfg.BookingService, cfg.ReportService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		tutorHttp.RegisterRoutes(v1, tutorHandler, authMiddleware, tutorMiddleware, adminMiddleware)
		studentHttp.RegisterRoutes(v1, studentHandler, authMiddleware, studentMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, studentMiddleware, tutorMiddleware)
		bookingHttp.RegisterAdminRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		messageHttp.RegisterRoutes(v1, messageHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware, studentMiddleware, tutorMiddleware, adminMiddleware)
		reportHttp.RegisterRoutes(v1, reportHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
		virtualtutorHttp.RegisterRoutes(v1, virtualTutorHandler, authMiddleware, studentMiddleware)

		v1.GET("/admin/overview", authMiddleware, adminMiddleware, overviewHandler.Overview)
	}

	return r
}
