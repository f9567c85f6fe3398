package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/api"
	"github.com/quicktutor/quicktutor-backend/internal/auth"
	"github.com/quicktutor/quicktutor-backend/internal/booking"
	"github.com/quicktutor/quicktutor-backend/internal/feed"
	"github.com/quicktutor/quicktutor-backend/internal/file"
	"github.com/quicktutor/quicktutor-backend/internal/message"
	"github.com/quicktutor/quicktutor-backend/internal/notification"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/storage"
	"github.com/quicktutor/quicktutor-backend/internal/report"
	"github.com/quicktutor/quicktutor-backend/internal/review"
	"github.com/quicktutor/quicktutor-backend/internal/student"
	"github.com/quicktutor/quicktutor-backend/internal/tutor"
	"github.com/quicktutor/quicktutor-backend/internal/user"
	"github.com/quicktutor/quicktutor-backend/internal/virtualtutor"
)

// Config holds the dependencies and settings required to start the
// application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Redis        *redis.Client
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string
	GeminiAPIKey string
	Logger       zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	bus := feed.NewBus(cfg.Redis, cfg.Logger)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Notification module
	notificationRepo := notification.NewPgxRepository(cfg.DBPool)
	notificationService := notification.NewService(notificationRepo)

	// Tutor module
	tutorRepo := tutor.NewPgxRepository(cfg.DBPool)
	tutorService := tutor.NewService(tutorRepo, notificationService, cfg.Logger)

	// Student module
	studentRepo := student.NewPgxRepository(cfg.DBPool)
	studentService := student.NewService(studentRepo)

	// Booking module. The message service doubles as the system
	// messenger for lifecycle transitions.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	messageRepo := message.NewPgxRepository(cfg.DBPool)
	messageService := message.NewService(messageRepo, bookingRepo, bus, cfg.Logger)
	bookingService := booking.NewService(bookingRepo, tutorService, messageService, notificationService, bus, cfg.Logger)

	// Review module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, bookingRepo)

	// Report module
	reportRepo := report.NewPgxRepository(cfg.DBPool)
	reportService := report.NewService(reportRepo, notificationService, cfg.Logger)

	// File module
	localStorage, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	fileRepo := file.NewPgxRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, localStorage, cfg.Logger)

	// Virtual tutor module. Without an API key the endpoint stays up
	// and reports the feature as unavailable.
	var generator virtualtutor.Generator
	if cfg.GeminiAPIKey != "" {
		generator = virtualtutor.NewGeminiClient(cfg.GeminiAPIKey)
	}
	virtualTutorService := virtualtutor.NewService(generator, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		TutorService:        tutorService,
		StudentService:      studentService,
		BookingService:      bookingService,
		MessageService:      messageService,
		NotificationService: notificationService,
		ReviewService:       reviewService,
		ReportService:       reportService,
		FileService:         fileService,
		VirtualTutorService: virtualTutorService,
		FeedBus:             bus,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
