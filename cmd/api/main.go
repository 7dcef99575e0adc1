package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/excellent-grade/gradetest-api/internal/config"
	"github.com/excellent-grade/gradetest-api/internal/handler"
	"github.com/excellent-grade/gradetest-api/internal/middleware"
	pgRepo "github.com/excellent-grade/gradetest-api/internal/repository/postgres"
	redisRepo "github.com/excellent-grade/gradetest-api/internal/repository/redis"
	"github.com/excellent-grade/gradetest-api/internal/service"
	"github.com/excellent-grade/gradetest-api/pkg/auth"
	"github.com/excellent-grade/gradetest-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	subjectRepo := pgRepo.NewSubjectRepo(db)
	gradeRepo := pgRepo.NewGradeRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	optionRepo := pgRepo.NewOptionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Services
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(subjectRepo, gradeRepo, cacheRepo)
	questionService := service.NewQuestionService(questionRepo, optionRepo, gradeRepo)
	resultService := service.NewResultService(
		resultRepo,
		gradeRepo,
		questionRepo,
		cacheRepo,
		db,
		time.Duration(cfg.Quiz.FinishGraceSec)*time.Second,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	questionHandler := handler.NewQuestionHandler(questionService, cfg.Quiz.DefaultPageLimit)
	userHandler := handler.NewUserHandler(userService)
	resultHandler := handler.NewResultHandler(resultService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register/user", authHandler.Register)
			authGroup.POST("/login/user", authHandler.LoginUser)
			authGroup.POST("/login/admin", authHandler.LoginAdmin)

			authedAuth := authGroup.Group("")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.GET("/me", authHandler.Me)
			}
		}

		subjects := api.Group("/subjects")
		subjects.Use(authMiddleware.RequireAuth())
		{
			subjects.GET("", catalogHandler.ListSubjects)

			subjectWithID := subjects.Group("/:id")
			subjectWithID.Use(middleware.ExtractUintParam("id", "subjectID"))
			{
				subjectWithID.GET("", catalogHandler.GetSubject)
			}

			adminSubjects := subjects.Group("")
			adminSubjects.Use(authMiddleware.AdminOnly())
			{
				adminSubjects.POST("", catalogHandler.CreateSubject)

				adminSubjectWithID := adminSubjects.Group("/:id")
				adminSubjectWithID.Use(middleware.ExtractUintParam("id", "subjectID"))
				{
					adminSubjectWithID.PUT("", catalogHandler.UpdateSubject)
					adminSubjectWithID.DELETE("", catalogHandler.DeleteSubject)
				}
			}
		}

		grades := api.Group("/grades")
		grades.Use(authMiddleware.RequireAuth())
		{
			grades.GET("", catalogHandler.ListGrades)

			gradeWithID := grades.Group("/:id")
			gradeWithID.Use(middleware.ExtractUintParam("id", "gradeID"))
			{
				gradeWithID.GET("", catalogHandler.GetGrade)
			}

			adminGrades := grades.Group("")
			adminGrades.Use(authMiddleware.AdminOnly())
			{
				adminGrades.POST("", catalogHandler.CreateGrade)

				adminGradeWithID := adminGrades.Group("/:id")
				adminGradeWithID.Use(middleware.ExtractUintParam("id", "gradeID"))
				{
					adminGradeWithID.PUT("", catalogHandler.UpdateGrade)
					adminGradeWithID.DELETE("", catalogHandler.DeleteGrade)
					adminGradeWithID.GET("/results", resultHandler.ListGradeResults)
				}
			}
		}

		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("/export", questionHandler.ExportQuestions)
			questions.POST("/import", questionHandler.ImportQuestions)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.GET("", questionHandler.GetQuestion)
				questionWithID.PUT("", questionHandler.UpdateQuestion)
				questionWithID.DELETE("", questionHandler.DeleteQuestion)
				questionWithID.GET("/options", questionHandler.ListOptions)
			}
		}

		options := api.Group("/options")
		options.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			options.POST("", questionHandler.CreateOption)

			optionWithID := options.Group("/:id")
			optionWithID.Use(middleware.ExtractUintParam("id", "optionID"))
			{
				optionWithID.PUT("", questionHandler.UpdateOption)
				optionWithID.DELETE("", questionHandler.DeleteOption)
			}
		}

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)

			userWithID := users.Group("/:id")
			userWithID.Use(middleware.ExtractUintParam("id", "userID"))
			{
				userWithID.GET("", userHandler.GetUser)
				userWithID.PUT("", userHandler.UpdateUser)
				userWithID.DELETE("", userHandler.DeleteUser)
			}
		}

		results := api.Group("/results")
		results.Use(authMiddleware.RequireAuth())
		{
			results.GET("", resultHandler.ListResults)
			results.POST("", resultHandler.StartResult)
			results.GET("/export", authMiddleware.AdminOnly(), resultHandler.ExportGradeResults)

			resultWithID := results.Group("/:id")
			resultWithID.Use(middleware.ExtractUintParam("id", "resultID"))
			{
				resultWithID.GET("", resultHandler.GetResult)
				resultWithID.POST("/finish", resultHandler.FinishResult)
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}

	log.Println("Server exited")
}
