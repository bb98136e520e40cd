// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/config"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/handlers"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/middlewares"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/repositories"
	"github.com/ToldYaOnce/kx-scheduler-services/internal/services"
)

func Setup(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// CORS middleware
	router.Use(middlewares.CustomCORS())

	// Initialize repositories
	programRepo := repositories.NewProgramRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	exceptionRepo := repositories.NewExceptionRepository(db)
	summaryRepo := repositories.NewSummaryRepository(db)
	bookingRepo := repositories.NewBookingRepository(db, summaryRepo)
	attendanceRepo := repositories.NewAttendanceRepository(db)

	// Initialize services
	programService := services.NewProgramService(programRepo)
	locationService := services.NewLocationService(locationRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, exceptionRepo)
	sessionService := services.NewSessionService(scheduleRepo, exceptionRepo, summaryRepo)
	bookingService := services.NewBookingService(bookingRepo, scheduleRepo, exceptionRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, bookingRepo, locationRepo, sessionService,
		services.CheckInWindow{Before: cfg.CheckInWindowBefore, After: cfg.CheckInWindowAfter})

	// Initialize handlers
	programHandler := handlers.NewProgramHandler(programService)
	locationHandler := handlers.NewLocationHandler(locationService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)

	// All resource routes require a resolved tenant
	scheduling := router.Group("/scheduling")
	scheduling.Use(middlewares.TenantResolver(cfg.JWTSecret))
	{
		programs := scheduling.Group("/programs")
		{
			programs.GET("", programHandler.Get)
			programs.POST("", programHandler.Create)
			programs.PATCH("", programHandler.Update)
			programs.DELETE("", programHandler.Delete)
		}

		locations := scheduling.Group("/locations")
		{
			locations.GET("", locationHandler.Get)
			locations.POST("", locationHandler.Create)
			locations.PATCH("", locationHandler.Update)
			locations.DELETE("", locationHandler.Delete)
		}

		schedules := scheduling.Group("/schedules")
		{
			schedules.GET("", scheduleHandler.Get)
			schedules.POST("", scheduleHandler.Create)
			schedules.PATCH("", scheduleHandler.Update)
			schedules.DELETE("", scheduleHandler.Delete)
		}

		exceptions := scheduling.Group("/exceptions")
		{
			exceptions.GET("", scheduleHandler.GetExceptions)
			exceptions.POST("", scheduleHandler.PutException)
			exceptions.PATCH("", scheduleHandler.PutException)
			exceptions.DELETE("", scheduleHandler.DeleteException)
		}

		scheduling.GET("/sessions", sessionHandler.Get)

		bookings := scheduling.Group("/bookings")
		{
			bookings.GET("", bookingHandler.Get)
			bookings.POST("", bookingHandler.Create)
			bookings.DELETE("", bookingHandler.Delete)
		}

		attendance := scheduling.Group("/attendance")
		{
			attendance.GET("", attendanceHandler.Get)
			attendance.POST("", attendanceHandler.Create)
			attendance.PATCH("", attendanceHandler.Update)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "healthy",
			Service:   "kx-scheduler-services",
			Timestamp: time.Now().UTC(),
		})
	})

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "endpoint not found"})
	})
}
