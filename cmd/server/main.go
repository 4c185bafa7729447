package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/api"
	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/model"
	"taskboard/internal/storage"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		return
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if repo != nil {
		if err := model.SeedSuperAdmin(context.Background(), repo, cfg); err != nil {
			logrus.WithError(err).Warn("failed to seed super admin")
		}
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", httpHandler.Signup)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/refresh", httpHandler.Refresh)
	authGroup.POST("/forgot-password", httpHandler.ForgotPassword)
	authGroup.POST("/reset-password", httpHandler.ResetPassword)
	authGroup.POST("/verify-email", httpHandler.VerifyEmail)
	authGroup.GET("/me", httpHandler.AuthMiddleware(), httpHandler.Me)
	authGroup.POST("/logout", httpHandler.AuthMiddleware(), httpHandler.Logout)
	authGroup.POST("/logout-all", httpHandler.AuthMiddleware(), httpHandler.LogoutAll)
	authGroup.GET("/sessions", httpHandler.AuthMiddleware(), httpHandler.ListSessions)

	protected := apiGroup.Group("")
	protected.Use(httpHandler.AuthMiddleware())

	users := protected.Group("/users")
	users.GET("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadUser}), httpHandler.ListUsers)
	users.POST("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermCreateUser}), httpHandler.CreateUser)
	users.GET("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadUser}), httpHandler.GetUser)
	users.PATCH("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateUser}), httpHandler.UpdateUser)
	users.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteUser}), httpHandler.DeleteUser)

	orgs := protected.Group("/organizations")
	orgs.GET("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadOrganization}), httpHandler.ListOrganizations)
	orgs.POST("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermCreateOrganization}), httpHandler.CreateOrganization)
	orgs.GET("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadOrganization}), httpHandler.GetOrganization)
	orgs.PATCH("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateOrganization}), httpHandler.UpdateOrganization)
	orgs.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteOrganization}), httpHandler.DeleteOrganization)

	boards := protected.Group("/boards")
	boards.GET("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadBoard}), httpHandler.ListBoards)
	boards.POST("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermCreateBoard}), httpHandler.CreateBoard)
	boards.GET("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadBoard}), httpHandler.GetBoard)
	boards.PATCH("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateBoard}), httpHandler.UpdateBoard)
	boards.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteBoard}), httpHandler.DeleteBoard)
	boards.GET("/:id/tasks", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadTask}), paramAlias("id", "board_id"), httpHandler.ListTasks)
	boards.POST("/:id/tasks", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermCreateTask}), paramAlias("id", "board_id"), httpHandler.CreateTask)

	tasks := protected.Group("/tasks")
	tasks.GET("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadTask}), httpHandler.ListTasks)
	tasks.GET("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadTask}), httpHandler.GetTask)
	tasks.PATCH("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateTask}), httpHandler.UpdateTask)
	tasks.PATCH("/:id/status", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateTaskStatus}), httpHandler.UpdateTaskStatus)
	tasks.POST("/:id/assign", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermAssignTask}), httpHandler.AssignTask)
	tasks.DELETE("/:id/assign", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUnassignTask}), httpHandler.UnassignTask)
	tasks.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteTask}), httpHandler.DeleteTask)
	tasks.GET("/:id/comments", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadComment}), paramAlias("id", "task_id"), httpHandler.ListComments)
	tasks.POST("/:id/comments", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermCreateComment}), paramAlias("id", "task_id"), httpHandler.CreateComment)
	tasks.GET("/:id/attachments", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermViewAttachment}), paramAlias("id", "task_id"), httpHandler.ListAttachments)
	tasks.POST("/:id/attachments", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUploadAttachment}), paramAlias("id", "task_id"), httpHandler.UploadAttachment)

	comments := protected.Group("/comments")
	comments.PATCH("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermUpdateComment}), httpHandler.UpdateComment)
	comments.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteComment}), httpHandler.DeleteComment)

	attachments := protected.Group("/attachments")
	attachments.GET("/:id/download", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermViewAttachment}), httpHandler.DownloadAttachment)
	attachments.DELETE("/:id", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermDeleteAttachment}), httpHandler.DeleteAttachment)

	notifications := protected.Group("/notifications")
	notifications.GET("", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadNotification}), httpHandler.ListNotifications)
	notifications.PATCH("/:id/read", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadNotification}), httpHandler.MarkNotificationRead)
	notifications.POST("/read-all", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadNotification}), httpHandler.MarkAllNotificationsRead)

	protected.GET("/audit-logs", httpHandler.RequirePolicy(auth.Policy{Permission: auth.PermReadAuditLogs}), httpHandler.ListAuditLogs)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/files"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithField("host", serverHost).Info("server starting")
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Error("server stopped")
	}
}

// paramAlias copies one route parameter under a second name so handlers can
// share a binding regardless of the route that reached them.
func paramAlias(from, to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.Param(from); v != "" {
			c.Params = append(c.Params, gin.Param{Key: to, Value: v})
		}
		c.Next()
	}
}

// CORSMiddleware sets permissive CORS headers and answers preflight
// requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs one structured line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
