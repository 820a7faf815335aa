package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"galleria/api/internal/cache"
	"galleria/api/internal/config"
	"galleria/api/internal/middleware"
	"galleria/api/internal/repository"
	"galleria/api/internal/service"
	"galleria/api/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	images   *service.ImageService
	likes    *service.LikeService
	comments *service.CommentService
	db       *mongo.Database
	cache    *redis.Client
	store    *storage.ObjectStore
}

func NewHandlerSet(
	log zerolog.Logger,
	db *mongo.Database,
	cacheClient *redis.Client,
	store *storage.ObjectStore,
	verifier service.TokenVerifier,
	cfg *config.AppConfig,
) HandlerSet {
	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	listCache := cache.NewListCache(cacheClient, cfg.Redis.ListTTL)

	auth := service.NewAuthService(adminRepo, userRepo, verifier, cfg, log)
	images := service.NewImageService(imageRepo, likeRepo, commentRepo, userRepo, store, listCache, log)
	likes := service.NewLikeService(likeRepo, imageRepo, userRepo, listCache, log)
	comments := service.NewCommentService(commentRepo, imageRepo, userRepo)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     auth,
		images:   images,
		likes:    likes,
		comments: comments,
		db:       db,
		cache:    cacheClient,
		store:    store,
	}
}

// Likes exposes the like service for the scheduler's reconciliation job.
func (h HandlerSet) Likes() *service.LikeService {
	return h.likes
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/admin/register", h.RegisterAdmin)
	auth.POST("/admin/login", h.LoginAdmin)
	auth.POST("/user/login", h.LoginUser)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)

	images := v1.Group("/images")
	images.GET("", h.ListImages)
	images.GET("/:id", h.GetImage)

	adminImages := v1.Group("/images")
	adminImages.Use(middleware.AdminAuth(h.cfg))
	adminImages.POST("/upload", h.UploadImage)
	adminImages.PUT("/:id", h.UpdateImage)
	adminImages.DELETE("/:id", h.DeleteImage)

	likes := v1.Group("/likes")
	likes.Use(middleware.UserAuth(h.cfg))
	likes.POST("/:imageId/like", h.LikeImage)
	likes.DELETE("/:imageId/like", h.UnlikeImage)
	likes.GET("", h.ListLikedImages)

	comments := v1.Group("/comments")
	comments.GET("/:imageId", h.ListComments)

	userComments := v1.Group("/comments")
	userComments.Use(middleware.UserAuth(h.cfg))
	userComments.POST("/:imageId", h.AddComment)
}
