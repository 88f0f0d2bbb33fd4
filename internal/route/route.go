package route

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/blog-service/config"
	"terminal-terrace/blog-service/internal/article"
	"terminal-terrace/blog-service/internal/comment"
	"terminal-terrace/blog-service/internal/file"
	"terminal-terrace/blog-service/internal/middleware"
	"terminal-terrace/blog-service/internal/tag"
)

// Deps 路由依赖
type Deps struct {
	Config   *config.AppConfig
	DB       *gorm.DB
	Redis    *redis.Client // 可为 nil
	Storage  file.ObjectStorage
	Resolver middleware.Resolver
	Log      *zap.Logger
	Registry *prometheus.Registry
	Health   func(ctx context.Context) error // 可为 nil
}

// Services 组装好的领域服务，HTTP 与 gRPC 共用
type Services struct {
	Articles article.ArticleService
	Comments comment.CommentService
	Files    file.FileService
	Tags     tag.TagService
}

// NewServices 初始化仓储并按接口注入各服务
func NewServices(d Deps) *Services {
	articleRepo := article.NewArticleRepository(d.DB)
	commentRepo := comment.NewCommentRepository(d.DB)
	fileRepo := file.NewFileRepository(d.DB)
	tagRepo := tag.NewTagRepository(d.DB)

	var rdb redis.Cmdable
	if d.Redis != nil {
		rdb = d.Redis
	}
	views := article.NewViewCounter(articleRepo, rdb, d.Config.Views.DedupeWindow)

	return &Services{
		Articles: article.NewArticleService(articleRepo, commentRepo, fileRepo, d.Storage, views),
		Comments: comment.NewCommentService(commentRepo, articleRepo),
		Files:    file.NewFileService(fileRepo, articleRepo, d.Storage),
		Tags:     tag.NewTagService(tagRepo),
	}
}

func initRoute(api *gin.RouterGroup, s *Services) {
	article.SetupArticleRoutes(api, s.Articles)
	comment.SetupCommentRoutes(api, s.Comments)
	file.SetupFileRoutes(api, s.Files)
	tag.SetupTagRoutes(api, s.Tags)
}

// SetupRouter 组装中间件与全部路由
func SetupRouter(d Deps, s *Services) *gin.Engine {
	if d.Config.Server.Mode != "" {
		gin.SetMode(d.Config.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog(d.Log))

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.Config.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	if d.Registry != nil {
		r.Use(middleware.NewMetrics(d.Registry).Handler())
		if d.Config.Metrics.Enabled {
			r.GET(d.Config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.Identity(d.Resolver))
	initRoute(api, s)

	return r
}
