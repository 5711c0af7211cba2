package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/cache"
	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/ratelimit"
	"github.com/bmohak/echo/internal/services"
	"github.com/bmohak/echo/pkg/config"
	"github.com/bmohak/echo/pkg/logging"
)

// Limiters holds the per-surface rate limiters. Any of them may be nil,
// which disables that limit.
type Limiters struct {
	Write        *ratelimit.Limiter
	Read         *ratelimit.Limiter
	Signup       *ratelimit.Limiter
	Availability *ratelimit.Limiter
	Verify       *ratelimit.Limiter
}

// Router wires the HTTP surface to the service layer.
type Router struct {
	accounts     *services.AccountService
	posts        *services.PostService
	feed         *services.FeedService
	interactions *services.InteractionService
	notify       *services.NotifyService
	search       *services.SearchService
	limiters     Limiters
	database     *db.DB
	cache        *cache.Cache
	cfg          *config.Config
	logger       *zap.Logger
}

// NewRouter creates the router and registers the custom binding rules.
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config, limiters Limiters) *Router {
	repo := db.NewRepository(database.DB)
	posts := db.NewPostRepository(repo)
	interactions := db.NewInteractionRepository(repo)

	feed := services.NewFeedService(posts, interactions, cfg.Feed.Limit)

	r := &Router{
		accounts:     services.NewAccountService(repo, redisCache, &cfg.Auth),
		posts:        services.NewPostService(repo),
		feed:         feed,
		interactions: services.NewInteractionService(repo),
		notify:       services.NewNotifyService(repo),
		search:       services.NewSearchService(repo, feed),
		limiters:     limiters,
		database:     database,
		cache:        redisCache,
		cfg:          cfg,
		logger:       logging.WithComponent("api-router"),
	}
	registerValidators()
	return r
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return services.ValidateUsername(fl.Field().String()) == nil
		})
	}
}

// SetupRoutes registers every endpoint on the engine.
func (r *Router) SetupRoutes(engine *gin.Engine) {
	auth := Auth(r.cfg.Auth.JWTSecret)

	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// account lifecycle, anonymous
	engine.POST("/signup", RateLimit(r.limiters.Signup, keyByIP), r.signupHandler)
	engine.POST("/login", r.loginHandler)
	engine.GET("/checkUsernameAvailability", RateLimit(r.limiters.Availability, keyByIP), r.checkUsernameHandler)
	engine.POST("/verification/send", RateLimit(r.limiters.Verify, keyByIP), r.sendVerificationHandler)
	engine.POST("/verification/verify", r.verifyCodeHandler)

	// feed and posts
	engine.GET("/posts", auth, r.timelineHandler)
	engine.POST("/post", auth, RateLimit(r.limiters.Write, keyByUser), r.createPostHandler)
	engine.DELETE("/post", auth, r.deletePostHandler)
	engine.GET("/post/:id/thread", auth, r.threadHandler)
	engine.GET("/post/:id/replies", auth, r.repliesHandler)

	// toggles
	toggle := engine.Group("/post/toggle", auth, RateLimit(r.limiters.Write, keyByUser))
	toggle.POST("/like", r.toggleLikeHandler)
	toggle.POST("/dislike", r.toggleDislikeHandler)
	toggle.POST("/repost", r.toggleRepostHandler)

	// social graph
	engine.POST("/follow", auth, RateLimit(r.limiters.Write, keyByUser), r.toggleFollowHandler)
	engine.GET("/follow/is", auth, r.isFollowingHandler)

	// profiles
	engine.GET("/profile/:handle", auth, RateLimit(r.limiters.Read, keyByIP), r.profileHandler)
	engine.PUT("/profile/:handle/edit", auth, r.editProfileHandler)
	engine.GET("/profile/:handle/posts", auth, r.profilePostsHandler)
	engine.GET("/profile/:handle/replies", auth, r.profileRepliesHandler)
	engine.GET("/profile/:handle/reposts", auth, r.profileRepostsHandler)
	engine.POST("/profile/report", auth, r.reportHandler)

	engine.GET("/college/:id", auth, RateLimit(r.limiters.Read, keyByIP), r.collegeHandler)
	engine.GET("/search", auth, r.searchHandler)
	engine.GET("/notifications", auth, r.notificationsHandler)

	engine.POST("/admin/announcement", auth, AdminOnly(), r.announcementHandler)
}

func (r *Router) healthHandler(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{"status": "OK", "service": "echo-api"}

	if err := r.database.Health(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		health["status"] = "DEGRADED"
		health["database"] = err.Error()
	}
	if err := r.cache.Health(c.Request.Context()); err != nil && err != cache.ErrCacheDisabled {
		status = http.StatusServiceUnavailable
		health["status"] = "DEGRADED"
		health["redis"] = err.Error()
	}
	c.JSON(status, health)
}
