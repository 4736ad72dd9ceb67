package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/stepwise-app/stepwise-backend/internal/api/http"
	"github.com/stepwise-app/stepwise-backend/internal/api/http/middleware"
	authcache "github.com/stepwise-app/stepwise-backend/internal/auth/cache"
	authhttp "github.com/stepwise-app/stepwise-backend/internal/auth/http"
	authmw "github.com/stepwise-app/stepwise-backend/internal/auth/middleware"
	authservice "github.com/stepwise-app/stepwise-backend/internal/auth/service"
	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	projecthttp "github.com/stepwise-app/stepwise-backend/internal/projects/http"
	projectrepo "github.com/stepwise-app/stepwise-backend/internal/projects/repository"
	projectservice "github.com/stepwise-app/stepwise-backend/internal/projects/service"
	userhttp "github.com/stepwise-app/stepwise-backend/internal/users/http"
	userrepo "github.com/stepwise-app/stepwise-backend/internal/users/repository"
	userservice "github.com/stepwise-app/stepwise-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Redis       *redis.Client
	Signer      *token.Signer
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	users := userrepo.NewUserRepository(dep.DB)
	projects := projectrepo.NewProjectRepository(dep.DB)

	var tokenCache *authcache.TokenCache
	if dep.Redis != nil {
		tokenCache = authcache.NewTokenCache(dep.Redis)
	}

	api := r.Group("/api/v1")

	authHandler := authhttp.New(authservice.NewAuthService(users, dep.Signer, nilIfEmptyAuth(tokenCache)))
	authHandler.Register(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(authmw.JWTAuthMiddleware(dep.Signer))

	userHandler := userhttp.New(userservice.NewUserService(users, dep.Signer, nilIfEmptyUser(tokenCache)))
	userHandler.Register(protected.Group("/users"))

	projectHandler := projecthttp.New(projectservice.NewProjectService(projects, users))
	projectHandler.Register(protected.Group("/projects"))

	return r
}

// A nil *TokenCache stored in an interface would not compare equal to nil;
// hand the services a true nil instead when Redis is absent.
func nilIfEmptyAuth(c *authcache.TokenCache) authservice.TokenCache {
	if c == nil {
		return nil
	}
	return c
}

func nilIfEmptyUser(c *authcache.TokenCache) userservice.TokenCache {
	if c == nil {
		return nil
	}
	return c
}
