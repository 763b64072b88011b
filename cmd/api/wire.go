//go:build wireinject
// +build wireinject

// Run `wire gen ./cmd/api` after changing a provider set.

package main

import (
	"github.com/google/wire"

	appauth "github.com/xiebiao/catalog/internal/application/auth"
	appcatalog "github.com/xiebiao/catalog/internal/application/catalog"
	appevent "github.com/xiebiao/catalog/internal/application/event"
	appmovie "github.com/xiebiao/catalog/internal/application/movie"
	apporder "github.com/xiebiao/catalog/internal/application/order"
	"github.com/xiebiao/catalog/internal/application/tx"
	appuser "github.com/xiebiao/catalog/internal/application/user"
	"github.com/xiebiao/catalog/internal/domain/user"
	"github.com/xiebiao/catalog/internal/infrastructure/config"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/catalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/catalog/internal/interface/http/handler"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/internal/interface/http/router"
	"github.com/xiebiao/catalog/pkg/authz"
)

var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
	provideJWTManager,
	authz.NewAuthorizer,
	redis.NewSessionStore,
	wire.Bind(new(appauth.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

var repositorySet = wire.NewSet(
	mysql.NewCategoryRepository,
	mysql.NewProductRepository,
	mysql.NewGenreRepository,
	mysql.NewMovieRepository,
	mysql.NewReviewRepository,
	mysql.NewCityRepository,
	mysql.NewEventRepository,
	mysql.NewUserRepository,
	mysql.NewRoleRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(tx.Manager), new(*mysql.TxManager)),
)

var applicationSet = wire.NewSet(
	user.NewService,
	appcatalog.NewCategoryService,
	appcatalog.NewProductService,
	appmovie.NewService,
	appevent.NewService,
	appuser.NewService,
	appauth.NewLoginUseCase,
	appauth.NewLogoutUseCase,
	appauth.NewRefreshUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewService,
)

var httpSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewCategoryHandler,
	handler.NewProductHandler,
	handler.NewMovieHandler,
	handler.NewEventHandler,
	handler.NewUserHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp builds the engine. The cleanup closes the broker, Redis and
// the database in reverse order of creation.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		httpSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
