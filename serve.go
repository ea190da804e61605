package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"go-ecommerce-api/cache"
	"go-ecommerce-api/config"
	"go-ecommerce-api/controllers"
	"go-ecommerce-api/metrics"
	"go-ecommerce-api/routes"
	"go-ecommerce-api/services"
	"go-ecommerce-api/store"
	"go-ecommerce-api/utils"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "migrate the schema and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, s, err := bootstrap()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := s.Migrate(ctx); err != nil {
				return err
			}

			var productCache cache.Cache
			if cfg.RedisAddr != "" {
				productCache = cache.NewRedisCache(cfg.RedisAddr, "ecommerce")
				defer productCache.Close()
				logger.Info().Str("addr", cfg.RedisAddr).Msg("product cache enabled")
			}

			m := metrics.New()
			emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender, logger)
			users := newUserService(cfg, s)
			orders := services.NewOrderService(s,
				services.WithNotifier(emailService),
				services.WithMetrics(m),
				services.WithStrictTransitions(cfg.StrictOrderTransitions),
			)

			router := routes.NewRouter(routes.Controllers{
				Users:    controllers.NewUserController(users),
				Products: controllers.NewProductController(services.NewProductService(s, productCache, cfg.ProductCacheTTL)),
				Carts:    controllers.NewCartController(services.NewCartService(s)),
				Orders:   controllers.NewOrderController(orders),
				Health:   controllers.NewHealthController(s),
			}, users, m, logger)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", srv.Addr).Str("driver", cfg.DBDriver).Msg("Server is running")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newUserService(cfg config.Config, s *store.Store) *services.UserService {
	return services.NewUserService(s, utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL))
}
