// Package httpapi exposes the storefront engines over HTTP for the
// presentation layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/pkg/cart"
	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
	"github.com/EvergreenMarketLab/ecorewards/pkg/ecocoins"
	"github.com/EvergreenMarketLab/ecorewards/pkg/rewards"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server holds the wired engines behind the HTTP handlers.
type Server struct {
	logger   *zap.Logger
	rewards  *rewards.Service
	coins    *ecocoins.Service
	cart     *cart.Service
	products []catalog.Product
}

// NewServer wires a Server over the storefront services. The product list is
// the catalog snapshot served to clients; the server never mutates it.
func NewServer(logger *zap.Logger, rewardsService *rewards.Service, coinService *ecocoins.Service, cartService *cart.Service, products []catalog.Product) *Server {
	return &Server{
		logger:   logger,
		rewards:  rewardsService,
		coins:    coinService,
		cart:     cartService,
		products: products,
	}
}

// Router builds the gin engine with CORS and all storefront routes.
func (server *Server) Router(allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/products", server.handleListProducts)
	api.GET("/cart", server.handleGetCart)
	api.POST("/cart/items", server.handleAddCartItem)
	api.PATCH("/cart/items/:id", server.handleUpdateCartItem)
	api.DELETE("/cart/items/:id", server.handleRemoveCartItem)
	api.POST("/checkout", server.handleCheckout)
	api.GET("/rewards/profile", server.handleRewardsProfile)
	api.POST("/rewards/redeem", server.handleRedeemReward)
	api.POST("/rewards/redemptions/:id/use", server.handleMarkRewardUsed)
	api.GET("/coins/balance", server.handleCoinBalance)
	api.GET("/coins/transactions", server.handleCoinTransactions)
	api.GET("/coins/summary", server.handleCoinSummary)
	api.POST("/coins/spend", server.handleSpendCoins)
	api.POST("/coins/quote", server.handleCoinQuote)

	return router
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg Config, server *Server) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(cfg.AllowedOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("storefront api listening", zap.String("addr", cfg.ListenAddr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			server.logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func errorResponse(code string, message string) gin.H {
	return gin.H{"error": code, "message": message}
}
