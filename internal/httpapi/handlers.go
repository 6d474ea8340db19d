package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/EvergreenMarketLab/ecorewards/pkg/cart"
	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
	"github.com/EvergreenMarketLab/ecorewards/pkg/ecocoins"
	"github.com/EvergreenMarketLab/ecorewards/pkg/rewards"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	SpendCoins int `json:"spendCoins"`
}

type redeemRequest struct {
	RewardID string `json:"rewardId" binding:"required"`
}

type spendRequest struct {
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type quoteRequest struct {
	Items []catalog.CartItem `json:"items"`
}

func (server *Server) handleListProducts(ctx *gin.Context) {
	filter := catalog.Filter{
		Search:      ctx.Query("search"),
		InStockOnly: ctx.Query("inStock") == "true",
	}
	if category := ctx.Query("category"); category != "" {
		filter.Categories = []string{category}
	}
	if impact := ctx.Query("impact"); impact != "" {
		tier, err := catalog.ParseImpactTier(impact)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_impact", err.Error()))
			return
		}
		filter.CarbonImpact = []catalog.ImpactTier{tier}
	}
	if maxPrice := ctx.Query("maxPrice"); maxPrice != "" {
		parsed, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_max_price", "maxPrice must be a non-negative number"))
			return
		}
		filter.MaxPrice = parsed
	}
	if ctx.Query("verified") == "true" {
		filter.VerifiedOnly = true
	}
	matched := filter.Apply(server.products)
	ctx.JSON(http.StatusOK, gin.H{"products": matched, "count": len(matched)})
}

func (server *Server) handleGetCart(ctx *gin.Context) {
	items, err := server.cart.Items(ctx.Request.Context())
	if err != nil {
		server.respondStoreError(ctx, "cart load failed", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": items, "summary": catalog.Summarize(items)})
}

func (server *Server) handleAddCartItem(ctx *gin.Context) {
	var request addItemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body with productId"))
		return
	}
	product, err := catalog.FindProduct(server.products, request.ProductID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse("unknown_product", "no such product"))
		return
	}
	if err := server.cart.AddItem(ctx.Request.Context(), product); err != nil {
		server.respondStoreError(ctx, "cart add failed", err)
		return
	}
	server.handleGetCart(ctx)
}

func (server *Server) handleUpdateCartItem(ctx *gin.Context) {
	var request updateItemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body with quantity"))
		return
	}
	err := server.cart.UpdateQuantity(ctx.Request.Context(), ctx.Param("id"), request.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrUnknownItem) {
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_item", "product is not in the cart"))
			return
		}
		server.respondStoreError(ctx, "cart update failed", err)
		return
	}
	server.handleGetCart(ctx)
}

func (server *Server) handleRemoveCartItem(ctx *gin.Context) {
	if err := server.cart.RemoveItem(ctx.Request.Context(), ctx.Param("id")); err != nil {
		server.respondStoreError(ctx, "cart remove failed", err)
		return
	}
	server.handleGetCart(ctx)
}

// handleCheckout runs both engines over the current cart: optional coin
// discount first, then point accrual and coin earnings, then the cart is
// cleared.
func (server *Server) handleCheckout(ctx *gin.Context) {
	var request checkoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !isEmptyBody(err) {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	requestCtx := ctx.Request.Context()
	items, err := server.cart.Items(requestCtx)
	if err != nil {
		server.respondStoreError(ctx, "cart load failed", err)
		return
	}
	if len(items) == 0 {
		ctx.JSON(http.StatusBadRequest, errorResponse("empty_cart", "the cart has no items"))
		return
	}

	discount := 0.0
	if request.SpendCoins > 0 {
		if err := server.coins.SpendCoins(requestCtx, request.SpendCoins, "EcoCoins discount at checkout"); err != nil {
			if errors.Is(err, ecocoins.ErrInsufficientCoins) {
				ctx.JSON(http.StatusConflict, errorResponse("insufficient_coins", "not enough EcoCoins for the requested discount"))
				return
			}
			if errors.Is(err, ecocoins.ErrInvalidAmount) {
				ctx.JSON(http.StatusBadRequest, errorResponse("invalid_amount", err.Error()))
				return
			}
			server.respondStoreError(ctx, "coin spend failed", err)
			return
		}
		discount = ecocoins.CoinsValue(request.SpendCoins)
	}

	purchase, err := server.rewards.ProcessPurchase(requestCtx, items)
	if err != nil {
		server.respondStoreError(ctx, "purchase processing failed", err)
		return
	}
	earnings, err := server.coins.ProcessPurchaseEarnings(requestCtx, items)
	if err != nil {
		server.respondStoreError(ctx, "coin earnings failed", err)
		return
	}
	if err := server.cart.Clear(requestCtx); err != nil {
		server.respondStoreError(ctx, "cart clear failed", err)
		return
	}

	summary := catalog.Summarize(items)
	ctx.JSON(http.StatusOK, gin.H{
		"totalSpent":       summary.TotalSpent,
		"discount":         discount,
		"pointsEarned":     purchase.PointsEarned,
		"newAchievements":  purchase.NewAchievements,
		"coinsEarned":      earnings.TotalEarned,
		"bonusCoins":       earnings.BonusCoins,
		"coinTransactions": earnings.Transactions,
	})
}

func (server *Server) handleRewardsProfile(ctx *gin.Context) {
	profile, err := server.rewards.Profile(ctx.Request.Context())
	if err != nil {
		server.respondStoreError(ctx, "profile load failed", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"profile":             profile,
		"levelInfo":           rewards.LevelInfoFor(profile.Level),
		"progressToNextLevel": rewards.ProgressToNextLevel(profile.TotalPoints),
	})
}

func (server *Server) handleRedeemReward(ctx *gin.Context) {
	var request redeemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body with rewardId"))
		return
	}
	redemption, err := server.rewards.RedeemReward(ctx.Request.Context(), request.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrUnknownReward):
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_reward", "no such reward"))
		case errors.Is(err, rewards.ErrInsufficientPoints):
			ctx.JSON(http.StatusConflict, errorResponse("insufficient_points", "not enough points for this reward"))
		case errors.Is(err, rewards.ErrInvalidRewardID):
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_reward_id", err.Error()))
		default:
			server.respondStoreError(ctx, "redeem failed", err)
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"redemption": redemption})
}

func (server *Server) handleMarkRewardUsed(ctx *gin.Context) {
	err := server.rewards.MarkRewardUsed(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, rewards.ErrUnknownRedemption):
			ctx.JSON(http.StatusNotFound, errorResponse("unknown_redemption", "no such redemption"))
		case errors.Is(err, rewards.ErrRewardAlreadyUsed):
			ctx.JSON(http.StatusConflict, errorResponse("reward_already_used", "this reward was already used"))
		case errors.Is(err, rewards.ErrInvalidRedemptionID):
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_redemption_id", err.Error()))
		default:
			server.respondStoreError(ctx, "mark used failed", err)
		}
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "used"})
}

func (server *Server) handleCoinBalance(ctx *gin.Context) {
	balance, err := server.coins.Balance(ctx.Request.Context())
	if err != nil {
		server.respondStoreError(ctx, "balance load failed", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"balance":     balance,
		"dollarValue": ecocoins.CoinsValue(balance.Total),
	})
}

func (server *Server) handleCoinTransactions(ctx *gin.Context) {
	limit := defaultTransactionLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxTransactionLimit {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_limit", "limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}
	transactions, err := server.coins.RecentTransactions(ctx.Request.Context(), limit)
	if err != nil {
		server.respondStoreError(ctx, "transactions load failed", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (server *Server) handleCoinSummary(ctx *gin.Context) {
	requestCtx := ctx.Request.Context()
	today, err := server.coins.TodayEarnings(requestCtx)
	if err != nil {
		server.respondStoreError(ctx, "summary load failed", err)
		return
	}
	weekly, err := server.coins.WeeklyEarnings(requestCtx)
	if err != nil {
		server.respondStoreError(ctx, "summary load failed", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"todayEarnings": today, "weeklyEarnings": weekly})
}

func (server *Server) handleSpendCoins(ctx *gin.Context) {
	var request spendRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body with amount"))
		return
	}
	description := request.Description
	if description == "" {
		description = "EcoCoins discount at checkout"
	}
	err := server.coins.SpendCoins(ctx.Request.Context(), request.Amount, description)
	if err != nil {
		switch {
		case errors.Is(err, ecocoins.ErrInsufficientCoins):
			ctx.JSON(http.StatusConflict, errorResponse("insufficient_coins", "not enough EcoCoins"))
		case errors.Is(err, ecocoins.ErrInvalidAmount):
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_amount", err.Error()))
		default:
			server.respondStoreError(ctx, "spend failed", err)
		}
		return
	}
	server.handleCoinBalance(ctx)
}

func (server *Server) handleCoinQuote(ctx *gin.Context) {
	var request quoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body with items"))
		return
	}
	calculation := ecocoins.CalculateCoinsFromPurchase(request.Items)
	ctx.JSON(http.StatusOK, calculation)
}

func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}

func (server *Server) respondStoreError(ctx *gin.Context, message string, err error) {
	server.logger.Error(message, zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", message))
}
