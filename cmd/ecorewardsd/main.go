package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/EvergreenMarketLab/ecorewards/internal/httpapi"
	"github.com/EvergreenMarketLab/ecorewards/internal/store/gormstore"
	"github.com/EvergreenMarketLab/ecorewards/internal/store/pgstore"
	"github.com/EvergreenMarketLab/ecorewards/pkg/cart"
	"github.com/EvergreenMarketLab/ecorewards/pkg/catalog"
	"github.com/EvergreenMarketLab/ecorewards/pkg/docstore"
	"github.com/EvergreenMarketLab/ecorewards/pkg/ecocoins"
	"github.com/EvergreenMarketLab/ecorewards/pkg/rewards"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	flagDatabaseURL      = "database-url"
	flagListenAddr       = "listen-addr"
	flagAllowedOrigins   = "allowed-origins"
	flagProductsFile     = "products-file"
	flagDailyStreak      = "daily-streak"
	configKeyDatabaseURL = "database_url"
	configKeyListenAddr  = "listen_addr"
	configKeyOrigins     = "allowed_origins"
	configKeyProducts    = "products_file"
	configKeyDailyStreak = "daily_streak"
	defaultDatabaseURL   = "sqlite:///tmp/ecorewards.db"
	defaultListenAddr    = ":8080"
)

type runtimeConfig struct {
	DatabaseURL    string
	ListenAddr     string
	AllowedOrigins []string
	ProductsFile   string
	DailyStreak    bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ecorewardsd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "ecorewardsd",
		Short:         "Sustainability rewards and EcoCoin storefront API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "database connection string (sqlite path, postgres:// URL, or pgx:// URL)")
	cmd.Flags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagProductsFile, "", "path to a JSON product catalog")
	cmd.Flags().Bool(flagDailyStreak, false, "count purchase streaks per calendar day instead of per purchase")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv(configKeyDatabaseURL, "DATABASE_URL"); err != nil {
		return err
	}
	if err := viper.BindEnv(configKeyListenAddr, "LISTEN_ADDR"); err != nil {
		return err
	}
	if err := viper.BindEnv(configKeyOrigins, "ALLOWED_ORIGINS"); err != nil {
		return err
	}
	if err := viper.BindEnv(configKeyProducts, "PRODUCTS_FILE"); err != nil {
		return err
	}
	if err := viper.BindEnv(configKeyDailyStreak, "DAILY_STREAK"); err != nil {
		return err
	}

	if err := viper.BindPFlag(configKeyDatabaseURL, cmd.Flags().Lookup(flagDatabaseURL)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyListenAddr, cmd.Flags().Lookup(flagListenAddr)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyOrigins, cmd.Flags().Lookup(flagAllowedOrigins)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyProducts, cmd.Flags().Lookup(flagProductsFile)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyDailyStreak, cmd.Flags().Lookup(flagDailyStreak)); err != nil {
		return err
	}

	cfg.DatabaseURL = viper.GetString(configKeyDatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.ListenAddr = viper.GetString(configKeyListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if origins := viper.GetString(configKeyOrigins); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.ProductsFile = viper.GetString(configKeyProducts)
	cfg.DailyStreak = viper.GetBool(configKeyDailyStreak)
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, cleanup, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("store open: %w", err)
	}
	defer cleanup()

	products, err := loadProducts(cfg.ProductsFile)
	if err != nil {
		return fmt.Errorf("products load: %w", err)
	}

	clock := func() time.Time { return time.Now().UTC() }
	rewardsOptions := []rewards.ServiceOption{
		rewards.WithOperationLogger(&zapRewardsLogger{logger: logger}),
	}
	if cfg.DailyStreak {
		rewardsOptions = append(rewardsOptions, rewards.WithStreakPolicy(rewards.CalendarDayStreak{}))
	}
	rewardsService, err := rewards.NewService(store, clock, rewardsOptions...)
	if err != nil {
		return fmt.Errorf("rewards service init: %w", err)
	}
	coinService, err := ecocoins.NewService(store, clock, ecocoins.WithOperationLogger(&zapCoinsLogger{logger: logger}))
	if err != nil {
		return fmt.Errorf("coin service init: %w", err)
	}
	cartService, err := cart.NewService(store)
	if err != nil {
		return fmt.Errorf("cart service init: %w", err)
	}

	server := httpapi.NewServer(logger, rewardsService, coinService, cartService, products)
	return httpapi.Run(ctx, httpapi.Config{
		ListenAddr:     cfg.ListenAddr,
		AllowedOrigins: cfg.AllowedOrigins,
	}, server)
}

// openStore selects the persistence backend from the URL scheme: pgx:// uses
// the raw pgx pool store, postgres:// goes through GORM, and anything else is
// treated as a sqlite path.
func openStore(ctx context.Context, dsn string) (docstore.Store, func() error, error) {
	if strings.HasPrefix(dsn, "pgx://") {
		pool, err := pgxpool.New(ctx, "postgres://"+strings.TrimPrefix(dsn, "pgx://"))
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func() error { pool.Close(); return nil }, nil
	}

	var (
		db  *gorm.DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		var sqlitePath string
		sqlitePath, err = resolveSQLitePath(dsn)
		if err != nil {
			return nil, nil, err
		}
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&gormstore.Document{}); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormstore.New(db.WithContext(ctx)), sqlDB.Close, nil
}

func resolveSQLitePath(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "ecorewards.db"
		}
		return normalizeSQLitePath(path)
	}
	// Treat everything else as a direct sqlite path.
	return normalizeSQLitePath(dsn)
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

func loadProducts(path string) ([]catalog.Product, error) {
	if path == "" {
		return []catalog.Product{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}
	return products, nil
}
