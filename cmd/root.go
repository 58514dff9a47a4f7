package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/adapters/notifier"
	"github.com/amhub/dataworld/internal/adapters/repository"
	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
	"github.com/amhub/dataworld/internal/core/services"
	"github.com/amhub/dataworld/pkg/config"
	"github.com/amhub/dataworld/pkg/logger"
	"github.com/amhub/dataworld/pkg/ui"
	"github.com/amhub/dataworld/pkg/vault"
)

const tagline = "Fast, affordable and accurate material compliance database."

var (
	// Global vault instance
	appVault  *vault.Vault
	appConfig *config.Config
	appLog    *logger.Logger

	// Catalog source; fileSource is nil when the built-in seed is served
	catalogSource ports.MaterialSource
	fileSource    *repository.FileSource

	// Services
	catalogService *services.CatalogService
	filterService  *services.FilterService
	requestService *services.RequestService

	// loadErr is the result of the initial catalog load
	loadErr error

	// Global flags
	flagConfigPath  string
	flagCatalogPath string
	flagPolicy      string
	flagLogMode     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dw",
	Short: "DATAWORLD - 3D printing material compliance catalog",
	Long: ui.FormatPill("DATAWORLD") + " " + tagline + "\n\n" +
		"Browse certified additive-manufacturing materials, filter by color,\n" +
		"manufacturer and certification, and request certificates from AM Hub.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if appLog != nil {
		appLog.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Config file (default is the XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&flagCatalogPath, "catalog", "", "Catalog file to load (.yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "Load policy for invalid records: strict or skip")
	rootCmd.PersistentFlags().StringVar(&flagLogMode, "log", "", "Log mode: quiet, dev, prod or off")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(manufacturersCmd)
	rootCmd.AddCommand(certsCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(outboxCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(faqCmd)
}

// skipInit lists commands that run without loading the catalog
var skipInit = map[string]bool{
	"init":       true,
	"version":    true,
	"faq":        true,
	"help":       true,
	"completion": true,
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipInit[cmd.Name()] {
		return nil
	}

	v, err := vault.New()
	if err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}
	appVault = v
	if flagConfigPath != "" {
		appVault.ConfigPath = flagConfigPath
	}

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		fmt.Println(ui.FormatError("Invalid configuration"))
		return err
	}
	if flagPolicy != "" {
		cfg.LoadPolicy = flagPolicy
	}
	if flagLogMode != "" {
		cfg.LogMode = flagLogMode
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	appLog, err = logger.New(cfg.LogMode)
	if err != nil {
		return err
	}

	return wireServices(getContext())
}

// wireServices builds the catalog, filter and request services from the
// loaded config and performs the initial load
func wireServices(ctx context.Context) error {
	policy, err := domain.ParseLoadPolicy(appConfig.LoadPolicy)
	if err != nil {
		return err
	}

	path := flagCatalogPath
	if path == "" {
		path = appVault.ResolveCatalogPath(appConfig.CatalogPath)
	}

	fileSource = repository.NewFileSource(path)
	catalogSource = fileSource
	if !fileSource.Exists() {
		if flagCatalogPath != "" {
			return fmt.Errorf("catalog file not found: %s", path)
		}
		fileSource = nil
		catalogSource = repository.SeedSource{}
		appLog.Warn("catalog file missing, serving built-in catalog", "path", path)
	}

	catalogService = services.NewCatalogService(catalogSource, domain.LoadOptions{
		Policy:             policy,
		KnownManufacturers: appConfig.KnownManufacturers,
	}, appLog)
	filterService = services.NewFilterService(catalogService)

	n, err := newNotifier()
	if err != nil {
		return err
	}
	requestService = services.NewRequestService(catalogService, n,
		time.Duration(appConfig.NotifyTimeoutSeconds)*time.Second, appLog)

	_, loadErr = catalogService.Load(ctx)
	return nil
}

// newNotifier picks the webhook when an endpoint is configured, the local outbox otherwise
func newNotifier() (ports.Notifier, error) {
	if appConfig.NotifyEndpoint == "" {
		return notifier.NewOutbox(appVault.OutboxFile()), nil
	}
	return notifier.NewWebhook(notifier.WebhookConfig{
		Endpoint:   appConfig.NotifyEndpoint,
		Token:      appConfig.NotifyToken(),
		Timeout:    time.Duration(appConfig.NotifyTimeoutSeconds) * time.Second,
		MaxRetries: appConfig.NotifyMaxRetries,
	}, appLog)
}

// requireCatalog returns the current snapshot or prints why there is none
func requireCatalog() (*domain.Catalog, error) {
	cat, err := catalogService.MustSnapshot()
	if err == nil {
		return cat, nil
	}
	fmt.Println(ui.FormatError("Catalog could not be loaded from " + catalogService.Source()))
	for _, ve := range domain.ValidationErrors(loadErr) {
		fmt.Println(ui.FormatMuted("  " + ve.Error()))
	}
	fmt.Println(ui.FormatInfo("Run 'dw doctor' for details, or retry with --policy skip"))
	if loadErr == nil {
		return nil, err
	}
	return nil, loadErr
}

// websiteDirectory builds the manufacturer website lookup from config
func websiteDirectory() services.WebsiteDirectory {
	return services.WebsiteDirectory{
		Default:   appConfig.DefaultWebsite,
		Overrides: appConfig.ManufacturerSites,
	}
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}

// signalContext is cancelled on SIGINT or SIGTERM, for long-running commands
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
