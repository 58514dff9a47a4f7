package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/amhub/dataworld/internal/server"
	"github.com/amhub/dataworld/pkg/ui"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Start the HTTP API.

Endpoints:
  GET  /health
  GET  /metrics
  GET  /v1/materials            ?q=&color=&manufacturer=&cert=&valid_only=&today=
  GET  /v1/materials/:product
  GET  /v1/manufacturers
  GET  /v1/certifications       ?q=
  GET  /v1/facets
  GET  /v1/stats                ?horizon_days=&today=
  POST /v1/requests             {product, requesterName, requesterEmail, message}
  POST /v1/contact              {requesterName, requesterEmail, message}

With --watch the catalog file is reloaded on change without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config serve_addr)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Reload the catalog when its file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = appConfig.ServeAddr
	}

	if appConfig.LogMode != "dev" && appConfig.LogMode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signalContext()
	defer stop()

	srv := server.NewServer(server.Config{
		Catalog:          catalogService,
		Requests:         requestService,
		Websites:         websiteDirectory(),
		Log:              appLog,
		ValidOnlyDefault: appConfig.ValidOnly,
		HorizonDays:      appConfig.ExpiryHorizonDays,
	})

	if catalogService.Snapshot() == nil {
		fmt.Println(ui.FormatWarning("Catalog not loaded; catalog endpoints answer 503 until it is fixed"))
	}

	if serveWatch {
		if fileSource == nil {
			fmt.Println(ui.FormatWarning("Serving the built-in catalog; --watch ignored"))
		} else {
			w := newCatalogWatcher()
			go func() {
				if err := w.Run(ctx); err != nil {
					appLog.Error("catalog watcher stopped", "error", err)
				}
			}()
			go func() {
				for ev := range w.Events() {
					printReloadEvent(ev)
				}
			}()
			fmt.Println(ui.FormatInfo("Watching " + fileSource.Path()))
		}
	}

	fmt.Println(ui.FormatRocket("Serving on http://" + addr))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Catalog: %s  Notifier: %s", catalogService.Source(), requestService.Channel())))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	fmt.Println(ui.FormatMuted("Server stopped"))
	return nil
}
