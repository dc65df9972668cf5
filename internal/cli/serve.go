package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	metaform "github.com/dnavi/metaform"
	"github.com/dnavi/metaform/components/catalog"
	"github.com/dnavi/metaform/components/olsproxy"
	"github.com/dnavi/metaform/internal/baseline"
	"github.com/dnavi/metaform/internal/cli/config"
	"github.com/dnavi/metaform/pkg/autocomplete"
	"github.com/dnavi/metaform/pkg/ontology"
	"github.com/dnavi/metaform/pkg/schema"
	"github.com/dnavi/metaform/pkg/termsearch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metadata entry form",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("listen", config.DefaultListen, "listen address")
	serveCmd.Flags().String("base-path", config.DefaultBasePath, "mount path prefix")
	serveCmd.Flags().String("title", config.DefaultTitle, "page title")
	serveCmd.Flags().String("ols-upstream", "", "upstream ontology search URL")
	serveCmd.Flags().String("default-ontology", config.DefaultOntology, "fallback ontology code")
	serveCmd.Flags().Int("rows", config.DefaultRows, "suggestion candidates per query")
	serveCmd.Flags().String("routing-file", "", "ontology routing table JSON file")
	serveCmd.Flags().String("vocabulary-file", "", "fixed-choice vocabulary YAML file")
	serveCmd.Flags().String("policy", config.DefaultPolicy, "closed-vocabulary policy (strict or loose)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.Verbose)

	formOpts, err := formOptions(cfg)
	if err != nil {
		return err
	}
	form, err := metaform.New(ctx, formOpts...)
	if err != nil {
		return err
	}
	defer form.Close()

	if err := configureRouting(form, cfg, logger); err != nil {
		return err
	}

	router, err := newRouter(form, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metadata form", "listen", cfg.Listen, "base_path", cfg.BasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// configureRouting installs the ontology routing table. Without a routing
// file the built-in routes apply; a file that fails to parse also falls back
// to them so term search keeps its per-field scoping.
func configureRouting(form *metaform.Form, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RoutingFile == "" {
		form.RoutingStore().Load(ontology.DefaultTable())
		return nil
	}
	data, err := os.ReadFile(cfg.RoutingFile)
	if err != nil {
		return err
	}
	if err := loadRouting(form, data); err != nil {
		logger.Warn("routing table rejected, using built-in routes", "error", err)
		form.RoutingStore().Load(ontology.DefaultTable())
	}
	return nil
}

func newRouter(form *metaform.Form, cfg *config.Config, logger *slog.Logger) (chi.Router, error) {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	proxyOpts := []olsproxy.OptionFn{
		olsproxy.WithDefaultOntology(cfg.DefaultOntology),
		olsproxy.WithRows(cfg.Rows),
		olsproxy.WithLogger(logger),
	}
	if cfg.OLSUpstream != "" {
		proxyOpts = append(proxyOpts, olsproxy.WithUpstream(cfg.OLSUpstream))
	}
	if _, err := olsproxy.RegisterRoutes(router, cfg.BasePath, proxyOpts...); err != nil {
		return nil, err
	}
	if _, err := catalog.RegisterRoutes(router, cfg.BasePath, catalog.WithLogger(logger)); err != nil {
		return nil, err
	}

	router.Get(joinPath(cfg.BasePath, "/openapi.yaml"), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(baseline.Document())
	})

	router.Get(joinPath(cfg.BasePath, "/"), func(w http.ResponseWriter, r *http.Request) {
		html, err := form.RenderPage(cfg.Title)
		if err != nil {
			logger.Error("page render failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	})

	return router, nil
}

func loadRouting(form *metaform.Form, data []byte) error {
	table, err := ontology.ParseTable(data)
	if err != nil {
		return err
	}
	form.RoutingStore().Load(table)
	return nil
}

func formOptions(cfg *config.Config) ([]metaform.Option, error) {
	var opts []metaform.Option

	policy := autocomplete.PolicyStrict
	if cfg.Policy == "loose" {
		policy = autocomplete.PolicyLoose
	}
	opts = append(opts, metaform.WithControllerOptions(autocomplete.WithPolicy(policy)))

	var searchOpts []termsearch.OptionFn
	if cfg.OLSUpstream != "" {
		searchOpts = append(searchOpts, termsearch.WithBaseURL(cfg.OLSUpstream))
	}
	if cfg.Rows > 0 {
		searchOpts = append(searchOpts, termsearch.WithRows(cfg.Rows))
	}
	if len(searchOpts) > 0 {
		opts = append(opts, metaform.WithSearchOptions(searchOpts...))
	}

	if cfg.VocabularyFile != "" {
		data, err := os.ReadFile(cfg.VocabularyFile)
		if err != nil {
			return nil, err
		}
		vocab, err := schema.LoadVocabulary(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, metaform.WithVocabulary(vocab))
	}
	return opts, nil
}

func joinPath(basePath, route string) string {
	if basePath == "" || basePath == "/" {
		return route
	}
	if route == "/" {
		return basePath
	}
	return basePath + route
}
