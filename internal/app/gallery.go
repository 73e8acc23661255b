package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samvad-hq/image-gallery/internal/config"
	"github.com/samvad-hq/image-gallery/internal/loader"
	"github.com/samvad-hq/image-gallery/internal/logger"
	"github.com/samvad-hq/image-gallery/internal/render"
	"github.com/samvad-hq/image-gallery/internal/server"
	"github.com/samvad-hq/image-gallery/internal/storage"
	"github.com/samvad-hq/image-gallery/pkg/publishers"
	"github.com/samvad-hq/image-gallery/pkg/sources"
)

// ErrLoadFailed is returned by Run in one-shot mode when the load ended in the
// error state. The error view has already been rendered at that point.
var ErrLoadFailed = errors.New("image load failed")

// Gallery is the image gallery runtime. It runs one aggregate load, renders
// the resulting view, publishes the outcome and optionally serves the view.
type Gallery struct {
	cfg    *config.Config
	loader *loader.Loader
	fanout *publishers.Fanout
	store  storage.Store
	log    logger.Logger
	out    io.Writer
}

// NewGallery builds a gallery runtime from config. out receives the rendered
// view; nil means stdout.
func NewGallery(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Gallery, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = os.Stdout
	}

	list, err := sources.Resolve(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	sourceURLs := make([]string, len(list))
	for i, s := range list {
		sourceURLs[i] = s.URL
	}
	log.InfoObj("sources loaded", "sources_meta", map[string]any{
		"count": len(list),
		"file":  cfg.SourcesFile,
		"urls":  sourceURLs,
	})

	fetcher := sources.NewJSONFieldFetcher(sources.DefaultHTTPClient(cfg.RequestTimeout))
	ld, err := loader.New(fetcher, list, log)
	if err != nil {
		return nil, fmt.Errorf("init loader: %w", err)
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		DigestTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"digest_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Gallery{
		cfg:    cfg,
		loader: ld,
		fanout: fanout,
		store:  store,
		log:    log,
		out:    out,
	}, nil
}

// State returns the current load state.
func (g *Gallery) State() loader.State { return g.loader.State() }

// Run performs the load and renders the final view. With serve_addr set it
// keeps serving the view until ctx is cancelled.
func (g *Gallery) Run(ctx context.Context) error {
	if g == nil || g.loader == nil {
		return fmt.Errorf("gallery is not initialized")
	}
	defer g.close()

	if err := g.loader.Start(ctx); err != nil {
		return fmt.Errorf("start load: %w", err)
	}

	var serveErr chan error
	if g.cfg.ServeAddr != "" {
		serveErr = make(chan error, 1)
		srv := server.New(g.cfg.AppName, g.loader, g.log)
		go func() { serveErr <- srv.ListenAndServe(ctx, g.cfg.ServeAddr) }()
	}

	st, err := g.loader.Wait(ctx)
	if err != nil {
		g.log.WarnObj("gallery interrupted before load finished", "reason", err.Error())
		if serveErr != nil {
			return <-serveErr
		}
		return nil
	}

	if err := render.Render(g.out, g.cfg.RenderFormat, st); err != nil {
		return err
	}
	g.publish(ctx, st)

	if serveErr != nil {
		return <-serveErr
	}
	if st.Status == loader.StatusError {
		return ErrLoadFailed
	}
	return nil
}

// publish sends the final state to every configured sink. A success whose
// digest was already published within the storage TTL is skipped.
func (g *Gallery) publish(ctx context.Context, st loader.State) {
	if g.fanout.Size() == 0 {
		return
	}

	srcs := g.loader.Sources()
	urls := make([]string, len(srcs))
	for i, s := range srcs {
		urls[i] = s.URL
	}
	evt := publishers.NewEvent(string(st.Status), st.Images, st.Message(), urls)

	if st.Status == loader.StatusSuccess {
		seen, err := g.store.SeenDigest(evt.Digest)
		if err != nil {
			g.log.WarnObj("digest lookup failed; publishing anyway", "error", err.Error())
		} else if seen {
			g.log.InfoObj("gallery unchanged; publish skipped", "digest", evt.Digest)
			return
		}
	}

	delivered, err := g.fanout.Publish(ctx, evt)
	if err != nil {
		g.log.ErrorObj("gallery publish failed", "publish_error", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
	if delivered == 0 {
		return
	}
	g.log.InfoObj("gallery published", "publish_result", map[string]any{
		"delivered": delivered,
		"status":    evt.Status,
		"digest":    evt.Digest,
	})
	if st.Status == loader.StatusSuccess {
		if err := g.store.MarkDigest(evt.Digest); err != nil {
			g.log.ErrorObj("mark digest failed", "error", err.Error())
		}
	}
}

// close releases storage and publisher clients, logging any errors encountered.
func (g *Gallery) close() {
	if err := g.fanout.Close(); err != nil {
		g.log.ErrorObj("publisher close failed", "error", err)
	}
	if g.store == nil {
		return
	}
	if err := g.store.Close(); err != nil {
		g.log.ErrorObj("storage close failed", "error", err)
	}
}
