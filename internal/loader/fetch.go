package loader

import (
	"context"
	"errors"

	"github.com/samvad-hq/image-gallery/internal/domain"
	"github.com/samvad-hq/image-gallery/pkg/sources"
	"golang.org/x/sync/errgroup"
)

// ErrNoSources is returned when the request list is empty.
var ErrNoSources = errors.New("no image sources configured")

// FetchAll fetches every source concurrently and returns the images in input
// order. The first failure observed fails the whole call; the remaining
// requests are cancelled and their errors are not reported.
func FetchAll(ctx context.Context, fetcher sources.Fetcher, list []sources.Source) ([]domain.Image, error) {
	if len(list) == 0 {
		return nil, ErrNoSources
	}
	if fetcher == nil {
		return nil, errors.New("image fetcher is nil")
	}

	images := make([]domain.Image, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range list {
		i, src := i, src // per-iteration copies; go.mod targets go 1.21
		g.Go(func() error {
			u, err := fetcher.Fetch(gctx, src)
			if err != nil {
				return err
			}
			images[i] = domain.Image{Index: i, URL: u, SourceURL: src.URL}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
