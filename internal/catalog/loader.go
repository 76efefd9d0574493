package catalog

import (
	"context"
	"fmt"
	"strconv"

	"go-staff-permissions/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// PageFetcher retrieves one page of the catalog from the server.
type PageFetcher interface {
	FetchCatalogPage(ctx context.Context, page int) (*model.CatalogPage, error)
}

// Loader fetches catalog pages. Concurrent requests for the same page share
// one fetch. A Pager never asks twice at once, so the sharing matters when
// several pagers use one Loader (see session.WithLoader).
type Loader struct {
	fetcher PageFetcher
	group   singleflight.Group
	log     *logrus.Logger
}

func NewLoader(fetcher PageFetcher, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{fetcher: fetcher, log: log}
}

// LoadPage requests page n. On failure nothing is cached and the error is
// handed back for the caller to retry.
func (l *Loader) LoadPage(ctx context.Context, n int) (*model.CatalogPage, error) {
	if n < 1 {
		return nil, fmt.Errorf("catalog page must be positive, got %d", n)
	}
	v, err, shared := l.group.Do(strconv.Itoa(n), func() (interface{}, error) {
		return l.fetcher.FetchCatalogPage(ctx, n)
	})
	if err != nil {
		l.log.WithError(err).WithField("page", n).Warn("catalog page fetch failed")
		return nil, err
	}
	page := v.(*model.CatalogPage)
	l.log.WithFields(logrus.Fields{
		"page":      page.CurrentPage,
		"last_page": page.LastPage,
		"items":     len(page.Items),
		"shared":    shared,
	}).Debug("catalog page loaded")
	return page, nil
}
