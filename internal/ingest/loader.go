package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"

	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
	"github.com/AngelCh415/campaign-dashboard/internal/models"
	"github.com/AngelCh415/campaign-dashboard/internal/store"
	"github.com/AngelCh415/campaign-dashboard/internal/utils"
)

// LoadObserver is told about every load that reached the source.
type LoadObserver interface {
	ObserveLoad(table string, rows int, err error)
}

// Loader reads the ad and CRM tables from local files (CSV or XLSX) or
// http(s) URLs. Successful loads are cached by path; concurrent loads of
// the same path share one read.
type Loader struct {
	c       HTTPClient
	backoff utils.Backoff
	ads     *store.MemoryStore[models.AdRecord]
	crm     *store.MemoryStore[models.CrmRecord]
	group   singleflight.Group
	obs     LoadObserver
	log     *slog.Logger
}

func NewLoader(c HTTPClient, log *slog.Logger) *Loader {
	return &Loader{
		c:       c,
		backoff: utils.NewBackoff(100*time.Millisecond, 2),
		ads:     store.NewMemoryStore[models.AdRecord](),
		crm:     store.NewMemoryStore[models.CrmRecord](),
		log:     log,
	}
}

func (l *Loader) WithBackoff(b utils.Backoff) *Loader {
	l.backoff = b
	return l
}

func (l *Loader) WithObserver(o LoadObserver) *Loader {
	l.obs = o
	return l
}

// LoadAds returns the ad table at path with dates normalized. On failure
// it returns an empty table and the error.
func (l *Loader) LoadAds(ctx context.Context, path string) ([]models.AdRecord, error) {
	return load[adRow, models.AdRecord](ctx, l, l.ads, "ads", path, metrics.AdDateColumns)
}

// LoadCRM returns the CRM table at path with dates normalized. On failure
// it returns an empty table and the error.
func (l *Loader) LoadCRM(ctx context.Context, path string) ([]models.CrmRecord, error) {
	return load[crmRow, models.CrmRecord](ctx, l, l.crm, "crm", path, metrics.CrmDateColumns)
}

type rawRow[M any] interface {
	record() M
}

func load[R rawRow[M], M any, PM interface {
	*M
	metrics.Dated
}](ctx context.Context, l *Loader, cache *store.MemoryStore[M], table, path string, dateCols []string) ([]M, error) {
	if rows, ok := cache.Get(path); ok {
		return rows, nil
	}
	v, err, _ := l.group.Do(table+"|"+path, func() (any, error) {
		if rows, ok := cache.Get(path); ok {
			return rows, nil
		}
		src, err := l.open(ctx, path)
		if err != nil {
			return nil, err
		}
		raw, err := decode[R](src)
		if err != nil {
			return nil, err
		}
		rows := make([]M, len(raw))
		for i, r := range raw {
			rows[i] = r.record()
		}
		if bad := metrics.NormalizeDates[M, PM](rows, dateCols...); bad > 0 {
			l.log.Warn("unparseable dates treated as missing", slog.String("table", table), slog.Int("count", bad))
		}
		cache.Put(path, rows)
		return rows, nil
	})
	if err != nil {
		err = eris.Wrapf(err, "ingest: load %s table from %s", table, path)
		l.observe(table, 0, err)
		l.log.Error("load failed", slog.String("table", table), slog.String("path", path), slog.String("err", err.Error()))
		return []M{}, err
	}
	rows := v.([]M)
	l.observe(table, len(rows), nil)
	l.log.Info("table loaded", slog.String("table", table), slog.String("path", path), slog.Int("rows", len(rows)))
	return rows, nil
}

func (l *Loader) observe(table string, rows int, err error) {
	if l.obs != nil {
		l.obs.ObserveLoad(table, rows, err)
	}
}

func (l *Loader) open(ctx context.Context, path string) (csvutil.Reader, error) {
	var data []byte
	var err error
	if isRemote(path) {
		data, err = FetchWithRetry(ctx, l.c, l.backoff, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read source")
	}
	if isWorkbook(path) {
		return openSheet(bytes.NewReader(data))
	}
	return csv.NewReader(bytes.NewReader(data)), nil
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isWorkbook(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
