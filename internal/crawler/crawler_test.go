package crawler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adda-Baaj/berita-banjir/internal/domain"
	"github.com/Adda-Baaj/berita-banjir/internal/storage"
	"github.com/Adda-Baaj/berita-banjir/pkg/publishers"
	"github.com/Adda-Baaj/berita-banjir/pkg/sites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeBase = "https://fake.test"

type fakeScraper struct {
	pages    map[string]sites.Page
	broken   map[string]bool
	requests []string
}

func (f *fakeScraper) ID() string { return "fake" }

func (f *fakeScraper) ListPage(_ context.Context, pageURL string) (sites.Page, error) {
	page, ok := f.pages[pageURL]
	if !ok {
		return sites.Page{}, errors.New("no such page")
	}
	return page, nil
}

func (f *fakeScraper) Article(_ context.Context, url string) (domain.Article, error) {
	f.requests = append(f.requests, url)
	if f.broken[url] {
		return domain.Article{}, errors.New("markup changed")
	}
	return domain.Article{URL: url, Title: "Banjir " + url, Content: "Air naik", Timestamp: "Senin, 10 Nov 2025 17:43 WIB"}, nil
}

type recordingPublisher struct {
	events []publishers.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	return 1, nil
}

func newService(t *testing.T, fake *fakeScraper, opts Options) *Service {
	t.Helper()
	table, err := sites.NewTable([]sites.Site{{ID: "fake", BaseURL: fakeBase}}, sites.TableOptions{
		Builders: map[string]sites.Builder{"fake": func(*sites.Fetcher) sites.Scraper { return fake }},
	})
	require.NoError(t, err)
	svc, err := NewService(table, opts)
	require.NoError(t, err)
	return svc
}

func twoPages() map[string]sites.Page {
	return map[string]sites.Page{
		fakeBase:         {Links: []string{fakeBase + "/a1", fakeBase + "/a2", fakeBase + "/a3"}, Next: fakeBase + "/p2"},
		fakeBase + "/p2": {Links: []string{fakeBase + "/a4", fakeBase + "/a5", fakeBase + "/a6"}, Next: ""},
	}
}

func TestScrapeSingle(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, &fakeScraper{}, Options{Publisher: pub})

	art, err := svc.ScrapeSingle(context.Background(), fakeBase+"/a1")
	require.NoError(t, err)
	assert.Equal(t, fakeBase+"/a1", art.URL)
	require.Len(t, pub.events, 1)
	assert.Equal(t, publishers.KindArticle, pub.events[0].Kind)
	assert.Equal(t, "fake", pub.events[0].Source)
}

func TestScrapeSingleUnsupportedSite(t *testing.T) {
	fake := &fakeScraper{}
	svc := newService(t, fake, Options{})

	_, err := svc.ScrapeSingle(context.Background(), "https://elsewhere.test/a")
	assert.ErrorIs(t, err, sites.ErrUnsupportedSite)
	assert.Empty(t, fake.requests)
}

func TestScrapeSingleFailure(t *testing.T) {
	svc := newService(t, &fakeScraper{broken: map[string]bool{fakeBase + "/a1": true}}, Options{})

	_, err := svc.ScrapeSingle(context.Background(), fakeBase+"/a1")
	assert.ErrorIs(t, err, ErrScrapeFailed)
}

func TestScrapeBulkTruncatesToLimitAndSkipsFailures(t *testing.T) {
	fake := &fakeScraper{pages: twoPages(), broken: map[string]bool{fakeBase + "/a2": true}}
	svc := newService(t, fake, Options{})

	arts, err := svc.ScrapeBulk(context.Background(), fakeBase, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{fakeBase + "/a1", fakeBase + "/a2", fakeBase + "/a3", fakeBase + "/a4"}, fake.requests)
	require.Len(t, arts, 3)
	assert.Equal(t, fakeBase+"/a1", arts[0].URL)
	assert.Equal(t, fakeBase+"/a4", arts[2].URL)
}

func TestScrapeBulkNothingScraped(t *testing.T) {
	pages := map[string]sites.Page{fakeBase: {Links: nil}}
	svc := newService(t, &fakeScraper{pages: pages}, Options{})

	arts, err := svc.ScrapeBulk(context.Background(), fakeBase, 10)
	assert.ErrorIs(t, err, ErrNoArticles)
	assert.Nil(t, arts)
}

func TestScrapeBulkListingFailure(t *testing.T) {
	svc := newService(t, &fakeScraper{pages: map[string]sites.Page{}}, Options{})

	_, err := svc.ScrapeBulk(context.Background(), fakeBase, 10)
	assert.ErrorIs(t, err, ErrNoArticles)
}

func TestScrapeBulkSkipsSeenURLs(t *testing.T) {
	store, err := storage.NewStore(storage.TypeBBolt, filepath.Join(t.TempDir(), "seen.db"), storage.Options{})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Mark(fakeBase+"/a2"))

	fake := &fakeScraper{pages: twoPages()}
	pub := &recordingPublisher{}
	svc := newService(t, fake, Options{Store: store, Publisher: pub})

	arts, err := svc.ScrapeBulk(context.Background(), fakeBase, 3)
	require.NoError(t, err)
	assert.Len(t, arts, 2)
	assert.NotContains(t, fake.requests, fakeBase+"/a2")
	assert.Len(t, pub.events, 2)

	seen, err := store.Seen(fakeBase + "/a3")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestScrapeBulkStopsOnCancel(t *testing.T) {
	fake := &fakeScraper{pages: twoPages()}
	svc := newService(t, fake, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.ScrapeBulk(ctx, fakeBase, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.requests)
}

func TestNewServiceRequiresTable(t *testing.T) {
	_, err := NewService(nil, Options{})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "table"))
}
