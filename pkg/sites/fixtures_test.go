package sites

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fixtureServer serves canned HTML keyed by request URI ("{{host}}" is
// replaced by the server URL) and records every hit.
type fixtureServer struct {
	*httptest.Server
	mu    sync.Mutex
	pages map[string]string
	hits  []string
}

func newFixtureServer(t *testing.T, pages map[string]string) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{pages: pages}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.hits = append(fs.hits, r.URL.RequestURI())
		body, ok := fs.pages[r.URL.RequestURI()]
		fs.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{host}}", fs.URL)))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fixtureServer) requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.hits...)
}

func testFetcher() *Fetcher {
	return NewFetcher(DefaultHTTPClient(5*time.Second), map[string]string{"User-Agent": "test-agent"})
}

const detikIndexPage1 = `<html><body>
<div class="list--feed">
  <article><a href="{{host}}/berita/d-1/banjir-bandung">Banjir Bandung</a></article>
  <article><a href="https://20.detik.com/video/1">Video</a></article>
  <article><a href="{{host}}/berita/d-2/banjir-bekasi">Banjir Bekasi</a></article>
</div>
<div class="paging"><a href="{{host}}/indeks?page=1">1</a><a href="{{host}}/indeks?page=2">Next</a></div>
</body></html>`

const detikIndexPage2 = `<html><body>
<div class="list--feed">
  <article><a href="/berita/d-3/banjir-garut">Banjir Garut</a></article>
</div>
</body></html>`

const detikArticle = `<html><body>
<h1 class="detail__title">
  Banjir Rendam Bandung
</h1>
<div class="detail__date">Senin, 10 Nov 2025 17:43 WIB</div>
<div class="detail__body-text">
  <p>Hujan deras mengguyur Bandung.</p>
  <p> Ratusan rumah terendam. </p>
</div>
</body></html>`

const wolipopArticle = `<html><body>
<h1 class="itp_title_detail">Tips Saat Banjir</h1>
<div class="text-black-light3">Selasa, 11 Nov 2025 08:00 WIB</div>
<div class="itp_bodycontent"><p>Siapkan tas darurat.</p><p>Matikan listrik.</p></div>
</body></html>`

const kompasIndexPage1 = `<html><body>
<div class="articleList">
  <div class="articleItem"><a class="article-link" href="{{host}}/read/2025/11/10/banjir-jakarta">A</a></div>
  <div class="articleItem"><a class="article-link" href="https://video.kompas.com/watch/1">V</a></div>
</div>
<a class="paging__link--next" href="{{host}}/indeks?page=2">Next</a>
</body></html>`

const kompasIndexPage2 = `<html><body>
<div class="articleList">
  <div class="articleItem"><a class="article-link" href="{{host}}/read/2025/11/09/banjir-depok">B</a></div>
  <div class="articleItem"><a class="article-link" href="{{host}}/read/2025/11/09/banjir-bogor">C</a></div>
</div>
</body></html>`

const kompasArticle = `<html><body>
<h1 class="read__title">Banjir Jakarta Meluas</h1>
<div class="read__time">Kompas.com - 10/11/2025, 09:15 WIB</div>
<div class="read__content"><p>Air setinggi satu meter.</p><p>Warga mengungsi.</p></div>
</body></html>`

const tribunIndexPage1 = `<html><body><ul>
<li class="ptb15"><a href="{{host}}/regional/2025/11/10/banjir-semarang">S</a></li>
<li class="ptb15"><a href="{{host}}/regional/2025/11/10/banjir-demak">D</a></li>
</ul></body></html>`

const tribunIndexPage2 = `<html><body><ul>
<li class="ptb15"><a href="{{host}}/regional/2025/11/09/banjir-kudus">K</a></li>
</ul></body></html>`

const tribunEmptyIndex = `<html><body><ul></ul></body></html>`

const tribunArticle = `<html><body>
<h1 id="arttitle">Banjir Semarang Surut</h1>
<time><span>Senin, 10 November 2025 14:02 WIB</span></time>
<div class="txt-article"><p>Genangan mulai surut.</p><p>BPBD siaga.</p></div>
</body></html>`
