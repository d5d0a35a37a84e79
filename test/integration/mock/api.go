package mock

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

type page struct {
	status int
	body   string
}

// PageServer serves canned HTML pages to the image scraper.
type PageServer struct {
	mu     sync.Mutex
	pages  map[string]page
	hits   map[string]int
	server *httptest.Server
}

func NewPageServer() *PageServer {
	p := &PageServer{
		pages: map[string]page{},
		hits:  map[string]int{},
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.serve))
	return p
}

func (p *PageServer) serve(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	pg, ok := p.pages[r.URL.Path]
	p.hits[r.URL.Path]++
	p.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(pg.status)
	_, _ = w.Write([]byte(pg.body))
}

func (p *PageServer) GetUrl() string {
	return p.server.URL
}

func (p *PageServer) SetPage(path string, status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[path] = page{status: status, body: body}
}

func (p *PageServer) Hits(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits[path]
}

func (p *PageServer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages = map[string]page{}
	p.hits = map[string]int{}
}

func (p *PageServer) Close() {
	p.server.Close()
}
