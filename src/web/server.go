package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/charts"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// DefaultPreviewRows bounds the HTML table; the CSV files hold a few thousand rows.
const DefaultPreviewRows = 200

// ShutdownTimeout bounds the graceful shutdown in Stop.
const ShutdownTimeout = 5 * time.Second

// Server serves the dashboard page, chart PNGs and the JSON API.
type Server struct {
	cat     *catalog.Catalog
	cache   dataset.RecordCache
	preview int
	tmpl    *template.Template
	desc    template.HTML

	mu       sync.RWMutex
	col      *dataset.Collection
	loadedAt time.Time

	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	stopOnce sync.Once
}

// NewServer prepares a server for cat. Datasets are loaded by Reload.
// previewRows <= 0 selects DefaultPreviewRows.
func NewServer(cat *catalog.Catalog, cache dataset.RecordCache, previewRows int) (*Server, error) {
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	var md bytes.Buffer
	if err := goldmark.Convert([]byte(cat.Description), &md); err != nil {
		return nil, fmt.Errorf("render description: %w", err)
	}
	// goldmark drops raw HTML unless built WithUnsafe
	return &Server{
		cat:     cat,
		cache:   cache,
		preview: previewRows,
		tmpl:    tmpl,
		desc:    template.HTML(md.String()),
		started: time.Now(),
	}, nil
}

// Reload (re)reads every dataset of the catalog.
func (s *Server) Reload(ctx context.Context) error {
	col, err := dataset.LoadAll(ctx, s.cat, s.cache)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.col = col
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Server) collection() *dataset.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col
}

// Handler returns the routed mux; Start serves it, tests use it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart/{file}", s.handleChart)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/datasets", s.handleDatasets)
	mux.HandleFunc("GET /api/datasets/{name}", s.handleDataset)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	return mux
}

// Start begins listening on addr (host:port, port 0 picks a free one).
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("[server] serve: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			logging.Warnf("[server] shutdown: %v", err)
		}
	})
}

// URL returns the dashboard URL once started.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// selected resolves the ?dataset= parameter; empty means the first dataset.
func (s *Server) selected(r *http.Request) (*dataset.Dataset, bool) {
	col := s.collection()
	name := r.URL.Query().Get("dataset")
	if name == "" {
		all := col.All()
		if len(all) == 0 {
			return nil, false
		}
		return all[0], true
	}
	return col.Get(name)
}

type pageData struct {
	Title        string
	Description  template.HTML
	Names        []string
	Selected     string
	Path         string
	Error        string
	Rows, Cols   int
	Columns      []string
	Table        [][]string
	Shown        int
	Truncated    bool
	HasScatter   bool
	ScatterTitle string
	HasCategory  bool
	BoxTitle     string
	BarTitle     string
	Warning      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.selected(r)
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	cols := ds.Columns()
	rows, ncols := ds.Shape()
	table := ds.Rows(s.preview)
	data := pageData{
		Title:       s.cat.Title,
		Description: s.desc,
		Names:       s.collection().Names(),
		Selected:    ds.Name,
		Path:        ds.Path,
		Rows:        rows,
		Cols:        ncols,
		Columns:     cols,
		Table:       table,
		Shown:       len(table),
		Truncated:   len(table) < rows,
		BoxTitle:    charts.BoxTitle,
		BarTitle:    charts.BarTitle,
	}
	if ds.Err != nil {
		data.Error = ds.Err.Error()
	}
	if sc, ok := analysis.ScatterPoints(ds); ok {
		data.HasScatter = true
		data.ScatterTitle = charts.ScatterTitle(sc.XName, sc.YName)
	}
	data.HasCategory = ds.HasColumns(s.cat.CategoryColumn, s.cat.PriceColumn)
	if !data.HasCategory {
		data.Warning = analysis.MissingColumnsWarning(s.cat.CategoryColumn, s.cat.PriceColumn)
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		logging.Errorf("[server] render index: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	kind, ok := charts.ParseKind(strings.TrimSuffix(file, ".png"))
	if !ok || !strings.HasSuffix(file, ".png") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart %q", file))
		return
	}
	ds, ok := s.selected(r)
	if !ok {
		writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	rawW, _ := strconv.Atoi(r.URL.Query().Get("w"))
	cw, ch := charts.Size(rawW)

	var (
		png []byte
		err error
	)
	switch kind {
	case charts.KindScatter:
		sc, ok := analysis.ScatterPoints(ds)
		if !ok {
			writeError(w, http.StatusNotFound, "scatter needs at least 6 columns")
			return
		}
		png, err = charts.ScatterPNG(sc, cw, ch)
	case charts.KindBox:
		var boxes []analysis.BoxStats
		if boxes, err = analysis.BoxByCategory(ds, s.cat.CategoryColumn, s.cat.PriceColumn); err != nil {
			writeError(w, http.StatusNotFound, analysis.MissingColumnsWarning(s.cat.CategoryColumn, s.cat.PriceColumn))
			return
		}
		png, err = charts.BoxPNG(boxes, cw, ch)
	case charts.KindBar:
		var means []analysis.GroupMean
		if means, err = analysis.MeanByCategory(ds, s.cat.CategoryColumn, s.cat.PriceColumn); err != nil {
			writeError(w, http.StatusNotFound, analysis.MissingColumnsWarning(s.cat.CategoryColumn, s.cat.PriceColumn))
			return
		}
		png, err = charts.BarPNG(means, cw, ch)
	}
	if err != nil {
		logging.Errorf("[server] %s chart for %s: %v", kind, ds.Name, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// HealthResult is the body of GET /api/health.
type HealthResult struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
	Failed   int    `json:"failed"`
	Uptime   string `json:"uptime"`
	LoadedAt string `json:"loaded_at,omitempty"`
}

func (s *Server) health() HealthResult {
	s.mu.RLock()
	col, loadedAt := s.col, s.loadedAt
	s.mu.RUnlock()
	res := HealthResult{
		Status:   "ok",
		Datasets: col.Len(),
		Failed:   len(col.Failed()),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	if !loadedAt.IsZero() {
		res.LoadedAt = loadedAt.Format(time.RFC3339)
	}
	return res
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health())
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	all := s.collection().All()
	out := make([]analysis.Summary, 0, len(all))
	for _, ds := range all {
		sum := analysis.Summarize(ds, s.cat.CategoryColumn, s.cat.PriceColumn)
		// the list stays light; per-category figures live under /api/datasets/{name}
		sum.Means, sum.Boxes = nil, nil
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.collection().Get(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	writeJSON(w, http.StatusOK, analysis.Summarize(ds, s.cat.CategoryColumn, s.cat.PriceColumn))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		logging.Errorf("[server] reload: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.health())
}

// writeJSON encodes before writing the status so an unencodable value
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logging.Errorf("[server] encode response: %v", err)
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
