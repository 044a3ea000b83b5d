package feedback

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

const (
	maxUploadBytes = 200 << 20
	maxResults     = 100
)

// Server is the upload form and result viewer.
type Server struct {
	gen *Generator
	log *zap.Logger
	mux *http.ServeMux

	mu      sync.Mutex
	results map[string]*Result
	order   []string
}

// NewServer returns a server running analyses with gen. A nil gen, or one
// without a backend, serves the page with submission disabled.
func NewServer(gen *Generator, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		gen:     gen,
		log:     log,
		mux:     http.NewServeMux(),
		results: make(map[string]*Result),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /download/{id}", s.handleDownload)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) enabled() bool {
	return s.gen != nil && s.gen.Backend != nil
}

type pageData struct {
	Enabled    bool
	Error      string
	Extensions string
	Result     *pageResult
}

type pageResult struct {
	ID       string
	Staff    string
	Category string
	Filename string
	HTML     template.HTML
}

func (s *Server) page() pageData {
	return pageData{
		Enabled:    s.enabled(),
		Extensions: "." + strings.Join(supportedExts, ",."),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.page())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data := s.page()
	if !data.Enabled {
		s.render(w, http.StatusServiceUnavailable, data)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, hdr, err := r.FormFile("audio")
	if err != nil {
		data.Error = "音声ファイルを選択してください。"
		s.render(w, http.StatusBadRequest, data)
		return
	}
	defer file.Close()

	if !Supported(hdr.Filename) {
		data.Error = "対応していないファイル形式です（MP3, MP4, M4A, WAV）。"
		s.render(w, http.StatusBadRequest, data)
		return
	}

	staff := strings.TrimSpace(r.FormValue("staff"))
	res, err := s.gen.Generate(r.Context(), file, hdr.Filename, staff)
	if err != nil {
		s.log.Error("Analysis failed", zap.String("file", hdr.Filename), zap.Error(err))
		data.Error = "エラーが発生しました: " + err.Error()
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		s.render(w, status, data)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(res.Text), &buf); err != nil {
		s.log.Warn("Rendering markdown", zap.Error(err))
		buf.Reset()
		buf.WriteString("<pre>" + template.HTMLEscapeString(res.Text) + "</pre>")
	}

	id := s.store(res)
	data.Result = &pageResult{
		ID:       id,
		Staff:    res.Staff,
		Category: res.Category,
		Filename: res.Filename(),
		HTML:     template.HTML(buf.String()),
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res := s.lookup(r.PathValue("id"))
	if res == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename()}))
	_, _ = w.Write([]byte(res.Text))
}

// store keeps res for download, evicting the oldest result beyond
// maxResults.
func (s *Server) store(res *Result) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[id] = res
	s.order = append(s.order, id)
	for len(s.order) > maxResults {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

func (s *Server) lookup(id string) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[id]
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("Rendering page", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>コールセンターモニタリング | KM Next</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; padding: 0 1em; }
.error { background: #fdecea; color: #611a15; padding: .75em 1em; border-radius: 4px; }
.info { background: #e8f4fd; padding: .75em 1em; border-radius: 4px; }
.result { border-top: 1px solid #ccc; margin-top: 2em; }
footer { text-align: center; color: gray; margin-top: 3em; }
</style>
</head>
<body>
<h1>📞 コールセンターモニタリングアプリ</h1>
<p><strong>KM Next</strong> - 建設資材商社向け通話品質フィードバックシステム</p>
{{if .Error}}<p class="error">⚠️ {{.Error}}</p>{{end}}
{{if not .Enabled}}<p class="error">⚠️ GOOGLE_API_KEY が設定されていません。<code>.env</code> ファイルにAPIキーを設定してください。</p>
<pre>GOOGLE_API_KEY=your_api_key_here</pre>{{end}}
<h2>📁 音声ファイルをアップロード</h2>
<p>対応形式: <strong>MP3</strong>, <strong>MP4</strong>, <strong>M4A</strong>, <strong>WAV</strong><br>
ファイル名の形式: <code>スタッフ名_その他情報.拡張子</code> 例: <code>田中_在庫確認_20251225.mp3</code></p>
<form method="post" action="/analyze" enctype="multipart/form-data">
<p><input type="file" name="audio" accept="{{.Extensions}}" required {{if not .Enabled}}disabled{{end}}></p>
<p><label>スタッフ名を修正（必要な場合） <input type="text" name="staff" placeholder="ファイル名から自動検出" {{if not .Enabled}}disabled{{end}}></label></p>
<p><button type="submit" {{if not .Enabled}}disabled{{end}}>🔍 音声を分析する</button></p>
</form>
{{with .Result}}
<div class="result">
<p class="info">📋 <strong>スタッフ名:</strong> {{.Staff}} / <strong>カテゴリ:</strong> {{.Category}}</p>
<h2>📝 フィードバック結果</h2>
{{.HTML}}
<p><a href="/download/{{.ID}}">📥 テキストファイルをダウンロード（{{.Filename}}）</a></p>
</div>
{{end}}
<footer>© 2025 KM Next - Call Center Monitoring System</footer>
</body>
</html>
`))
