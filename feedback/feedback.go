// Package feedback turns recorded support calls into written coaching
// feedback using a hosted generative model.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("GOOGLE_API_KEY is not set")

	// ErrProcessingFailed is returned when the service rejects the upload.
	ErrProcessingFailed = errors.New("audio file processing failed")
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const defaultCategory = "対応記録"

var supportedExts = []string{"mp3", "mp4", "m4a", "wav"}

// Supported reports whether filename has an accepted audio extension.
func Supported(filename string) bool {
	return slices.Contains(supportedExts, extension(filename))
}

// SupportedExtensions lists the accepted audio file extensions.
func SupportedExtensions() []string {
	return slices.Clone(supportedExts)
}

// MIMEType returns the upload MIME type for filename.
func MIMEType(filename string) string {
	switch extension(filename) {
	case "mp3":
		return "audio/mp3"
	case "mp4", "m4a":
		return "audio/mp4"
	case "wav":
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// StaffName is the part of the base file name before the first underscore:
// "田中_在庫確認_20251225.mp3" gives "田中".
func StaffName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name, _, _ := strings.Cut(base, "_")
	return name
}

var categoryExp = regexp.MustCompile(`【応対FB】[^_]+_([^_]+)_`)

// Category extracts the call category from the feedback title line.
func Category(text string) string {
	if m := categoryExp.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return defaultCategory
}

// DownloadName is the file name offered for saving a feedback text.
func DownloadName(staff, category string, day time.Time) string {
	return fmt.Sprintf("【応対FB】%s_%s_%s.txt", staff, category, day.Format("20060102"))
}

// UserPrompt is the per-request prompt naming the staff member and day.
func UserPrompt(staff string, day time.Time) string {
	return fmt.Sprintf(`
担当スタッフ名: %s
今日の日付: %s

上記の情報を使用して、アップロードされた音声ファイルを分析し、フィードバックを作成してください。
`, staff, day.Format("2006年01月02日"))
}

// Upload is a file held by the backend.
type Upload struct {
	Name     string
	URI      string
	MIMEType string
	State    State
}

type State int

const (
	StateProcessing State = iota
	StateActive
	StateFailed
)

// Backend is the hosted model service.
type Backend interface {
	Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (*Upload, error)
	Get(ctx context.Context, name string) (*Upload, error)
	Delete(ctx context.Context, name string) error
	Generate(ctx context.Context, system string, audio *Upload, prompt string) (string, error)
}

// Generator runs the upload, wait and generate flow for one recording at a
// time. It is safe for concurrent use if its Backend is.
type Generator struct {
	Backend Backend
	Log     *zap.Logger
	// PollInterval defaults to one second.
	PollInterval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Result is one generated feedback text.
type Result struct {
	Staff    string
	Category string
	Text     string
	Created  time.Time
}

// Filename is the download name for the result.
func (r *Result) Filename() string {
	return DownloadName(r.Staff, r.Category, r.Created)
}

// Generate uploads audio, waits until the service has processed it, and
// returns the model's feedback text verbatim. The uploaded file is deleted
// afterwards. There is no timeout beyond ctx.
func (g *Generator) Generate(ctx context.Context, audio io.Reader, filename, staff string) (*Result, error) {
	if g.Backend == nil {
		return nil, ErrNoAPIKey
	}
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	interval := g.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	if staff == "" {
		staff = StaffName(filename)
	}

	started := now()
	analysesStarted.Inc()

	up, err := g.Backend.Upload(ctx, audio, MIMEType(filename), filepath.Base(filename))
	if err != nil {
		analysesFailed.WithLabelValues("upload").Inc()
		return nil, fmt.Errorf("upload: %w", err)
	}
	name := up.Name
	log.Info("Uploaded recording", zap.String("file", filepath.Base(filename)), zap.String("name", name))
	defer func() {
		// The request context may already be cancelled.
		if err := g.Backend.Delete(context.WithoutCancel(ctx), name); err != nil {
			log.Warn("Deleting upload", zap.String("name", name), zap.Error(err))
		}
	}()

	for up.State == StateProcessing {
		select {
		case <-ctx.Done():
			analysesFailed.WithLabelValues("canceled").Inc()
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		uploadPolls.Inc()
		up, err = g.Backend.Get(ctx, name)
		if err != nil {
			analysesFailed.WithLabelValues("poll").Inc()
			return nil, fmt.Errorf("poll: %w", err)
		}
	}
	if up.State == StateFailed {
		analysesFailed.WithLabelValues("processing").Inc()
		return nil, ErrProcessingFailed
	}

	day := now()
	text, err := g.Backend.Generate(ctx, SystemPrompt, up, UserPrompt(staff, day))
	if err != nil {
		analysesFailed.WithLabelValues("generate").Inc()
		return nil, fmt.Errorf("generate: %w", err)
	}
	generateSeconds.Observe(now().Sub(started).Seconds())
	log.Info("Generated feedback", zap.String("staff", staff), zap.Int("chars", len([]rune(text))))

	return &Result{
		Staff:    staff,
		Category: Category(text),
		Text:     text,
		Created:  day,
	}, nil
}
