package remote

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/draw"

	"mpvremote/internal/ipc"
	"mpvremote/internal/logging"
)

//go:embed assets/index.html
var indexHTML []byte

//go:embed assets/script.js
var scriptJS []byte

// Times is the /times payload.
type Times struct {
	Total    string  `json:"total"`
	TotalS   float64 `json:"total_s"`
	Current  string  `json:"current"`
	CurrentS float64 `json:"current_s"`
	Perc     float64 `json:"perc"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexHTML
	if s.template != "" {
		data, err := os.ReadFile(s.template)
		if err != nil {
			logging.WithContext(r.Context(), s.logger).Warn("template unreadable",
				logging.String("template", s.template), logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "template not found")
			return
		}
		page = data
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write(scriptJS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"pending": s.player.Pending(),
	})
}

func (s *Server) handleTimes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.floatProperty("playback-time")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.floatProperty("duration")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	times := Times{
		Total:    FormatDuration(total),
		TotalS:   total,
		Current:  FormatDuration(current),
		CurrentS: current,
	}
	if total > 0 {
		times.Perc = 100 * current / total
	}
	s.writeJSON(w, http.StatusOK, times)
}

func (s *Server) handleScreenshot(w http.ResponseWriter, _ *http.Request) {
	// mpv rewrites the same file on every request; keep it stable until
	// it has been decoded.
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.player.Send(ipc.Screenshot(s.screenshotPath)); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := s.renderScreenshot()
	if err != nil {
		s.logger.Warn("screenshot unavailable", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to read screenshot")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) renderScreenshot() ([]byte, error) {
	f, err := os.Open(s.screenshotPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.screenshotPath, err)
	}
	dst := image.NewRGBA(fitWithin(src.Bounds(), s.screenshotSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales bounds to the largest rectangle inside a size×size box
// that keeps the aspect ratio.
func fitWithin(bounds image.Rectangle, size int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || size <= 0 {
		return image.Rect(0, 0, max(w, 1), max(h, 1))
	}
	if w >= h {
		return image.Rect(0, 0, size, max(h*size/w, 1))
	}
	return image.Rect(0, 0, max(w*size/h, 1), size)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	logger := logging.WithContext(r.Context(), s.logger)
	logger.Info("handling action", logging.String("action", action))

	var position float64
	switch action {
	case "play", "pause", "rewind", "fullscreen":
	case "seek":
		raw := strings.TrimSpace(r.URL.Query().Get("position"))
		value, err := strconv.ParseFloat(raw, 64)
		if raw == "" || err != nil {
			s.writeError(w, http.StatusBadRequest, "missing or invalid position")
			return
		}
		position = value
	default:
		s.writeError(w, http.StatusNotFound, "unknown action "+strconv.Quote(action))
		return
	}

	s.mu.Lock()
	err := s.runAction(action, position)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) runAction(action string, position float64) error {
	switch action {
	case "play":
		_, err := s.player.Send(ipc.SetProperty("pause", false))
		return err
	case "pause":
		_, err := s.player.Send(ipc.SetProperty("pause", true))
		return err
	case "rewind":
		if _, err := s.player.Send(ipc.Seek(-float64(s.rewindOffset), ipc.SeekRelative)); err != nil {
			return err
		}
		if err := s.waitPlaybackRestart(); err != nil {
			return err
		}
		_, err := s.player.Send(ipc.ShowText(fmt.Sprintf("Rewinded %d seconds", s.rewindOffset)))
		return err
	case "fullscreen":
		resp, err := s.player.Send(ipc.GetProperty("fullscreen"))
		if err != nil {
			return err
		}
		current, err := ipc.Into[bool](resp)
		if err != nil {
			return err
		}
		_, err = s.player.Send(ipc.SetProperty("fullscreen", !current))
		return err
	case "seek":
		if _, err := s.player.Send(ipc.Seek(position, ipc.SeekAbsolutePercent)); err != nil {
			return err
		}
		return s.waitPlaybackRestart()
	}
	return nil
}

func (s *Server) waitPlaybackRestart() error {
	_, err := s.player.WaitEvent(func(e *ipc.Event) bool {
		return e.Event == ipc.EventPlaybackRestart
	})
	return err
}

func (s *Server) floatProperty(name string) (float64, error) {
	resp, err := s.player.Send(ipc.GetProperty(name))
	if err != nil {
		return 0, err
	}
	return ipc.Into[float64](resp)
}
