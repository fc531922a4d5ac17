package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"bartender/internal/compose"
	"bartender/internal/logging"
	"bartender/internal/services"
	"bartender/internal/storyboard"
	"bartender/internal/tts"
)

type ttsRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

func (s *Server) handleStoryboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}
	if s.drafter == nil {
		s.writeError(w, r, services.Wrap(services.ErrConfiguration, "storyboard", "route", "storyboard service not configured", nil))
		return
	}
	var req storyboard.Request
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.drafter.Draft(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}
	if s.synthesizer == nil {
		s.writeError(w, r, services.Wrap(services.ErrConfiguration, "tts", "route", "speech synthesis not configured", nil))
		return
	}
	var req ttsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "tts", "request", "text is required", nil))
		return
	}
	audio, err := s.synthesizer.Synthesize(r.Context(), req.Text, tts.VoiceFor(req.Voice, req.Language))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		logging.WithContext(r.Context(), s.logger).Debug("tts response write failed", logging.Error(err))
	}
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}
	if s.composer == nil {
		s.writeError(w, r, services.Wrap(services.ErrConfiguration, "compose", "route", "composer not configured", nil))
		return
	}
	ctx := services.WithStage(r.Context(), "compose")
	logger := logging.WithContext(ctx, s.logger)

	if s.limiter != nil {
		release, err := s.limiter.Acquire(ctx)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		defer release()
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	uploads, err := parseComposeForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, services.Wrap(services.ErrValidation, "compose", "request", "unreadable form body", err))
		return
	}
	if r.MultipartForm != nil {
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()
	}

	ws, err := s.composer.NewWorkspace()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			logger.Warn("workspace cleanup failed", logging.Error(err), logging.String("workspace", ws.Root))
		}
	}()

	images := make([]string, 0, len(uploads["files"]))
	for _, header := range uploads["files"] {
		path, err := saveUpload(header, ws.SaveAsset)
		if err != nil {
			s.writeError(w, r, services.Wrap(services.ErrValidation, "compose", "upload", "store image "+header.Filename, err))
			return
		}
		images = append(images, path)
	}
	var audio string
	if headers := uploads["audio"]; len(headers) > 0 {
		audio, err = saveUpload(headers[0], ws.SaveAudio)
		if err != nil {
			s.writeError(w, r, services.Wrap(services.ErrValidation, "compose", "upload", "store audio", err))
			return
		}
	}

	logger.Info("compose request accepted",
		logging.Int("images", len(images)),
		logging.Bool("audio", audio != ""),
		logging.String("workspace", ws.ID),
	)
	result, err := s.composer.Compose(ctx, compose.Request{
		Workspace: ws,
		Images:    images,
		Audio:     audio,
		Subtitles: r.FormValue("srt"),
		Title:     r.FormValue("title"),
		Spec:      r.FormValue("spec"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.streamVideo(w, r, result.Output)
}

// parseComposeForm reads a compose body. Multipart bodies carry uploads;
// url-encoded or untyped bodies carry form fields only.
func parseComposeForm(r *http.Request) (map[string][]*multipart.FileHeader, error) {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return r.MultipartForm.File, nil
	}
	if !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, parseErr := mime.ParseMediaType(ct)
		if parseErr != nil || mediaType != "application/x-www-form-urlencoded" {
			return nil, fmt.Errorf("unsupported content type %q", ct)
		}
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) streamVideo(w http.ResponseWriter, r *http.Request, path string) {
	file, err := os.Open(path)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrExternalTool, "compose", "stream", "open encoded video", err))
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrExternalTool, "compose", "stream", "stat encoded video", err))
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", compose.OutputFileName))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file); err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("video stream interrupted",
			logging.Error(err),
			logging.String(logging.FieldEventType, "stream_interrupted"),
		)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}
	if s.health == nil {
		s.writeJSON(w, http.StatusOK, Health{Status: HealthOK})
		return
	}
	s.writeJSON(w, http.StatusOK, s.health(r.Context()))
}

func saveUpload(header *multipart.FileHeader, save func(string, io.Reader) (string, error)) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return save(header.Filename, file)
}

// decodeJSONBody reads a bounded JSON object. An empty body decodes as {}.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, jsonBodyLimit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return services.Wrap(services.ErrValidation, "request", "read body", "", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return services.Wrap(services.ErrValidation, "request", "decode body", "invalid JSON", err)
	}
	return nil
}
