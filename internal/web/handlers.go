package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/scorecard/internal/core"
	"github.com/JonMunkholm/scorecard/internal/ocr"
	"github.com/JonMunkholm/scorecard/internal/store"
)

// maxTextBytes bounds a pasted transcription.
const maxTextBytes = 1 << 20

type parseRequest struct {
	Text string `json:"text"`
}

// readText reads a transcription from a JSON {"text": ...} body or a raw
// text body.
func readText(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextBytes))
	if err != nil {
		return "", err
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req parseRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return "", errors.New("invalid JSON body")
		}
		return req.Text, nil
	}
	return string(body), nil
}

// handleParse parses a transcription without storing anything.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, err := readText(w, r)
	if err != nil {
		if isBodyTooLarge(err) {
			respondError(w, r, err, "")
			return
		}
		respondBadRequest(w, r, err.Error())
		return
	}

	result, err := s.service.Preview(r.Context(), text)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateScan accepts a multipart form with either an "image" file,
// which is transcribed, or a "text" field holding a transcription.
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	maxImage := s.cfg.OCR.MaxImageSize
	r.Body = http.MaxBytesReader(w, r.Body, maxImage+maxTextBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isBodyTooLarge(err) {
			respondError(w, r, err, "")
			return
		}
		respondBadRequest(w, r, "expected a multipart form with an image or text field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var (
		result *core.ScanResult
		err    error
	)

	file, header, ferr := r.FormFile("image")
	switch {
	case ferr == nil:
		defer file.Close()
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			respondBadRequest(w, r, "could not read uploaded image")
			return
		}
		if _, cerr := ocr.CheckImage(data, maxImage); cerr != nil {
			respondError(w, r, cerr, "")
			return
		}
		result, err = s.service.ScanImage(r.Context(), header.Filename, data)

	case strings.TrimSpace(r.FormValue("text")) != "":
		source := r.FormValue("source")
		if source == "" {
			source = "form"
		}
		result, err = s.service.IngestText(r.Context(), source, r.FormValue("text"))

	default:
		respondError(w, r, core.ErrNoImage, "")
		return
	}

	if err != nil {
		scanID := ""
		if result != nil {
			scanID = result.ScanID
		}
		respondError(w, r, err, scanID)
		return
	}

	w.Header().Set("Location", "/api/scans/"+result.ScanID)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetScan(chi.URLParam(r, "scanID"))
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type recordsResponse struct {
	Records []core.StoredRecord `json:"records"`
	Count   int                 `json:"count"`
	Limit   int                 `json:"limit"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondBadRequest(w, r, "limit must be a positive integer")
			return
		}
		limit = store.ClampLimit(n)
	}

	records, err := s.service.ListRecords(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records), Limit: limit})
}

type healthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database,omitempty"`
	Scans    core.ScanLimiterStatus `json:"scans"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Scans: s.service.LimiterStatus()}
	status := http.StatusOK

	if s.db != nil {
		resp.Database = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}
