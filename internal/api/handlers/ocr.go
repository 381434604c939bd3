package handlers

import (
	"net/http"

	"routesafe-service/internal/api/dto"
	"routesafe-service/internal/ports"
)

// Uploads larger than this are rejected before hitting the backend.
const maxOCRUploadBytes = 10 << 20

type OCRHandler struct {
	Extractor ports.PostcodeExtractor
}

// Extract forwards a photographed delivery plan to the backend OCR
// endpoint and returns the recognized postcodes for stop-list pre-fill.
func (h *OCRHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxOCRUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	postcodes, err := h.Extractor.ExtractPostcodes(r.Context(), header.Filename, file)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}

	if postcodes == nil {
		postcodes = []string{}
	}

	writeJSON(w, r, http.StatusOK, dto.OCRResponse{Postcodes: postcodes})
}
