package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routesafe-service/internal/adapters/routing"
	"routesafe-service/internal/api/dto"
)

type stubExtractor struct {
	postcodes []string
	err       error

	gotFilename string
	gotBody     string
}

func (s *stubExtractor) ExtractPostcodes(_ context.Context, filename string, file io.Reader) ([]string, error) {
	s.gotFilename = filename
	body, _ := io.ReadAll(file)
	s.gotBody = string(body)
	return s.postcodes, s.err
}

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ocr", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestOCRHandlerReturnsPostcodes(t *testing.T) {
	extractor := &stubExtractor{postcodes: []string{"LS27 0LF", "WF3 1AB"}}
	h := &OCRHandler{Extractor: extractor}

	rec := httptest.NewRecorder()
	h.Extract(rec, multipartUpload(t, "manifest.jpg", "fake image bytes"))

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.OCRResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"LS27 0LF", "WF3 1AB"}, res.Postcodes)

	assert.Equal(t, "manifest.jpg", extractor.gotFilename)
	assert.Equal(t, "fake image bytes", extractor.gotBody)
}

func TestOCRHandlerEmptyResultIsEmptyList(t *testing.T) {
	h := &OCRHandler{Extractor: &stubExtractor{}}

	rec := httptest.NewRecorder()
	h.Extract(rec, multipartUpload(t, "blank.png", "nothing here"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"postcodes":[]}`, rec.Body.String())
}

func TestOCRHandlerRequiresFileField(t *testing.T) {
	h := &OCRHandler{Extractor: &stubExtractor{}}

	req := httptest.NewRequest(http.MethodPost, "/api/ocr", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	h.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOCRHandlerBackendErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"backend rejection", &routing.HTTPError{Status: 500, Detail: "ocr crashed"}, http.StatusBadGateway},
		{"malformed response", &routing.MalformedResponseError{Reason: "invalid json"}, http.StatusBadGateway},
		{"unreachable backend", &routing.NetworkError{Err: errors.New("connection refused")}, http.StatusGatewayTimeout},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := &OCRHandler{Extractor: &stubExtractor{err: c.err}}

			rec := httptest.NewRecorder()
			h.Extract(rec, multipartUpload(t, "plan.jpg", "bytes"))

			assert.Equal(t, c.wantStatus, rec.Code)
		})
	}
}
