package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"routesafe-service/internal/platform/obs"
)

const ocrPath = "/ocr"

type ocrResponse struct {
	Postcodes []string `json:"postcodes"`
}

// ExtractPostcodes uploads a photographed delivery plan to the backend's
// OCR endpoint and returns the postcodes it recognized. Used only to
// pre-fill the stop list; not part of the planning flow.
func (c *Client) ExtractPostcodes(
	ctx context.Context,
	filename string,
	file io.Reader,
) (_ []string, err error) {
	defer obs.Time(ctx, "routing.ExtractPostcodes")(&err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("extract postcodes: create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("extract postcodes: copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("extract postcodes: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ocrPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("extract postcodes: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &MalformedResponseError{Reason: "ocr body is not valid JSON"}
	}

	return decoded.Postcodes, nil
}
