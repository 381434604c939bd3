package ports

import (
	"context"
	"io"
)

// Contract for recognizing delivery postcodes in an uploaded image.
// Used only to pre-fill the stop list; not part of the planning flow.
type PostcodeExtractor interface {
	ExtractPostcodes(ctx context.Context, filename string, file io.Reader) ([]string, error)
}
