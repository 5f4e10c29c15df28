package camera

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"
)

// MJPEGSource grabs single frames from an MJPEG camera stream
// (multipart/x-mixed-replace), the usual surface of IP and lab
// cameras. Frames are passed through untouched so the native
// resolution reaches the detection service.
type MJPEGSource struct {
	url  string
	http *http.Client
}

func NewMJPEGSource(url string, timeout time.Duration) *MJPEGSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MJPEGSource{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Still connects to the stream and returns the first complete frame.
func (s *MJPEGSource) Still(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to camera: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera stream returned status %d", resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("parsing camera content type: %w", err)
	}

	// Snapshot endpoints answer with a plain JPEG.
	if mediaType == "image/jpeg" {
		frame, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading camera frame: %w", err)
		}
		return frame, nil
	}

	if mediaType != "multipart/x-mixed-replace" {
		return nil, fmt.Errorf("unexpected camera content type %q", mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("camera stream has no multipart boundary")
	}

	part, err := multipart.NewReader(resp.Body, boundary).NextPart()
	if err != nil {
		return nil, fmt.Errorf("reading camera stream: %w", err)
	}
	defer part.Close()

	frame, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("reading camera frame: %w", err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("camera produced an empty frame")
	}
	return frame, nil
}
