package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectName builds a storage path for an uploaded image:
// {epoch-millis}-{random-suffix}.{ext}. The extension comes from the
// MIME subtype, lowercased and stripped to alphanumerics; anything
// unusable falls back to jpeg.
func ObjectName(contentType string) string {
	ext := "jpeg"
	if i := strings.Index(contentType, "/"); i >= 0 {
		sub := strings.ToLower(contentType[i+1:])
		var b strings.Builder
		for _, r := range sub {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			ext = b.String()
		}
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), suffix, ext)
}

// Upload writes an object into the bucket and returns its path.
func (c *Client) Upload(ctx context.Context, token, bucket, path string, data []byte, contentType string) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, "POST", u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp.StatusCode, body)
	}
	return path, nil
}

// PublicURL returns the unauthenticated URL for a stored object.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.BaseURL, bucket, path)
}
