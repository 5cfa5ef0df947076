package storage

import (
	"encoding/base64"
	"fmt"
	"strings"
)

var extByMime = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeBase64Image decodes a "data:image/...;base64,..." payload (or a bare
// base64 string, assumed PNG) into raw bytes, a file extension and a MIME type.
func DecodeBase64Image(payload string) ([]byte, string, string, error) {
	mime := "image/png"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		sep := strings.Index(payload, ";base64,")
		if sep < 0 {
			return nil, "", "", fmt.Errorf("invalid data URL: missing base64 marker")
		}
		mime = payload[len("data:"):sep]
		encoded = payload[sep+len(";base64,"):]
	}

	ext, ok := extByMime[mime]
	if !ok {
		return nil, "", "", fmt.Errorf("unsupported image type %q", mime)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", "", fmt.Errorf("invalid base64 image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", "", fmt.Errorf("empty image payload")
	}
	return data, ext, mime, nil
}
