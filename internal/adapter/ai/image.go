package ai

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// MIMEType returns declared if it names an image type, otherwise the type sniffed from image
func MIMEType(image []byte, declared string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	sniffed := http.DetectContentType(image)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return "image/png"
}

// DataURL encodes image as a base64 data URL
func DataURL(image []byte, mimeType string) string {
	return "data:" + MIMEType(image, mimeType) + ";base64," + base64.StdEncoding.EncodeToString(image)
}
