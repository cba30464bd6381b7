package services

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrNotDataURI       = errors.New("not a data URI")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidPayload   = errors.New("invalid base64 payload")
)

var imageExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// DecodeDataURI parses data:image/<type>;base64,<payload> and returns the
// decoded bytes with a file extension for the image type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return nil, "", ErrNotDataURI
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrNotDataURI
	}

	mediaType, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" {
		return nil, "", ErrNotDataURI
	}

	subtype, ok := strings.CutPrefix(strings.ToLower(mediaType), "image/")
	if !ok {
		return nil, "", ErrUnsupportedImage
	}
	ext, ok := imageExtensions[subtype]
	if !ok {
		return nil, "", ErrUnsupportedImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidPayload
	}
	return data, ext, nil
}
