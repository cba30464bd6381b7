package migration

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const maxBSONDocument = 16 * 1024 * 1024

func logProgress(message string, args ...any) {
	slog.Info(message, append([]any{"service", "catalog_import"}, args...)...)
}

// readBSON walks a mongodump-style stream of length-prefixed documents.
func readBSON(r io.Reader, processDoc func([]byte) error) (int, error) {
	reader := bufio.NewReader(r)
	docCount := 0
	offset := int64(0)

	for {
		lengthBytes := make([]byte, 4)
		_, err := io.ReadFull(reader, lengthBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return docCount, fmt.Errorf("failed to read document length at byte %d: %w", offset, err)
		}

		length := int32(binary.LittleEndian.Uint32(lengthBytes))
		if length <= 4 || length > maxBSONDocument {
			return docCount, fmt.Errorf("invalid document length %d at byte %d", length, offset)
		}

		// the length includes its own four bytes
		doc := make([]byte, length)
		copy(doc, lengthBytes)
		if _, err := io.ReadFull(reader, doc[4:]); err != nil {
			return docCount, fmt.Errorf("failed to read document at byte %d: %w", offset, err)
		}
		offset += int64(length)

		if err := processDoc(doc); err != nil {
			return docCount, fmt.Errorf("document %d: %w", docCount+1, err)
		}
		docCount++
	}
	return docCount, nil
}

func decodeJSON[T any](r io.Reader) ([]T, error) {
	var records []T
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return records, nil
}

func decodeBSON[T any](r io.Reader) ([]T, error) {
	var records []T
	_, err := readBSON(r, func(doc []byte) error {
		var record T
		if err := bson.Unmarshal(doc, &record); err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode BSON: %w", err)
	}
	return records, nil
}

// ReadFile loads seed records from a .json array or a .bson dump.
func ReadFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON[T](file)
	case ".bson":
		return decodeBSON[T](file)
	default:
		return nil, fmt.Errorf("unsupported seed file type %q", ext)
	}
}
