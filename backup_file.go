package portal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gabriel-vasile/mimetype"
)

// compressedSuffix marks backup files stored brotli compressed.
const compressedSuffix = ".br"

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), compressedSuffix)
}

// writeBackupFile writes an encoded backup to path, compressing it when the
// name ends in .br.
func writeBackupFile(path string, data []byte) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing backup file %s: %w", path, closeErr)
		}
	}()

	if !isCompressed(path) {
		if _, err := file.Write(data); err != nil {
			return fmt.Errorf("writing backup file %s: %w", path, err)
		}
		return nil
	}

	writer := brotli.NewWriterLevel(file, brotli.DefaultCompression)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("compressing backup file %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("flushing backup file %s: %w", path, err)
	}
	return nil
}

// readBackupFile reads a backup from path, decompressing it when the name ends in .br.
func readBackupFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup file %s: %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if isCompressed(path) {
		reader = brotli.NewReader(file)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading backup file %s: %w", path, err)
	}
	return data, nil
}

// describeContent names the detected content type of data, for errors about
// files that are not JSON backups.
func describeContent(data []byte) string {
	return mimetype.Detect(data).String()
}
