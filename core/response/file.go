package response

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// File serves a file from disk. Range requests, If-Modified-Since, and
// content type detection come from http.ServeFile. Missing files and
// directories render 404 rather than leaking filesystem errors.
func File(path string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		clean, _, err := statFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}
		http.ServeFile(w, r, clean)
		return nil
	}
}

// Download serves a file from disk with a Content-Disposition that
// forces a save dialog. An empty filename falls back to the file's
// base name.
func Download(path string, filename string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		clean, _, err := statFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}

		if filename == "" {
			filename = filepath.Base(clean)
		}
		setDownloadHeaders(w, filename, "")
		http.ServeFile(w, r, clean)
		return nil
	}
}

// statFile cleans the path and rejects directories. Cleaning collapses
// traversal sequences before the path reaches the filesystem.
func statFile(path string) (string, os.FileInfo, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return clean, nil, err
	}
	if info.IsDir() {
		return clean, nil, os.ErrNotExist
	}
	return clean, info, nil
}

// Attachment serves in-memory data as a download. An empty contentType
// is resolved from the filename extension, falling back to
// application/octet-stream.
func Attachment(data []byte, filename string, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setDownloadHeaders(w, filename, contentType)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		_, err := w.Write(data)
		return err
	}
}

// FileReader streams reader as a download without buffering it in
// memory.
func FileReader(reader io.Reader, filename string, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setDownloadHeaders(w, filename, contentType)
		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, reader)
		return err
	}
}

// setDownloadHeaders writes Content-Disposition and Content-Type for a
// download. The filename is scrubbed of characters that could break
// out of the quoted disposition value.
func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	replacer := strings.NewReplacer("\n", "", "\r", "", `"`, "'")
	filename = replacer.Replace(filename)

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	w.Header().Set("Content-Type", contentType)
}

// CSV serves records as a downloadable CSV file, appending a .csv
// extension when the filename lacks one.
func CSV(records [][]string, filename string) handler.Response {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(records); err != nil {
		return Error(fmt.Errorf("encode csv: %w", err))
	}

	if !strings.HasSuffix(filename, ".csv") {
		filename += ".csv"
	}
	return Attachment(buf.Bytes(), filename, "text/csv; charset=utf-8")
}

// CSVWithHeaders prepends a header row before serving rows as CSV.
func CSVWithHeaders(headers []string, rows [][]string, filename string) handler.Response {
	records := append([][]string{headers}, rows...)
	return CSV(records, filename)
}
