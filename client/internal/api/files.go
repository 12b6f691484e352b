package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/splinterstice/clientapp/client/internal/types"
)

// uploadField is the multipart field name the server reads the file from.
const uploadField = "file"

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// UploadFile streams f to the server as a multipart/form-data body with the
// file under the "file" field.
func UploadFile(ctx context.Context, httpClient types.HTTPClient, baseURL string, f types.File) (*types.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Content == nil {
		return nil, fmt.Errorf("file content is required: %w", types.ErrInvalidArgument)
	}
	name := filepath.Base(f.Name)
	if name == "." || name == string(filepath.Separator) {
		name = uploadField
	}

	content, contentType, err := detectContentType(f)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }() // unblocks the writer if the request dies early
	mw := multipart.NewWriter(pw)
	go func() {
		_ = pw.CloseWithError(writeFilePart(mw, name, contentType, content))
	}()

	url := fmt.Sprintf("%s/files/upload", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	var stored types.StoredFile
	if err := do(httpClient, opUploadFile, httpReq, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func writeFilePart(mw *multipart.Writer, name, contentType string, content io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	return mw.Close()
}

// detectContentType returns a reader equivalent to f.Content together with
// the part content type, sniffing the leading bytes when none was given.
func detectContentType(f types.File) (io.Reader, string, error) {
	if f.ContentType != "" {
		return f.Content, f.ContentType, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("read file header: %w", err)
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), f.Content), mimetype.Detect(head).String(), nil
}
