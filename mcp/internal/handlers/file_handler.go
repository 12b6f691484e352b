package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/splinterstice/clientapp/client"
)

// FileHandler exposes upload_file.
type FileHandler struct {
	pool *ClientPool
}

// NewFileHandler returns a new handler.
func NewFileHandler(pool *ClientPool) *FileHandler {
	return &FileHandler{pool: pool}
}

// RegisterTools registers the upload tool.
func (fh *FileHandler) RegisterTools(s *server.MCPServer) error {
	upload := mcp.NewTool("upload_file",
		mcp.WithDescription("Upload a file. Pass text in content or binary data in content_base64."),
		mcp.WithString("file_name", mcp.Required(), mcp.Description("File name sent to the server")),
		mcp.WithString("content", mcp.Description("File content as plain text")),
		mcp.WithString("content_base64", mcp.Description("File content, base64 encoded")),
		mcp.WithString("content_type", mcp.Description("MIME type; detected from the content when omitted")),
		serverIDOption(),
	)
	s.AddTool(upload, fh.handleUploadFile)
	return nil
}

func (fh *FileHandler) handleUploadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("file_name")
	if err != nil {
		return mcp.NewToolResultError("file_name parameter is required"), nil
	}
	text, hasText := req.GetArguments()["content"].(string)
	encoded, hasEncoded := req.GetArguments()["content_base64"].(string)
	if hasText == hasEncoded {
		return mcp.NewToolResultError("exactly one of content or content_base64 is required"), nil
	}
	data := []byte(text)
	if hasEncoded {
		data, err = base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return mcp.NewToolResultError("content_base64 is not valid base64"), nil
		}
	}
	c, errRes := resolveClient(fh.pool, req)
	if errRes != nil {
		return errRes, nil
	}

	log.Debug().Str("file_name", name).Int("size", len(data)).Msg("upload_file invoked")

	start := time.Now()
	stored, err := c.UploadFile(ctx, client.File{
		Name:        name,
		ContentType: optionalString(req, "content_type"),
		Content:     bytes.NewReader(data),
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("file_name", name).Dur("elapsed", elapsed).Msg("upload_file failed")
		return failure("upload_file", err), nil
	}
	log.Debug().Str("file_id", stored.ID).Dur("elapsed", elapsed).Msg("upload_file completed")
	return jsonResult(stored)
}
