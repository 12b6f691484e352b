package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps every request and response through the global zerolog
// logger at debug level. The Authorization header is redacted in the dump.
//
// Enable it with WithDebugLogging(true) or by exporting SPLINTERSTICE_DEBUG=true
// (or DEBUG=true) before constructing the client:
//
//	export SPLINTERSTICE_DEBUG=true
//	splinterstice get-messages  # logs all HTTP traffic to stderr
//
// Bodies are logged verbatim, including message text and private keys
// returned by reset_keys. Do not leave this on in production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if reqDump, err := dumpRequest(req); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Dur("elapsed", time.Since(start)).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Dur("elapsed", time.Since(start)).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// dumpRequest dumps req without its Authorization header. Multipart uploads
// stream through a pipe, so their bodies are left out of the dump.
func dumpRequest(req *http.Request) ([]byte, error) {
	body := req.ContentLength > 0 || req.GetBody != nil
	if req.Header.Get("Authorization") == "" {
		return httputil.DumpRequestOut(req, body)
	}
	redacted := req.Clone(req.Context())
	redacted.Header.Set("Authorization", "Bearer [redacted]")
	if body && req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		redacted.Body = rc
	} else {
		body = false
	}
	return httputil.DumpRequestOut(redacted, body)
}

// debugLoggingRequested reports whether SPLINTERSTICE_DEBUG=true or DEBUG=true
// is set (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("SPLINTERSTICE_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
