package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
)

// CheckContentType rejects requests that carry a body in anything other than JSON.
func CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		contentType := r.Header.Get(web.HeaderContentType)
		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != web.MimeJSON {
			web.RespondUnsupportedMediaType(w, fmt.Errorf("invalid content-type: %q", contentType), message.InvalidInput, nil)
			return
		}

		if charset, ok := params["charset"]; ok && charset != "utf-8" && charset != "UTF-8" {
			web.RespondUnsupportedMediaType(w, fmt.Errorf("unsupported charset: %q", charset), message.InvalidInput, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
