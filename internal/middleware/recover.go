package middleware

import (
	"log"
	"net/http"

	"github.com/rohitm/contact-manager/internal/apperr"
	"github.com/rohitm/contact-manager/internal/httpx"
)

// Recover converts panics into the Server Error envelope so even
// unanticipated failures reach the client in the normalized shape.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("panic recovered: %v", rec)
				httpx.Error(w, apperr.Internal("Internal Server Error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
