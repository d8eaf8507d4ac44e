package middleware

import "net/http"

// maxBodySize caps request bodies at 1 MiB. Dashboard and ingest payloads
// are small JSON documents; anything larger is abuse.
const maxBodySize = 1 << 20

// BodyLimit rejects request bodies larger than maxBodySize.
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		next.ServeHTTP(w, r)
	})
}
