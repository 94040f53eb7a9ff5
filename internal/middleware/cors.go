package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware пропускает только источники из списка origins.
// Запросы без Origin (нативные мобильные клиенты) проходят без CORS заголовков.
func CORSMiddleware(origins []string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Encoding"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
