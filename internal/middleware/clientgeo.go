package middleware

import (
	"context"
	"net/http"

	"shotserver/internal/infra/geoip"
)

const countryKey contextKey = "client_country"

// ClientGeo resolves the caller's country from its IP and stashes the ISO
// code in the request context for the analytics counters. With a nil
// resolver (GEOIP_DB_PATH unset) the middleware is a pass-through.
func ClientGeo(resolver geoip.CountryResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				next.ServeHTTP(w, r)
				return
			}
			code, err := resolver.CountryCode(clientIP(r))
			if err != nil || code == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), countryKey, code)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CountryFromContext returns the resolved ISO country code, if any.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
