package middlewares

import (
	"net/http"

	"github.com/unrolled/secure"
)

// WithSecurityHeaders inyecta cabeceras de seguridad para una API JSON.
// HSTS sólo se emite fuera de dev y cuando el request llegó por HTTPS.
func WithSecurityHeaders(dev bool) Middleware {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), payment=()",
		STSSeconds:            15552000,
		STSIncludeSubdomains:  true,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         dev,
	})
	return func(next http.Handler) http.Handler {
		return sec.Handler(next)
	}
}
