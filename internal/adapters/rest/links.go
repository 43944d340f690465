package rest

import (
	"net/http"
	"strings"
)

// urls строит абсолютные ссылки: из PUBLIC_BASE_URL или из самого запроса
type urls struct {
	base string
}

func linksFor(r *http.Request, configured string) urls {
	if configured != "" {
		return urls{base: strings.TrimRight(configured, "/")}
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return urls{base: scheme + "://" + r.Host}
}

func (u urls) absolute(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return u.base + path
}
