package ctxutil

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const (
	clientIPKey = "client_ip"
	requestKey  = "http_request"
)

// SetHTTPRequest stores req for handlers that are not running under gin.
func SetHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return SetValue(ctx, requestKey, req)
}

// SetClientIP overrides the client address reported by GetClientIP.
func SetClientIP(ctx context.Context, ip string) context.Context {
	return SetValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the caller address: an explicit value first, then
// gin's view of the request, then the first X-Forwarded-For hop or the peer.
func GetClientIP(ctx context.Context) string {
	if ip, ok := GetValue(ctx, clientIPKey).(string); ok && ip != "" {
		return ip
	}
	if c, ok := GetGinContext(ctx); ok && c.Request != nil {
		return c.ClientIP()
	}
	if req, ok := GetValue(ctx, requestKey).(*http.Request); ok {
		return remoteIP(req)
	}
	return ""
}

func remoteIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
