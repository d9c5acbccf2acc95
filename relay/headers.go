package relay

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type extraHeader struct {
	name  string
	value string
}

// compose applies the final header precedence to a response: headers
// intrinsic to the mock or upstream, then the CORS defaults when enabled,
// then user-supplied extra headers, later layers winning on collision.
func (r *relay) compose(resp *response) {
	if resp.headers == nil {
		resp.headers = map[string]string{}
	}

	if r.cors {
		resp.headers["Access-Control-Allow-Origin"] = "*"
		resp.headers["Access-Control-Allow-Methods"] = "GET, POST, PUT, DELETE, OPTIONS"
		resp.headers["Access-Control-Allow-Headers"] = "Content-Type, Authorization"
		if contentTypeOf(resp.headers) == "" {
			resp.headers["Content-Type"] = "application/json"
		}
	}

	for _, h := range r.extra {
		resp.headers[h.name] = h.value
	}
}

// contentTypeOf finds a Content-Type however the mock author cased it.
func contentTypeOf(headers map[string]string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "Content-Type") {
			return value
		}
	}

	return ""
}

// parseExtraHeaders splits "Name: value" strings on the first colon.
// Malformed entries are logged and dropped rather than failing startup.
func parseExtraHeaders(headers []string, logger logrus.FieldLogger) []extraHeader {
	var parsed []extraHeader
	for _, h := range headers {
		colon := strings.Index(h, ":")
		if colon < 1 {
			logger.WithField("header", h).Warn("extra header not in 'Name: value' format")
			continue
		}

		parsed = append(parsed, extraHeader{
			name:  strings.TrimSpace(h[:colon]),
			value: strings.TrimSpace(h[colon+1:]),
		})
	}

	return parsed
}
