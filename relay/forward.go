package relay

import (
	"bytes"
	"io"
	"io/ioutil"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/gofiber/fiber"
	"github.com/zerbitx/gnockthru/encode"
)

// Headers only meaningful for a single transport hop; never relayed in
// either direction.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Proxy-Connection":    {},
	"Te":                  {},
	"Trailer":             {},
	"Trailers":            {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

type gatewayBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// forward relays an unmatched request to the target and hands back the
// upstream's status, headers and body. One attempt, bounded by the client
// timeout; every failure collapses to a single 502 and the caller keeps
// getting answered.
func (r *relay) forward(c *fiber.Ctx) response {
	var body io.Reader
	if b := c.Body(); b != "" {
		body = strings.NewReader(b)
	}

	req, err := http.NewRequest(c.Method(), r.target+c.OriginalURL(), body)
	if err != nil {
		r.logger.WithError(err).Error("failed to build upstream request")
		return r.badGateway(err)
	}

	c.Fasthttp.Request.Header.VisitAll(func(key, value []byte) {
		name := string(key)
		if strings.EqualFold(name, "Host") || isHopByHop(name) {
			return
		}
		req.Header.Add(name, string(value))
	})

	res, err := r.client.Do(req)
	if err != nil {
		r.logger.WithError(err).Error("failed to reach upstream")
		return r.badGateway(err)
	}
	defer res.Body.Close()

	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		r.logger.WithError(err).Error("failed to read upstream body")
		return r.badGateway(err)
	}

	headers := map[string]string{}
	for name, values := range res.Header {
		// Content-Length is recomputed when the relayed body is sent.
		if isHopByHop(name) || name == "Content-Length" {
			continue
		}
		headers[name] = values[0]
	}

	return response{status: res.StatusCode, headers: headers, body: resBody}
}

func (r *relay) badGateway(cause error) response {
	var buf bytes.Buffer
	if err := encode.JSONIndented(gatewayBody{Error: "bad_gateway", Message: cause.Error()}, &buf); err != nil {
		r.logger.WithError(err).Error("failed to encode gateway error")
	}

	return response{
		status:      http.StatusBadGateway,
		headers:     map[string]string{"Content-Type": "application/json"},
		body:        buf.Bytes(),
		synthesized: true,
	}
}

func isHopByHop(name string) bool {
	_, ok := hopByHopHeaders[textproto.CanonicalMIMEHeaderKey(name)]
	return ok
}
