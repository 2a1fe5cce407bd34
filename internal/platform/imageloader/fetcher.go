package imageloader

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

// HTTPFetcher downloads images over fasthttp. Only 2xx responses with an
// image content type count as success.
type HTTPFetcher struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &HTTPFetcher{
		client: &fasthttp.Client{
			Name:                "matchcast-imageloader",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBytes,
			MaxConnsPerHost:     32,
		},
		timeout: timeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "image/*")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(f.timeout)
	}
	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return Image{}, crerr.Wrapf(err, "get %s", url)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return Image{}, crerr.Newf("get %s: status %d", url, status)
	}
	contentType := string(resp.Header.ContentType())
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return Image{}, crerr.Newf("get %s: unexpected content type %q", url, contentType)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := resp.BodyWriteTo(buf); err != nil {
		return Image{}, crerr.Wrapf(err, "read %s", url)
	}
	if buf.Len() == 0 {
		return Image{}, crerr.Newf("get %s: empty body", url)
	}

	return Image{
		URL:         url,
		ContentType: contentType,
		Data:        append([]byte(nil), buf.B...),
	}, nil
}
