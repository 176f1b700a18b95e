package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/Dosada05/arena-admin/models"
)

// BannerField is the multipart field the backend reads the image from.
const BannerField = "banner"

// UploadBanner attaches an image to an event and returns the updated record.
func (c *Client) UploadBanner(ctx context.Context, id, filename, contentType string, r io.Reader) Result[*models.Event] {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, BannerField, filepath.Base(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return failed[*models.Event](&Error{Message: fmt.Sprintf("create upload: %v", err)})
	}
	if _, err := io.Copy(part, r); err != nil {
		return failed[*models.Event](&Error{Message: fmt.Sprintf("read banner: %v", err)})
	}
	if err := mw.Close(); err != nil {
		return failed[*models.Event](&Error{Message: fmt.Sprintf("create upload: %v", err)})
	}

	req := request{
		method:      http.MethodPost,
		path:        c.eventPath(id) + "/banner",
		raw:         &buf,
		contentType: mw.FormDataContentType(),
		requireAuth: true,
	}
	return call(ctx, c, req, decodeEvent)
}
