package gateway

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gosimple/slug"

	"realty_gateway/internal/backend"
)

// ImageFile is an image to upload.
type ImageFile struct {
	Name        string
	Body        io.Reader
	ContentType string
}

// UploadImage stores file under <folder>/<unix millis>.<extension> in the
// property-images bucket and returns its public URL. ok is false when the
// upload fails.
func (g *Gateway) UploadImage(ctx context.Context, file ImageFile, folder string) (url string, ok bool) {
	defer g.recoverOp("upload_image", func() { url, ok = "", false })

	folder = cleanFolder(folder)
	ext := fileExtension(file.Name)
	key := fmt.Sprintf("%s/%d.%s", folder, g.now().UnixMilli(), ext)
	log := g.log.With("op", "upload_image", "bucket", backend.BucketPropertyImages, "key", key)

	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension("." + ext)
	}

	if err := g.storage.Upload(ctx, backend.BucketPropertyImages, key, file.Body, contentType); err != nil {
		log.Error("Could not upload image", "error", err)
		return "", false
	}

	url = g.storage.PublicURL(backend.BucketPropertyImages, key)
	log.Info("Image uploaded", "url", url)
	return url, true
}

// fileExtension returns the text after the last dot, or the whole name when
// there is no dot.
func fileExtension(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

// cleanFolder slugifies every path segment of folder.
func cleanFolder(folder string) string {
	var parts []string
	for _, seg := range strings.Split(folder, "/") {
		if s := slug.Make(seg); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return DefaultUploadFolder
	}
	return strings.Join(parts, "/")
}
