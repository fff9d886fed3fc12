package validation

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

// fileHeader builds a multipart.FileHeader the way an HTTP server would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestValidateImage(t *testing.T) {
	ct, err := ValidateImage(fileHeader(t, "house.PNG", pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
}

func TestValidateImage_Rejects(t *testing.T) {
	_, err := ValidateImage(nil)
	assert.ErrorIs(t, err, ErrFileRequired)

	_, err = ValidateImage(fileHeader(t, "notes.txt", []byte("hello")))
	assert.ErrorIs(t, err, ErrFileType)

	_, err = ValidateImage(fileHeader(t, "fake.jpg", []byte("plain text pretending")))
	assert.ErrorIs(t, err, ErrFileContent)

	big := fileHeader(t, "big.png", pngBytes(t))
	big.Size = MaxImageSize + 1
	_, err = ValidateImage(big)
	assert.ErrorIs(t, err, ErrFileSize)
}

func TestSniffImage_ShortInput(t *testing.T) {
	_, err := SniffImage(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrFileContent)
}
