package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageUpload(t *testing.T, filename, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	return file, header
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestSaveLandPhoto(t *testing.T) {
	dir := t.TempDir()
	svc := NewImageService(dir)

	file, header := imageUpload(t, "arsa.png", "image/png", pngBytes(t))
	defer file.Close()

	original, thumbnail, err := svc.SaveLandPhoto(file, header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(original, "/uploads/"))
	assert.Contains(t, thumbnail, "_thumb")

	_, err = os.Stat(filepath.Join(dir, filepath.Base(original)))
	assert.NoError(t, err, "original is written to the upload dir")
	_, err = os.Stat(filepath.Join(dir, filepath.Base(thumbnail)))
	assert.NoError(t, err, "thumbnail is written to the upload dir")
}

func TestSaveAvatar_RejectsContentType(t *testing.T) {
	svc := NewImageService(t.TempDir())

	file, header := imageUpload(t, "notlar.png", "text/plain", []byte("metin"))
	defer file.Close()

	_, _, err := svc.SaveAvatar(file, header)
	assert.Error(t, err)
}

func TestSaveAvatar_RejectsExtension(t *testing.T) {
	svc := NewImageService(t.TempDir())

	file, header := imageUpload(t, "animasyon.gif", "image/png", pngBytes(t))
	defer file.Close()

	_, _, err := svc.SaveAvatar(file, header)
	assert.Error(t, err)
}
