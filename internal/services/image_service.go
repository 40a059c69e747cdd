package services

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/arsavista/teklif-api/internal/storage"
)

// ImageService handles image processing for land photos and sender avatars
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		_ = os.MkdirAll(uploadDir, 0755)
	}
	return &ImageService{
		uploadDir: uploadDir,
	}
}

// SaveAvatar stores a profile picture and a 128x128 square thumbnail,
// returning both paths relative to the served upload root.
func (s *ImageService) SaveAvatar(file multipart.File, header *multipart.FileHeader) (originalPath, thumbnailPath string, err error) {
	return s.save(file, header, 128, 128, true)
}

// SaveLandPhoto stores a catalog photo and a 640px-wide listing thumbnail
func (s *ImageService) SaveLandPhoto(file multipart.File, header *multipart.FileHeader) (originalPath, thumbnailPath string, err error) {
	return s.save(file, header, 640, 0, false)
}

func (s *ImageService) save(file multipart.File, header *multipart.FileHeader, width, height int, square bool) (string, string, error) {
	// octet-stream means the client declared nothing; the extension and
	// decode checks below still apply
	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" && !storage.IsValidContentType(ct) {
		return "", "", fmt.Errorf("desteklenmeyen görsel formatı (yalnızca JPG/PNG)")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", "", fmt.Errorf("desteklenmeyen görsel formatı (yalnızca JPG/PNG)")
	}

	filename := uuid.New().String()
	originalFilename := filename + ext
	thumbFilename := filename + "_thumb" + ext

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("görsel okunamadı: %w", err)
	}

	// Keep the original bytes untouched
	if _, err := file.Seek(0, 0); err != nil {
		return "", "", fmt.Errorf("dosya okunamadı: %w", err)
	}

	outOriginalPath := filepath.Join(s.uploadDir, originalFilename)
	outOriginal, err := os.Create(outOriginalPath)
	if err != nil {
		return "", "", fmt.Errorf("dosya oluşturulamadı: %w", err)
	}
	defer outOriginal.Close()

	if _, err := io.Copy(outOriginal, file); err != nil {
		return "", "", fmt.Errorf("görsel kaydedilemedi: %w", err)
	}

	var thumbImg image.Image
	if square {
		thumbImg = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	} else {
		thumbImg = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	outThumbPath := filepath.Join(s.uploadDir, thumbFilename)
	outThumb, err := os.Create(outThumbPath)
	if err != nil {
		return "", "", fmt.Errorf("küçük resim oluşturulamadı: %w", err)
	}
	defer outThumb.Close()

	if ext == ".png" {
		err = png.Encode(outThumb, thumbImg)
	} else {
		err = jpeg.Encode(outThumb, thumbImg, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", "", fmt.Errorf("küçük resim kaydedilemedi: %w", err)
	}

	return "/uploads/" + originalFilename, "/uploads/" + thumbFilename, nil
}
