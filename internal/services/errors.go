package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("kayıt bulunamadı")
	ErrInvalidCredentials = errors.New("hatalı kullanıcı adı veya şifre")
	ErrUnauthorized       = errors.New("bu işlem için yetkiniz yok")
	ErrInvalidState       = errors.New("geçersiz durum geçişi")
	ErrItemNotFound       = errors.New("teklif kalemi bulunamadı")
)
