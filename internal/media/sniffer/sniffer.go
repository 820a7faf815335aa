package sniffer

import (
	"bytes"
	"errors"
)

type ImageType string

const (
	TypeJPEG ImageType = "jpeg"
	TypePNG  ImageType = "png"
	TypeGIF  ImageType = "gif"
	TypeWEBP ImageType = "webp"
)

var ErrUnknownType = errors.New("unknown image type")

type Result struct {
	Type ImageType
	MIME string
}

// DetectHead identifies a raster image from its leading bytes. Anything the
// gallery does not accept comes back as ErrUnknownType.
func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	}
	if isPNG(head) {
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	}
	if isGIF(head) {
		return Result{Type: TypeGIF, MIME: "image/gif"}, nil
	}
	if isWEBP(head) {
		return Result{Type: TypeWEBP, MIME: "image/webp"}, nil
	}

	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}
