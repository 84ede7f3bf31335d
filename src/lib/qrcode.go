package lib

import (
	"bytes"
	"encoding/base64"
	"log"

	"github.com/yeqown/go-qrcode"
)

// GenerateQRCodeDataURL renders text as a PNG QR code and returns it as a
// data URL suitable for an <img> src.
func GenerateQRCodeDataURL(text string) (string, error) {
	qrc, err := qrcode.New(
		text,
		qrcode.WithQRWidth(8),
		qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT),
	)
	if err != nil {
		log.Printf("Could not generate qrcode: %s\n", err.Error())
		return "", err
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		log.Printf("Could not encode qrcode image: %s\n", err.Error())
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
