package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// QRCapacity is the most bytes a single QR code holds.
const QRCapacity = 2953

// ErrTooLargeForQR is returned when an export does not fit in one QR code.
var ErrTooLargeForQR = errors.New("export is too large for a QR code")

// recoveryLevel trades error correction for capacity as the payload grows.
func recoveryLevel(n int) qrcode.RecoveryLevel {
	switch {
	case n > 1500:
		return qrcode.Low
	case n < 500:
		return qrcode.High
	default:
		return qrcode.Medium
	}
}

// EncodeQR renders d as compact JSON in a size x size PNG QR code.
func EncodeQR(d ExportData, size int) ([]byte, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if len(payload) > QRCapacity {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLargeForQR, len(payload), QRCapacity)
	}
	if size <= 0 {
		size = 512
	}
	png, err := qrcode.Encode(string(payload), recoveryLevel(len(payload)), size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// DecodeQR reads the text of the QR code in a PNG or JPEG image.
func DecodeQR(img []byte) ([]byte, error) {
	m, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(m)
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return nil, fmt.Errorf("no QR code found in image: %w", err)
	}
	return []byte(res.GetText()), nil
}
