package usecase

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/GoArmGo/foodgram/internal/domain"
)

var imageDataURI = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,(.+)$`)

// DecodedImage — картинка, присланная клиентом строкой data URI.
type DecodedImage struct {
	Data        []byte
	Ext         string
	ContentType string
}

// DecodeImage разбирает строку вида data:image/<ext>;base64,<data>.
func DecodeImage(raw string) (*DecodedImage, error) {
	m := imageDataURI.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, domain.NewValidationError("image", domain.MessageInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil || len(data) == 0 {
		return nil, domain.NewValidationError("image", domain.MessageInvalidImage)
	}

	subtype := strings.ToLower(m[1])
	ext := subtype
	if i := strings.IndexByte(ext, '+'); i > 0 {
		ext = ext[:i]
	}
	return &DecodedImage{
		Data:        data,
		Ext:         ext,
		ContentType: "image/" + subtype,
	}, nil
}
