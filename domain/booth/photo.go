package booth

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
)

// Source records where a photo came from.
type Source int

const (
	SourceCamera Source = iota
	SourceUpload
)

func (s Source) String() string {
	switch s {
	case SourceCamera:
		return "camera"
	case SourceUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Photo is one captured or uploaded image held as self-contained encoded bytes.
type Photo struct {
	Data       []byte
	Format     string // "jpeg", "png", ...
	Source     Source
	CapturedAt time.Time
}

// DecodeError reports a photo that could not be decoded. Index is the photo's
// position in its batch, or -1 when not applicable.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode photo %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("decode photo: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errEmptyPhoto = errors.New("empty image data")

// EncodePhoto encodes img as JPEG at the given quality.
func EncodePhoto(img image.Image, quality int, src Source, at time.Time) (Photo, error) {
	if img == nil {
		return Photo{}, errors.New("booth: nil image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Photo{}, fmt.Errorf("booth: encode photo: %w", err)
	}
	return Photo{Data: buf.Bytes(), Format: "jpeg", Source: src, CapturedAt: at}, nil
}

// NewUpload validates an uploaded file by decoding it and wraps the original bytes.
func NewUpload(data []byte, at time.Time) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, &DecodeError{Index: -1, Err: errEmptyPhoto}
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Photo{}, &DecodeError{Index: -1, Err: err}
	}
	p := Photo{Data: data, Format: format, Source: SourceUpload, CapturedAt: at}
	if _, err := p.Decode(); err != nil {
		return Photo{}, err
	}
	return p, nil
}

// Decode returns the photo's pixels, honouring EXIF orientation.
func (p Photo) Decode() (image.Image, error) {
	if len(p.Data) == 0 {
		return nil, &DecodeError{Index: -1, Err: errEmptyPhoto}
	}
	img, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	return img, nil
}
