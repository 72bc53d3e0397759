package export

import (
	"bytes"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// fitToBox decodes a proof image and stretches it to a box x box square,
// returned as PNG. The source aspect ratio is not preserved.
func fitToBox(data []byte, box int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decoding proof image")
	}

	resized := imaging.Resize(img, box, box, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "encoding proof image")
	}
	return buf.Bytes(), nil
}
