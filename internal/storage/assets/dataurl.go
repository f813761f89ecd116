package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var ErrMalformedDataURL = errors.New("malformed data url")

// DataURL is a decoded data:<mime>[;base64],<payload> value. MIME is empty
// when the URL does not declare one.
type DataURL struct {
	MIME string
	Data []byte
}

func ParseDataURL(s string) (DataURL, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURL{}, ErrMalformedDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURL{}, fmt.Errorf("%w: no payload separator", ErrMalformedDataURL)
	}

	params := strings.Split(meta, ";")
	mime := strings.ToLower(strings.TrimSpace(params[0]))

	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
	} else {
		var text string
		text, err = url.PathUnescape(payload)
		data = []byte(text)
	}
	if err != nil {
		return DataURL{}, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}

	return DataURL{MIME: mime, Data: data}, nil
}

// Extension maps an image MIME subtype to a file extension. Anything else,
// including an undeclared type, is stored as jpg.
func (d DataURL) Extension() string {
	sub, ok := strings.CutPrefix(d.MIME, "image/")
	if !ok || sub == "" {
		return "jpg"
	}
	switch sub {
	case "jpeg", "pjpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	case "x-icon", "vnd.microsoft.icon":
		return "ico"
	}
	for _, r := range sub {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "jpg"
		}
	}
	return sub
}

func (d DataURL) Reader() io.Reader {
	return bytes.NewReader(d.Data)
}
