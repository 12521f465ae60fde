package utils

import (
	"net/url"

	"github.com/go-playground/form/v4"
)

var formDecoder = form.NewDecoder()

// DecodeForm binds url-encoded or multipart values onto a request struct using `form` tags
func DecodeForm(dst any, values url.Values) error {
	return formDecoder.Decode(dst, values)
}
