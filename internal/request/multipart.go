/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package request

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/reap-finance/onboarding/model"
)

// FormField is one plain form value of a multipart body. Order is preserved.
type FormField struct {
	Name  string
	Value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// ToMultipartReq builds a multipart/form-data body with the given fields followed by the file
// part under fileField. Storage backends that check policy conditions require the file to be
// the last part, so it is always written after every field.
//
// Returns the body and the Content-Type header value (boundary included).
func ToMultipartReq(fields []FormField, fileField string, file model.File) (*bytes.Buffer, string, error) {
	if file.Content == nil {
		return nil, "", fmt.Errorf("file %q has no content", file.Name)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
