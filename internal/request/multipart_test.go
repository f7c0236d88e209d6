package request_test

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/reap-finance/onboarding/internal/request"
	"github.com/reap-finance/onboarding/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMultipartReq_FileIsLastPart(t *testing.T) {
	fields := []request.FormField{
		{Name: "policy", Value: "p"},
		{Name: "x-amz-signature", Value: "sig"},
		{Name: "key", Value: "uploads/E1/passport.png"},
	}
	file := model.File{Name: "passport.png", ContentType: "image/png", Content: strings.NewReader("PNGDATA")}

	body, contentType, err := request.ToMultipartReq(fields, "file", file)
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	var names []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, _ := io.ReadAll(part)
		names = append(names, part.FormName())
		if part.FormName() == "file" {
			assert.Equal(t, "passport.png", part.FileName())
			assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
			assert.Equal(t, "PNGDATA", string(data))
		}
	}

	assert.Equal(t, []string{"policy", "x-amz-signature", "key", "file"}, names)
}

func TestToMultipartReq_DefaultContentType(t *testing.T) {
	body, contentType, err := request.ToMultipartReq(nil, "file", model.File{Name: "a.bin", Content: strings.NewReader("x")})
	require.NoError(t, err)

	_, params, _ := mime.ParseMediaType(contentType)
	part, err := multipart.NewReader(body, params["boundary"]).NextPart()
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))
}

func TestToMultipartReq_NoContent(t *testing.T) {
	_, _, err := request.ToMultipartReq(nil, "file", model.File{Name: "empty.png"})
	assert.Error(t, err)
}
