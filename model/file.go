package model

import "io"

// File is an upload payload. ContentType defaults to application/octet-stream when empty.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}
