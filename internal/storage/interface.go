package storage

import (
	"context"
	"errors"
)

// ErrUpload marks a failed upload. The artifact exists locally but was not delivered.
var ErrUpload = errors.New("upload failed")

// Store is the durable object store that receives audio intermediates and rendered notes.
type Store interface {
	// Upload copies a local file under key and returns its public URL.
	Upload(ctx context.Context, key, localPath, contentType string) (string, error)
	// URI returns the service-addressable location of key (s3://bucket/key).
	URI(key string) string
}

// NotesKey is the object key of a rendered notes document.
func NotesKey(name, ext string) string {
	return "notes/" + name + ext
}

// AudioKey is the object key of an uploaded audio intermediate.
func AudioKey(name string) string {
	return "audio/" + name + ".wav"
}
