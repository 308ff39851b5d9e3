package io

import (
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// ReadDocument decodes a saved document from r.
//
// The input must be the JSON body of a file fetch, as written by
// [WriteDocument] or saved straight from the API. Decoding applies the
// same implicit node defaults as a live fetch.
//
// ReadDocument returns an error if the JSON is malformed or carries no
// document root. The returned file is independent of r and can be modified
// freely; ReadDocument does not close r.
func ReadDocument(r io.Reader) (*figma.FileResponse, error) {
	var file figma.FileResponse
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if file.Document == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root node").
			WithRemediation("save one with compile --save-document, or pass a raw file-fetch response body")
	}
	return &file, nil
}

// ImportDocument reads the saved document in the JSON file at path.
func ImportDocument(path string) (*figma.FileResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}
