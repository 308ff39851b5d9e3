package io

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/framespec/pkg/errors"
	"github.com/matzehuels/framespec/pkg/figma"
)

// artifactFilenames maps artifact names to their conventional filenames.
// The tokens artifact is absent: its extension follows the token format.
var artifactFilenames = map[string]string{
	"spec":    "design-spec.md",
	"content": "content.md",
	"plan":    "implementation-plan.md",
	"tree":    "tree.dot",
}

// WriteDocument encodes a fetched document as indented JSON and writes it
// to w. The output can be re-read with [ReadDocument] for offline compiles.
func WriteDocument(file *figma.FileResponse, w io.Writer) error {
	if file == nil || file.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// ExportDocument writes a fetched document to a JSON file at path.
// This is a convenience wrapper around [WriteDocument] for file-based output.
func ExportDocument(file *figma.FileResponse, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteDocument(file, f)
}

// ArtifactFilename returns the conventional filename for a rendered
// artifact. The tokens artifact takes its extension from the format:
// css, scss, json, or a .js config snippet for tailwind.
func ArtifactFilename(artifact, tokenFormat string) string {
	if artifact == "tokens" {
		switch tokenFormat {
		case "scss":
			return "design-tokens.scss"
		case "json":
			return "design-tokens.json"
		case "tailwind":
			return "design-tokens.tailwind.js"
		default:
			return "design-tokens.css"
		}
	}
	if name, ok := artifactFilenames[artifact]; ok {
		return name
	}
	return artifact + ".txt"
}

// WriteArtifacts writes a rendered artifact set into dir under the
// conventional filenames, creating dir if needed. Artifacts are written in
// sorted name order; the returned paths follow that order, so partial
// failures report exactly what made it to disk.
func WriteArtifacts(dir string, artifacts map[string][]byte, tokenFormat string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", dir)
	}

	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		dest := filepath.Join(dir, ArtifactFilename(name, tokenFormat))
		if err := os.WriteFile(dest, artifacts[name], 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", dest)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}
