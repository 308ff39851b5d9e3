package figma

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/framespec/pkg/errors"
)

// Ref identifies a design file and optionally specific nodes within it.
type Ref struct {
	FileKey string
	NodeIDs []string
}

// String renders the ref in "key" or "key#id,id" form for logs.
func (r *Ref) String() string {
	if len(r.NodeIDs) == 0 {
		return r.FileKey
	}
	return r.FileKey + "#" + strings.Join(r.NodeIDs, ",")
}

// Anchored to the figma.com host so arbitrary URLs containing a /file/
// segment cannot smuggle a key through.
var refURLRegex = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design|proto|board)/([A-Za-z0-9]+)(?:[/?#]|$)`)

// ParseRef accepts either a bare file key or a figma.com URL
// (/file/, /design/, /proto/, or /board/ form) with an optional node-id
// query parameter. Node IDs in the URL's dash form (54-23) are normalized
// to the API's colon form (54:23).
func ParseRef(raw string) (*Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New(errors.ErrCodeInvalidRef, "empty file reference")
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return parseRefURL(raw)
	}

	if err := errors.ValidateFileKey(raw); err != nil {
		return nil, err
	}
	return &Ref{FileKey: raw}, nil
}

func parseRefURL(raw string) (*Ref, error) {
	m := refURLRegex.FindStringSubmatch(raw)
	if len(m) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidRef,
			"unrecognized design URL: expected figma.com/file/<key>, /design/<key>, /proto/<key>, or /board/<key>").
			WithRemediation("copy the link from the editor's Share dialog, or pass the bare file key")
	}

	key := m[1]
	if err := errors.ValidateFileKey(key); err != nil {
		return nil, err
	}
	ref := &Ref{FileKey: key}

	u, err := url.Parse(raw)
	if err != nil {
		// Regex already matched; a query this broken just means no node ids.
		return ref, nil
	}
	rawIDs := u.Query().Get("node-id")
	if rawIDs == "" {
		return ref, nil
	}

	for _, id := range strings.Split(rawIDs, ",") {
		normalized, err := NormalizeNodeID(id)
		if err != nil {
			return nil, err
		}
		ref.NodeIDs = append(ref.NodeIDs, normalized)
	}
	return ref, nil
}

// NormalizeNodeID converts a node ID from the URL's dash form to the API's
// colon form and validates the result. IDs already in colon form pass
// through unchanged.
func NormalizeNodeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !strings.Contains(id, ":") {
		id = strings.ReplaceAll(id, "-", ":")
	}
	if err := errors.ValidateNodeID(id); err != nil {
		return "", err
	}
	return id, nil
}
