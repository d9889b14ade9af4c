package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CatalogDir is the repository directory holding catalog documents.
const CatalogDir = "messages"

// Catalog is an append-only, ordered sequence of messages. One document
// exists per specific language plus one aggregate. Insertion order is
// contribution order, not necessarily chronological.
type Catalog struct {
	Messages []Message `json:"messages"`
}

// CatalogPath returns the repository path of a language's document,
// e.g. "messages/ko.json".
func CatalogPath(lang Language) string {
	return fmt.Sprintf("%s/%s.json", CatalogDir, lang)
}

// IsCatalogPath reports whether a repository path addresses a catalog
// document.
func IsCatalogPath(path string) bool {
	return strings.HasPrefix(path, CatalogDir+"/") && strings.HasSuffix(path, ".json")
}

// ParseCatalog decodes a catalog document. Empty content synthesizes an
// empty catalog: the first contribution to a language creates its file.
func ParseCatalog(content []byte) (*Catalog, error) {
	if len(content) == 0 {
		return &Catalog{Messages: []Message{}}, nil
	}
	var c Catalog
	if err := json.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	return &c, nil
}

// Append returns a copy of the catalog with msg pushed onto the end.
// The receiver is not modified; existing entries are never reordered
// or dropped.
func (c *Catalog) Append(msg Message) *Catalog {
	out := make([]Message, len(c.Messages), len(c.Messages)+1)
	copy(out, c.Messages)
	return &Catalog{Messages: append(out, msg)}
}

// Last returns the final entry, the newly proposed message on a
// contribution branch.
func (c *Catalog) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Encode serialises the catalog in the on-disk format: two-space
// indented JSON with a trailing newline.
func (c *Catalog) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return append(data, '\n'), nil
}
