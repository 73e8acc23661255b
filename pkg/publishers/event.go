package publishers

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic digest
	"encoding/hex"
	"strings"
	"time"

	"github.com/samvad-hq/image-gallery/internal/domain"
)

// Event is the payload published once a gallery load reaches its final state.
type Event struct {
	Status      string         `json:"status"`
	Images      []domain.Image `json:"images,omitempty"`
	Error       string         `json:"error,omitempty"`
	Sources     []string       `json:"sources"`
	CompletedAt time.Time      `json:"completed_at"`
	Digest      string         `json:"digest"`
}

// NewEvent constructs an Event for a final load outcome.
func NewEvent(status string, images []domain.Image, errMsg string, sourceURLs []string) Event {
	return Event{
		Status:      status,
		Images:      images,
		Error:       errMsg,
		Sources:     sourceURLs,
		CompletedAt: time.Now().UTC(),
		Digest:      Digest(status, domain.URLs(images), errMsg),
	}
}

// Digest identifies an outcome by its status, ordered image URLs and error text.
func Digest(status string, urls []string, errMsg string) string {
	h := sha1.New() //nolint:gosec // non-cryptographic digest
	h.Write([]byte(status))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(urls, "\n")))
	h.Write([]byte{0})
	h.Write([]byte(errMsg))
	return hex.EncodeToString(h.Sum(nil))
}
