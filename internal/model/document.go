package model

import "time"

// OwnerTag groups documents by person. It is a label, not an account.
type OwnerTag string

const (
	OwnerMatthew OwnerTag = "MATTHEW"
	OwnerMom     OwnerTag = "MOM"
	OwnerDad     OwnerTag = "DAD"
	OwnerSamuel  OwnerTag = "SAMUEL"
)

// OwnerTags is the closed set of accepted owner labels.
var OwnerTags = []OwnerTag{OwnerMatthew, OwnerMom, OwnerDad, OwnerSamuel}

// Valid reports whether t belongs to OwnerTags.
func (t OwnerTag) Valid() bool {
	for _, o := range OwnerTags {
		if o == t {
			return true
		}
	}
	return false
}

// Document represents a stored file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// Content is nil in list results and whenever the stored bytes could not be reconstructed.
type Document struct {
	ID             string
	Name           string
	FileType       string
	Content        []byte
	Owner          OwnerTag
	StoragePath    string
	Size           int64
	ShareEnabled   bool
	ShareToken     *string
	ShareExpiresAt *time.Time
	CreatedAt      time.Time
}

// ShareActive reports whether the share token grants access at now.
func (d *Document) ShareActive(now time.Time) bool {
	return d.ShareEnabled && d.ShareToken != nil && d.ShareExpiresAt != nil && now.Before(*d.ShareExpiresAt)
}

// Metadata returns a copy of d without its content.
func (d Document) Metadata() Document {
	d.Content = nil
	return d
}
