package domain

import "time"

// ReferenceType identifies the kind of source document a Reference points at.
type ReferenceType string

// Supported reference types.
const (
	ReferencePDF   ReferenceType = "pdf"
	ReferenceWeb   ReferenceType = "web"
	ReferenceImage ReferenceType = "image"
)

// Valid reports whether t is a known reference type.
func (t ReferenceType) Valid() bool {
	switch t {
	case ReferencePDF, ReferenceWeb, ReferenceImage:
		return true
	}
	return false
}

// Reference is a logical source document. The binary payload behind it is
// stored separately as one or more Assets.
type Reference struct {
	// ID is the store-assigned identifier.
	ID int64

	// Type is the kind of source (pdf, web, image).
	Type ReferenceType

	// Title is the human-readable title.
	Title string

	// CreatedAt is when the reference was imported.
	CreatedAt time.Time

	// UpdatedAt is when the reference was last modified.
	UpdatedAt time.Time
}

// AssetKind distinguishes stored files from external URLs.
type AssetKind string

// Supported asset kinds.
const (
	AssetFile AssetKind = "file"
	AssetURL  AssetKind = "url"
)

// Asset is a binary object bound to exactly one Reference. File-kind assets
// carry a content-addressed URI; identical content shares one physical blob
// regardless of which Reference produced it first.
type Asset struct {
	// ID is the store-assigned identifier.
	ID int64

	// ReferenceID links to the owning Reference.
	ReferenceID int64

	// Kind is file or url.
	Kind AssetKind

	// URI locates the payload. For file assets this is a content-addressed
	// locator derived from the content hash.
	URI string

	// ContentHash is the hex SHA-256 of the payload, empty for url assets.
	ContentHash string

	// ByteSize is the payload length in bytes, zero when unknown.
	ByteSize int64

	// MetadataJSON is an opaque serialized blob, empty when absent.
	MetadataJSON string

	// CreatedAt is when the asset row was created.
	CreatedAt time.Time

	// UpdatedAt is when the asset row was last modified.
	UpdatedAt time.Time
}

// ReferenceWithAsset is a Reference joined with its primary Asset.
// Asset is nil when the reference has no stored payload.
type ReferenceWithAsset struct {
	Reference
	Asset *Asset
}

// CreateReferenceInput carries the fields needed to create a Reference.
type CreateReferenceInput struct {
	Type  ReferenceType
	Title string
}

// UpdateReferenceInput carries the updatable Reference fields.
// Nil fields are left unchanged.
type UpdateReferenceInput struct {
	Title *string
}

// CreateAssetInput carries the fields needed to create an Asset row.
type CreateAssetInput struct {
	ReferenceID  int64
	Kind         AssetKind
	URI          string
	ContentHash  string
	ByteSize     int64
	MetadataJSON string
}
