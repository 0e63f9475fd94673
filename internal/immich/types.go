package immich

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AssetOrder string

const (
	OrderAsc  AssetOrder = "asc"
	OrderDesc AssetOrder = "desc"
)

type AssetType string

const (
	AssetImage AssetType = "IMAGE"
	AssetVideo AssetType = "VIDEO"
	AssetAudio AssetType = "AUDIO"
	AssetOther AssetType = "OTHER"
)

type AssetVisibility string

// naiveLayouts are the offset-less forms a filter datetime may take.
var naiveLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02"}

// Timestamp is a filter datetime. Besides RFC 3339 it accepts ISO values
// without an offset, which are passed on to Immich without one.
type Timestamp struct {
	time.Time
	naive bool
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*ts = Timestamp{Time: t}
		return nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = Timestamp{Time: t, naive: true}
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: not an ISO 8601 datetime", s)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.naive {
		return json.Marshal(ts.Time.Format(naiveLayouts[0]))
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// SearchAssetsRequest is the metadata search filter. Every field is
// optional; nil fields are left out of the request body entirely.
type SearchAssetsRequest struct {
	AlbumIDs         []uuid.UUID      `json:"albumIds,omitempty"`
	Checksum         *string          `json:"checksum,omitempty"`
	City             *string          `json:"city,omitempty"`
	Country          *string          `json:"country,omitempty"`
	CreatedAfter     *Timestamp       `json:"createdAfter,omitempty"`
	CreatedBefore    *Timestamp       `json:"createdBefore,omitempty"`
	Description      *string          `json:"description,omitempty"`
	DeviceAssetID    *string          `json:"deviceAssetId,omitempty"`
	DeviceID         *string          `json:"deviceId,omitempty"`
	EncodedVideoPath *string          `json:"encodedVideoPath,omitempty"`
	ID               *uuid.UUID       `json:"id,omitempty"`
	IsEncoded        *bool            `json:"isEncoded,omitempty"`
	IsFavorite       *bool            `json:"isFavorite,omitempty"`
	IsMotion         *bool            `json:"isMotion,omitempty"`
	IsNotInAlbum     *bool            `json:"isNotInAlbum,omitempty"`
	IsOffline        *bool            `json:"isOffline,omitempty"`
	LensModel        *string          `json:"lensModel,omitempty"`
	LibraryID        *uuid.UUID       `json:"libraryId,omitempty"`
	Make             *string          `json:"make,omitempty"`
	Model            *string          `json:"model,omitempty"`
	OCR              *string          `json:"ocr,omitempty"`
	Order            *AssetOrder      `json:"order,omitempty" binding:"omitempty,oneof=asc desc"`
	OriginalFileName *string          `json:"originalFileName,omitempty"`
	OriginalPath     *string          `json:"originalPath,omitempty"`
	Page             *int             `json:"page,omitempty" binding:"omitempty,gte=1"`
	PersonIDs        []uuid.UUID      `json:"personIds,omitempty"`
	PreviewPath      *string          `json:"previewPath,omitempty"`
	Rating           *int             `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	Size             *int             `json:"size,omitempty" binding:"omitempty,gte=1"`
	State            *string          `json:"state,omitempty"`
	TagIDs           []uuid.UUID      `json:"tagIds,omitempty"`
	TakenAfter       *Timestamp       `json:"takenAfter,omitempty"`
	TakenBefore      *Timestamp       `json:"takenBefore,omitempty"`
	ThumbnailPath    *string          `json:"thumbnailPath,omitempty"`
	TrashedAfter     *Timestamp       `json:"trashedAfter,omitempty"`
	TrashedBefore    *Timestamp       `json:"trashedBefore,omitempty"`
	Type             *AssetType       `json:"type,omitempty" binding:"omitempty,oneof=IMAGE VIDEO AUDIO OTHER"`
	UpdatedAfter     *Timestamp       `json:"updatedAfter,omitempty"`
	UpdatedBefore    *Timestamp       `json:"updatedBefore,omitempty"`
	Visibility       *AssetVisibility `json:"visibility,omitempty"`
	WithDeleted      *bool            `json:"withDeleted,omitempty"`
	WithExif         *bool            `json:"withExif,omitempty"`
	WithPeople       *bool            `json:"withPeople,omitempty"`
	WithStacked      *bool            `json:"withStacked,omitempty"`
}

// SearchMetadataResponse is the typed view of a metadata search result.
// The gateway forwards the raw body; this is for callers that inspect it.
type SearchMetadataResponse struct {
	Albums AlbumResults `json:"albums"`
	Assets AssetResults `json:"assets"`
}

type AlbumResults struct {
	Total  int64         `json:"total"`
	Count  int64         `json:"count"`
	Items  []Album       `json:"items"`
	Facets []SearchFacet `json:"facets"`
}

type AssetResults struct {
	Total    int64         `json:"total"`
	Count    int64         `json:"count"`
	Items    []Asset       `json:"items"`
	Facets   []SearchFacet `json:"facets"`
	NextPage *string       `json:"nextPage"`
}

type SearchFacet struct {
	FieldName string       `json:"fieldName"`
	Counts    []FacetCount `json:"counts"`
}

type FacetCount struct {
	Count int    `json:"count"`
	Value string `json:"value"`
}

type Album struct {
	ID                    string      `json:"id"`
	AlbumName             string      `json:"albumName"`
	Description           *string     `json:"description"`
	AlbumThumbnailAssetID *string     `json:"albumThumbnailAssetId"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
	AlbumUsers            []AlbumUser `json:"albumUsers"`
	Assets                []Asset     `json:"assets"`
	OwnerID               string      `json:"ownerId"`
	Shared                bool        `json:"shared"`
	AssetCount            int         `json:"assetCount"`
}

type AlbumUser struct {
	Role string `json:"role"`
	User User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Asset struct {
	ID               string     `json:"id"`
	DeviceAssetID    string     `json:"deviceAssetId"`
	OwnerID          string     `json:"ownerId"`
	DeviceID         string     `json:"deviceId"`
	Type             AssetType  `json:"type"`
	OriginalPath     string     `json:"originalPath"`
	OriginalFileName string     `json:"originalFileName"`
	Resized          bool       `json:"resized"`
	Thumbhash        *string    `json:"thumbhash"`
	FileCreatedAt    time.Time  `json:"fileCreatedAt"`
	FileModifiedAt   time.Time  `json:"fileModifiedAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	IsFavorite       bool       `json:"isFavorite"`
	IsArchived       bool       `json:"isArchived"`
	Duration         *string    `json:"duration"`
	ExifInfo         *Exif      `json:"exifInfo"`
	LivePhotoVideoID *string    `json:"livePhotoVideoId"`
	Tags             []AssetTag `json:"tags"`
	People           []Person   `json:"people"`
	Checksum         string     `json:"checksum"`
}

type Exif struct {
	Make             *string    `json:"make"`
	Model            *string    `json:"model"`
	ExifImageWidth   *int       `json:"exifImageWidth"`
	ExifImageHeight  *int       `json:"exifImageHeight"`
	FileSizeInByte   *int64     `json:"fileSizeInByte"`
	Orientation      *string    `json:"orientation"`
	DateTimeOriginal *time.Time `json:"dateTimeOriginal"`
	ModifyDate       *time.Time `json:"modifyDate"`
	TimeZone         *string    `json:"timeZone"`
	LensModel        *string    `json:"lensModel"`
	FNumber          *float64   `json:"fNumber"`
	FocalLength      *float64   `json:"focalLength"`
	ISO              *int       `json:"iso"`
	ExposureTime     *string    `json:"exposureTime"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	City             *string    `json:"city"`
	State            *string    `json:"state"`
	Country          *string    `json:"country"`
}

type AssetTag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Color     *string   `json:"color"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Person struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	BirthDate     *string `json:"birthDate"`
	ThumbnailPath string  `json:"thumbnailPath"`
	IsHidden      bool    `json:"isHidden"`
	IsFavorite    bool    `json:"isFavorite"`
}

// AssetSummary is one flattened row of AssetsForAnalysis.
type AssetSummary struct {
	ID               string    `json:"id"`
	Type             AssetType `json:"type"`
	FileCreatedAt    time.Time `json:"fileCreatedAt"`
	IsFavorite       bool      `json:"isFavorite"`
	IsArchived       bool      `json:"isArchived"`
	OriginalFileName string    `json:"originalFileName"`
	Checksum         string    `json:"checksum"`
	Make             *string   `json:"make,omitempty"`
	Model            *string   `json:"model,omitempty"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	FileSize         *int64    `json:"fileSize,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	City             *string   `json:"city,omitempty"`
	Country          *string   `json:"country,omitempty"`
}
