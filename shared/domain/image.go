package domain

type (
	GalleryName = string
	ImageName   = string
)

// ImageRef is a read-only projection of a stored image file.
// PublicPath is the absolute file path with the store root stripped, so
// root + PublicPath points back at the file.
type ImageRef struct {
	Name       ImageName `json:"name"`
	PublicPath string    `json:"public_path"`
}

// GalleryView is everything needed to render one gallery.
type GalleryView struct {
	Gallery   GalleryName `json:"gallery"`
	Images    []ImageRef  `json:"images"`
	Thumbnail *ImageRef   `json:"thumbnail,omitempty"`
}
