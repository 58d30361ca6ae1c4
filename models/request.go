package models

// MaxWishTextLen bounds accepted wish text, in characters.
const MaxWishTextLen = 2000

// ParseRequest is the payload for POST /api/v1/parse.
//
// The rendered HTML is supplied by the browser renderer collaborator; this
// service never navigates anywhere itself.
type ParseRequest struct {
	// URL is the page the HTML was rendered from. Required, HTTPS only.
	// Used as the record link and as the base for relative image URLs.
	URL string `json:"url" binding:"required,url"`

	// HTML is the rendered document. Required.
	HTML string `json:"html" binding:"required"`

	// FetchImage asks the service to download the resolved image and return
	// it as a base64 payload alongside the record. Default: false.
	FetchImage bool `json:"fetch_image,omitempty"`

	// MaxAge is the maximum acceptable age of a cached record for this URL,
	// in milliseconds. 0 disables cache lookup.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// WishSubmitRequest is the payload for POST /api/v1/wish.
type WishSubmitRequest struct {
	// Text is the free-form wish sentence, at most 2000 characters.
	Text string `json:"text" binding:"required"`
}

// ImageRequest is the payload for POST /api/v1/image.
type ImageRequest struct {
	// Image is the product photo, base64-encoded. A full data URI is also
	// accepted and passed through unchanged.
	Image string `json:"image" binding:"required"`

	// Upload asks the service to push the image bytes to object storage and
	// return the public URL. Default: false.
	Upload bool `json:"upload,omitempty"`
}
