package extract

import (
	"strings"

	"github.com/koomastudio/postvault"
)

// mediaTypeFromMarkup classifies media by keyword and class presence over
// raw markup, in fixed priority order: video beats carousel beats photo.
// An image-list container with more than one item escalates photo to
// carousel. Absence of all markers yields MediaTypeNone.
func mediaTypeFromMarkup(markup string) postvault.MediaType {
	lower := strings.ToLower(markup)

	if strings.Contains(lower, "<video") ||
		strings.Contains(lower, "feed-shared-video") ||
		strings.Contains(lower, "video-player") {
		return postvault.MediaTypeVideo
	}

	if strings.Contains(lower, "carousel") ||
		strings.Contains(lower, "document-player") {
		return postvault.MediaTypeCarousel
	}

	if strings.Contains(lower, "feed-images-content") {
		if len(carouselItemRE.FindAllStringIndex(markup, -1)) > 1 {
			return postvault.MediaTypeCarousel
		}
		return postvault.MediaTypePhoto
	}

	return postvault.MediaTypeNone
}

// mediaTypeFromDocument classifies media by selector presence on a live
// document, same priority order as the markup variant.
func mediaTypeFromDocument(src postvault.DocumentSource) postvault.MediaType {
	if len(src.Select("video, [data-test-id='video-player'], .video-js, [class*='video']")) > 0 {
		return postvault.MediaTypeVideo
	}

	if len(src.Select("[class*='carousel'], [data-test-id='carousel'], .pv-document-viewer")) > 0 ||
		len(src.Select(".update-components-image img, [class*='feed-shared-image']")) > 1 {
		return postvault.MediaTypeCarousel
	}

	if len(src.Select(".update-components-image, .feed-shared-image, [class*='feed-shared-image']")) > 0 {
		return postvault.MediaTypePhoto
	}

	return postvault.MediaTypeNone
}
