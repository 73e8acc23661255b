package domain

// Domain contains core models shared by the loader, renderer and publishers.

// Image is one aggregated result: the image URL extracted from a source
// response, at the position of that source in the request list.
type Image struct {
	Index     int    `json:"index"`
	URL       string `json:"url"`
	SourceURL string `json:"source_url"`
}

// URLs returns the image URLs in order.
func URLs(images []Image) []string {
	if len(images) == 0 {
		return nil
	}
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.URL
	}
	return out
}
