package domain

// Blob key conventions for stored renditions.

func OriginalKey(id, ext string) string {
	return id + "-original." + ext
}

func FullKey(id string) string {
	return id + "-full.jpg"
}

func ThumbKey(id string) string {
	return id + "-thumb.webp"
}

func PosterKey(id string) string {
	return id + "-poster.jpg"
}

func WebVideoKey(id string) string {
	return id + ".mp4"
}
