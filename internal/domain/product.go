package domain

type Product struct {
	ID           string
	Title        string
	Price        float64
	ThumbnailURL string
}
