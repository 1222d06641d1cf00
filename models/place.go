package models

// Place is a geocoded location.
type Place struct {
	PlaceID     int64             `json:"placeId,omitempty"`
	DisplayName string            `json:"displayName"`
	Lat         float64           `json:"lat"`
	Lng         float64           `json:"lng"`
	Type        string            `json:"type,omitempty"`
	Address     map[string]string `json:"address,omitempty"`
}
