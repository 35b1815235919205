package lookupvehiclelisting

type Input struct {
	SessionID string `json:"sessionId,omitempty"`
	VehicleID string `json:"vehicleId"`
}

// listing is the catalogue document as indexed.
type listing struct {
	Make       string   `json:"make"`
	Model      string   `json:"model"`
	Trim       string   `json:"trim,omitempty"`
	Year       int      `json:"year"`
	PriceRange string   `json:"priceRange"`
	Price      float64  `json:"price,omitempty"`
	CityMpg    *float64 `json:"cityMpg,omitempty"`
}

type getResponse struct {
	Found  bool    `json:"found"`
	Source listing `json:"_source"`
}

type Output struct {
	VehicleID    string   `json:"vehicleId"`
	VehicleName  string   `json:"vehicleName"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	PriceRange   string   `json:"priceRange"`
	CityMpg      *float64 `json:"cityMpg"`
	VehiclePrice float64  `json:"vehiclePrice"`
	PriceKnown   bool     `json:"priceKnown"`
}
