package parsevehicleprice

type Input struct {
	VehicleID  string `json:"vehicleId,omitempty"`
	PriceRange string `json:"priceRange"`
}

type Output struct {
	VehiclePrice float64   `json:"vehiclePrice"`
	PriceKnown   bool      `json:"priceKnown"`
	PricesFound  []float64 `json:"pricesFound"`
}
