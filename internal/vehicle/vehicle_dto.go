package vehicle

type CreateVehicleRequest struct {
	VIN           string  `json:"vin" binding:"required"`
	Make          string  `json:"make" binding:"required"`
	Model         string  `json:"model" binding:"required"`
	ModelYear     int     `json:"model_year" binding:"required,gte=1950"`
	Color         string  `json:"color"`
	Mileage       int     `json:"mileage" binding:"gte=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"required,gt=0"`
	PurchaseDate  string  `json:"purchase_date" binding:"required"`
}

type UpdateVehicleRequest struct {
	Color   string `json:"color"`
	Mileage int    `json:"mileage" binding:"gte=0"`
	Status  string `json:"status" binding:"required"`
}

type SellVehicleRequest struct {
	SalePrice float64 `json:"sale_price" binding:"required,gt=0"`
	SaleDate  string  `json:"sale_date" binding:"required"`
}

type ListFilterRequest struct {
	Status string `form:"status"`
	Make   string `form:"make"`
}

type VehicleResponse struct {
	ID            string   `json:"id"`
	StockNumber   string   `json:"stock_number"`
	VIN           string   `json:"vin"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	ModelYear     int      `json:"model_year"`
	Color         string   `json:"color,omitempty"`
	Mileage       int      `json:"mileage"`
	PurchasePrice float64  `json:"purchase_price"`
	PurchaseDate  string   `json:"purchase_date"`
	SalePrice     *float64 `json:"sale_price,omitempty"`
	SaleDate      *string  `json:"sale_date,omitempty"`
	SoldBy        *string  `json:"sold_by,omitempty"`
	Status        string   `json:"status"`
}
