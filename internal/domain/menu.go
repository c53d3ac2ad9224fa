package domain

import "time"

// DailyMenuEntry links a product to a calendar date with a stock
// count. Stock only moves through explicit increase/decrease
// operations on the repository.
type DailyMenuEntry struct {
	ID        int
	ProductID int
	Stock     int
	MenuDate  time.Time
}

// DailyMenuItem is a menu entry joined with its product.
type DailyMenuItem struct {
	MenuID      int    `json:"menu_id"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	MenuDate    string `json:"menu_date"`
}
