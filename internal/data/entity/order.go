package entity

import "github.com/shopspring/decimal"

type Order struct {
	BaseSimple
	ProductID  string // not checked against the catalog
	Name       string
	Contact    string
	Address    string
	Quantity   int
	Quality    string
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
}
