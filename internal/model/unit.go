package model

import "github.com/shopspring/decimal"

// Unit type choices
const (
	UnitTypeWeight  = "WEIGHT"
	UnitTypeVolume  = "VOLUME"
	UnitTypeUnit    = "UNIT"
	UnitTypePackage = "PACKAGE"
)

// UnitOfMeasure describes how a product is sold: by weight, volume,
// single units or packages. BaseConversion maps one unit to its base
// amount (1 kg = 1000 g gives 1000).
type UnitOfMeasure struct {
	BaseModel
	Name           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required"`
	Abbreviation   string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"abbreviation" validate:"required"`
	UnitType       string          `gorm:"type:varchar(20);not null" json:"unit_type" validate:"required,oneof=WEIGHT VOLUME UNIT PACKAGE"`
	BaseConversion decimal.Decimal `gorm:"type:decimal(10,4);default:1" json:"base_conversion"`
	AllowsFraction bool            `gorm:"default:false" json:"allows_fraction"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
}

// DefaultUnits are seeded on first boot.
var DefaultUnits = []UnitOfMeasure{
	{Name: "Quilograma", Abbreviation: "kg", UnitType: UnitTypeWeight, BaseConversion: decimal.NewFromInt(1000), AllowsFraction: true, IsActive: true},
	{Name: "Grama", Abbreviation: "g", UnitType: UnitTypeWeight, BaseConversion: decimal.NewFromInt(1), AllowsFraction: true, IsActive: true},
	{Name: "Litro", Abbreviation: "L", UnitType: UnitTypeVolume, BaseConversion: decimal.NewFromInt(1000), AllowsFraction: true, IsActive: true},
	{Name: "Mililitro", Abbreviation: "ml", UnitType: UnitTypeVolume, BaseConversion: decimal.NewFromInt(1), AllowsFraction: true, IsActive: true},
	{Name: "Unidade", Abbreviation: "un", UnitType: UnitTypeUnit, BaseConversion: decimal.NewFromInt(1), IsActive: true},
	{Name: "Caixa", Abbreviation: "cx", UnitType: UnitTypePackage, BaseConversion: decimal.NewFromInt(1), IsActive: true},
	{Name: "Pacote", Abbreviation: "pct", UnitType: UnitTypePackage, BaseConversion: decimal.NewFromInt(1), IsActive: true},
}
