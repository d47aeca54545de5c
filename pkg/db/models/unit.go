package models

// Unit is a unit of measure a product is priced in.
type Unit struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string `gorm:"column:name;not null"`
	Abbreviation string `gorm:"column:abbreviation;not null"`
}
