package models

// RegionRecord is one commune of the SUBDERE administrative division table.
// Codes are kept as strings so zero padding survives.
type RegionRecord struct {
	RegionCode   string `json:"region_code" gorm:"column:COD_REG"`
	RegionName   string `json:"region_name" gorm:"column:NOM_REG"`
	ProvinceCode string `json:"province_code" gorm:"column:COD_PROV"`
	ProvinceName string `json:"province_name" gorm:"column:NOM_PROV"`
	CommuneCode  string `json:"commune_code" gorm:"column:COD_COM"`
	CommuneName  string `json:"commune_name" gorm:"column:NOM_COM"`
}
