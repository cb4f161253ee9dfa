package model

// Category 投诉分类表 — 对应 categories
// 分类是只读参考数据，仅管理员可维护
type Category struct {
	CategoryID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	BaseModel

	// 关联
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID;references:CategoryID" json:"subcategories,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// Subcategory 投诉子分类表 — 对应 subcategories
type Subcategory struct {
	SubcategoryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subcategory_id"`
	CategoryID    string `gorm:"type:uuid;not null"                             json:"category_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description   string `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Subcategory) TableName() string { return "subcategories" }
