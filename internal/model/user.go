package model

// ── 角色常量 ──
// 角色在注册后不可自行变更，只有管理员可以重新指派

const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"username"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(10);not null;default:'student'"    json:"role"` // student | faculty | admin
	Phone        string `gorm:"type:varchar(15)"                               json:"phone,omitempty"`
	Department   string `gorm:"type:varchar(100);not null;default:''"          json:"department,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
