package db_models

type User struct {
	BaseModel
	Username     string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	PhoneNumber  string
}

func (User) TableName() string {
	return "users"
}
