package models

// SecretMessage is a private free-text note owned by a single user.
// There is no uniqueness constraint on the body; a user may keep any number
// of messages, including empty ones.
type SecretMessage struct {
	BaseModel
	UserID uint   `gorm:"index;not null" json:"userId"`
	Body   string `gorm:"type:text" json:"message"`
}

// TableName specifies the table name for the SecretMessage model.
func (SecretMessage) TableName() string {
	return "secret_messages"
}
