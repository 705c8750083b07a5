package model

// Gas is immutable reference data. Rows are installed by the migrate command
// and only ever read by the service.
type Gas struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Formula     string  `gorm:"type:varchar(64);not null" json:"formula"`
	Description string  `gorm:"type:text;not null" json:"description"`
	ImageURL    *string `gorm:"type:varchar(500)" json:"image_url"`
}

func (*Gas) TableName() string { return "gas" }
