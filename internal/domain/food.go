package domain

// FoodRecord is one row of the nutrition lookup table.
// Rows are keyed by the detection class id, so ID doubles as the class id.
type FoodRecord struct {
	ID          int     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Calories    float64 `json:"calories"`
	Carbs       float64 `json:"carbs"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Sodium      float64 `json:"sodium"`
	Sugar       float64 `json:"sugar"`
	Supplements string  `gorm:"type:text" json:"supplements"`
}

// TableName specifies the table name for FoodRecord.
func (FoodRecord) TableName() string {
	return "foods"
}

// Nutrition returns the six numeric nutrition fields of the record.
func (f FoodRecord) Nutrition() Nutrition {
	return Nutrition{
		Calories: f.Calories,
		Carbs:    f.Carbs,
		Protein:  f.Protein,
		Fat:      f.Fat,
		Sodium:   f.Sodium,
		Sugar:    f.Sugar,
	}
}

// Nutrition holds per-item nutrition values.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Sodium   float64 `json:"sodium"`
	Sugar    float64 `json:"sugar"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Carbs:    n.Carbs + o.Carbs,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Sodium:   n.Sodium + o.Sodium,
		Sugar:    n.Sugar + o.Sugar,
	}
}

// Solution carries the remediation info attached to a known food.
type Solution struct {
	Supplements string `json:"supplements"`
}
