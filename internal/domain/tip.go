package domain

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank orders difficulties from easy (1) to hard (3). Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

func (d Difficulty) Valid() bool {
	return d.Rank() > 0
}

type Tip struct {
	ID               int64      `gorm:"primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Title            string     `gorm:"not null" json:"title" yaml:"title"`
	Description      string     `gorm:"not null" json:"description" yaml:"description"`
	Category         string     `gorm:"not null;index" json:"category" yaml:"category"`
	Difficulty       Difficulty `gorm:"not null" json:"difficulty" yaml:"difficulty"`
	PotentialSavings *string    `json:"potentialSavings" yaml:"potentialSavings"`
	Icon             string     `gorm:"not null" json:"icon" yaml:"icon"`
}

func (Tip) TableName() string {
	return "tips"
}
