package domain

// Settings holds one user's weekly limits and alert toggles.
type Settings struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id" yaml:"-"`
	UserID           int64  `gorm:"not null;uniqueIndex" json:"userId" yaml:"-"`
	ElectricityLimit string `gorm:"not null" json:"electricityLimit" yaml:"electricityLimit"`
	ElectricityUnit  string `gorm:"not null" json:"electricityUnit" yaml:"electricityUnit"`
	WaterLimit       string `gorm:"not null" json:"waterLimit" yaml:"waterLimit"`
	WaterUnit        string `gorm:"not null" json:"waterUnit" yaml:"waterUnit"`
	WeeklyAlerts     bool   `gorm:"not null" json:"weeklyAlerts" yaml:"weeklyAlerts"`
	ThresholdAlerts  bool   `gorm:"not null" json:"thresholdAlerts" yaml:"thresholdAlerts"`
	SavingTips       bool   `gorm:"not null" json:"savingTips" yaml:"savingTips"`
}

func (Settings) TableName() string {
	return "settings"
}

// SettingsUpdate carries the fields of a settings write. Nil means "keep".
type SettingsUpdate struct {
	ElectricityLimit *string
	ElectricityUnit  *string
	WaterLimit       *string
	WaterUnit        *string
	WeeklyAlerts     *bool
	ThresholdAlerts  *bool
	SavingTips       *bool
}

// WithDefaults returns the settings a user starts with, keyed to userID.
func (s Settings) WithDefaults(userID int64) Settings {
	s.ID = 0
	s.UserID = userID
	return s
}

func (s *Settings) Apply(u SettingsUpdate) {
	if u.ElectricityLimit != nil {
		s.ElectricityLimit = *u.ElectricityLimit
	}
	if u.ElectricityUnit != nil {
		s.ElectricityUnit = *u.ElectricityUnit
	}
	if u.WaterLimit != nil {
		s.WaterLimit = *u.WaterLimit
	}
	if u.WaterUnit != nil {
		s.WaterUnit = *u.WaterUnit
	}
	if u.WeeklyAlerts != nil {
		s.WeeklyAlerts = *u.WeeklyAlerts
	}
	if u.ThresholdAlerts != nil {
		s.ThresholdAlerts = *u.ThresholdAlerts
	}
	if u.SavingTips != nil {
		s.SavingTips = *u.SavingTips
	}
}

// FillMissing turns a partial write into a full one, taking absent fields from defaults.
func (u SettingsUpdate) FillMissing(defaults Settings) SettingsUpdate {
	if u.ElectricityLimit == nil {
		u.ElectricityLimit = &defaults.ElectricityLimit
	}
	if u.ElectricityUnit == nil {
		u.ElectricityUnit = &defaults.ElectricityUnit
	}
	if u.WaterLimit == nil {
		u.WaterLimit = &defaults.WaterLimit
	}
	if u.WaterUnit == nil {
		u.WaterUnit = &defaults.WaterUnit
	}
	if u.WeeklyAlerts == nil {
		u.WeeklyAlerts = &defaults.WeeklyAlerts
	}
	if u.ThresholdAlerts == nil {
		u.ThresholdAlerts = &defaults.ThresholdAlerts
	}
	if u.SavingTips == nil {
		u.SavingTips = &defaults.SavingTips
	}
	return u
}

func (u SettingsUpdate) Validate() error {
	verr := &ValidationError{}
	validateLimit(verr, "electricityLimit", u.ElectricityLimit)
	validateLimit(verr, "waterLimit", u.WaterLimit)
	validateUnit(verr, "electricityUnit", u.ElectricityUnit)
	validateUnit(verr, "waterUnit", u.WaterUnit)
	return verr.Err()
}

func validateLimit(verr *ValidationError, field string, v *string) {
	if v != nil && parseUsage(v) <= 0 {
		verr.Add(field, "must be greater than zero")
	}
}

// Limits returns the numeric weekly limits; an unparsable limit reads as 0.
func (s Settings) Limits() (electricity, water float64) {
	return parseUsage(&s.ElectricityLimit), parseUsage(&s.WaterLimit)
}
