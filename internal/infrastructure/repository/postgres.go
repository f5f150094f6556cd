package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"greensteps/internal/catalog"
	"greensteps/internal/domain"
	"greensteps/internal/logger"
)

// PostgresStore persists entries, awards and settings with gorm.
// Uniqueness of weeks and awards is enforced by the schema.
type PostgresStore struct {
	db       *gorm.DB
	defaults domain.Settings
	units    domain.Units
	now      func() time.Time
}

// DSN builds a libpq connection string.
func DSN(host, port, user, password, name string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, name, port)
}

// OpenPostgres connects and translates driver errors into gorm sentinels.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(gormWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

// NewPostgresStore migrates the schema and loads the seed catalog into empty tables.
func NewPostgresStore(ctx context.Context, db *gorm.DB, seed *catalog.Seed, units domain.Units) (*PostgresStore, error) {
	s := &PostgresStore{db: db, defaults: seed.Settings, units: units, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	if err := s.seed(ctx, seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	logger.Info("running migrations")
	err := s.db.WithContext(ctx).AutoMigrate(
		&domain.User{},
		&domain.UsageEntry{},
		&domain.Tip{},
		&domain.Badge{},
		&domain.UserBadge{},
		&domain.Settings{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) seed(ctx context.Context, seed *catalog.Seed) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := seed.User
		if err := tx.Where(domain.User{ID: user.ID}).Attrs(user).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}

		var count int64
		if err := tx.Model(&domain.Tip{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(seed.Tips) > 0 {
			logger.Info("seeding tip catalog", "tips", len(seed.Tips))
			if err := tx.Create(&seed.Tips).Error; err != nil {
				return fmt.Errorf("seeding tips: %w", err)
			}
		}

		if err := tx.Model(&domain.Badge{}).Count(&count).Error; err != nil {
			return err
		}
		if badges := seed.BadgeList(); count == 0 && len(badges) > 0 {
			logger.Info("seeding badge catalog", "badges", len(badges))
			if err := tx.Create(&badges).Error; err != nil {
				return fmt.Errorf("seeding badges: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) CreateEntry(ctx context.Context, userID int64, in domain.UsageInput) (*domain.UsageEntry, error) {
	entry := domain.NewUsageEntry(userID, in, s.units, s.now())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := weekEntry(tx, userID, in.WeekStartDate)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.ConflictError{Existing: *existing}
		}
		return tx.Create(&entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race to a concurrent insert of the same week.
		return nil, s.conflict(ctx, userID, in.WeekStartDate, err)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, id int64, u domain.UsageUpdate) (*domain.UsageEntry, error) {
	var entry domain.UsageEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEntryNotFound
			}
			return err
		}
		entry.Apply(u)

		other, err := weekEntry(tx, entry.UserID, entry.WeekStartDate)
		if err != nil {
			return err
		}
		if other != nil && other.ID != entry.ID {
			return &domain.ConflictError{Existing: *other}
		}
		return tx.Save(&entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, s.conflict(ctx, entry.UserID, entry.WeekStartDate, err)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) conflict(ctx context.Context, userID int64, week string, cause error) error {
	existing, err := weekEntry(s.db.WithContext(ctx), userID, week)
	if err != nil || existing == nil {
		return cause
	}
	return &domain.ConflictError{Existing: *existing}
}

func weekEntry(db *gorm.DB, userID int64, week string) (*domain.UsageEntry, error) {
	var entry domain.UsageEntry
	err := db.Where("user_id = ? AND week_start_date = ?", userID, week).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) GetEntryForWeek(ctx context.Context, userID int64, week string) (*domain.UsageEntry, error) {
	return weekEntry(s.db.WithContext(ctx), userID, week)
}

func (s *PostgresStore) ListEntries(ctx context.Context, userID int64, limit int) ([]domain.UsageEntry, error) {
	entries := []domain.UsageEntry{}
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start_date desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (s *PostgresStore) ListRecent(ctx context.Context, userID int64) ([]domain.UsageEntry, error) {
	return s.ListEntries(ctx, userID, domain.RecentWindow)
}

func (s *PostgresStore) AllTips(ctx context.Context) ([]domain.Tip, error) {
	tips := []domain.Tip{}
	err := s.db.WithContext(ctx).Order("id").Find(&tips).Error
	return tips, err
}

func (s *PostgresStore) TipsByCategory(ctx context.Context, category string) ([]domain.Tip, error) {
	tips := []domain.Tip{}
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("id").
		Find(&tips).Error
	return tips, err
}

func (s *PostgresStore) AllBadges(ctx context.Context) ([]domain.Badge, error) {
	badges := []domain.Badge{}
	err := s.db.WithContext(ctx).Order("id").Find(&badges).Error
	return badges, err
}

func (s *PostgresStore) UserBadges(ctx context.Context, userID int64) ([]domain.EarnedBadge, error) {
	var awards []domain.UserBadge
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&awards).Error; err != nil {
		return nil, err
	}
	earned := []domain.EarnedBadge{}
	if len(awards) == 0 {
		return earned, nil
	}

	ids := make([]int64, 0, len(awards))
	for _, ub := range awards {
		ids = append(ids, ub.BadgeID)
	}
	var badges []domain.Badge
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&badges).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Badge, len(badges))
	for _, b := range badges {
		byID[b.ID] = b
	}
	for _, ub := range awards {
		if b, ok := byID[ub.BadgeID]; ok {
			earned = append(earned, domain.EarnedBadge{UserBadge: ub, Badge: b})
		}
	}
	return earned, nil
}

// AwardBadge inserts the award unless the user already holds the badge.
func (s *PostgresStore) AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error) {
	award := domain.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: s.now()}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(&award)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *PostgresStore) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	var st domain.Settings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, userID int64, u domain.SettingsUpdate) (*domain.Settings, error) {
	var st domain.Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			st = s.defaults.WithDefaults(userID)
			st.Apply(u)
			return tx.Create(&st).Error
		}
		if err != nil {
			return err
		}
		st.Apply(u)
		return tx.Save(&st).Error
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
