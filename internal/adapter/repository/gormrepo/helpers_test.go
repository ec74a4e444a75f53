package gormrepo

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- SQLite-friendly schemas only for tests ---

type enterpriseSQLite struct {
	ID                    string    `gorm:"primaryKey;column:id"`
	FullName              string    `gorm:"column:full_name"`
	Email                 string    `gorm:"column:email"`
	OrganizationName      string    `gorm:"column:organization_name"`
	Phone                 string    `gorm:"column:phone"`
	Website               string    `gorm:"column:website"`
	JobTitle              string    `gorm:"column:job_title"`
	Message               string    `gorm:"column:message"`
	DocumentURL           string    `gorm:"column:document_url"`
	Status                string    `gorm:"column:status"`
	AdminNotes            string    `gorm:"column:admin_notes;type:text"`
	VerificationChecklist *string   `gorm:"column:verification_checklist;type:text"`
	UserID                *string   `gorm:"column:user_id"`
	Version               int64     `gorm:"column:version;default:1"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (enterpriseSQLite) TableName() string { return "enterprise_requests" }

// educator table predates the checklist column
type educatorSQLite struct {
	ID               string    `gorm:"primaryKey;column:id"`
	FullName         string    `gorm:"column:full_name"`
	Email            string    `gorm:"column:email"`
	OrganizationName string    `gorm:"column:organization_name"`
	Phone            string    `gorm:"column:phone"`
	Website          string    `gorm:"column:website"`
	JobTitle         string    `gorm:"column:job_title"`
	Message          string    `gorm:"column:message"`
	DocumentURL      string    `gorm:"column:document_url"`
	Status           string    `gorm:"column:status"`
	AdminNotes       string    `gorm:"column:admin_notes;type:text"`
	UserID           *string   `gorm:"column:user_id"`
	Version          int64     `gorm:"column:version;default:1"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (educatorSQLite) TableName() string { return "educator_applications" }

type profileSQLite struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Role      string    `gorm:"column:role;default:user"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (profileSQLite) TableName() string { return "profiles" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe schemas.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every new connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&enterpriseSQLite{}, &educatorSQLite{}, &profileSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
