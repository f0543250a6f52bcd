package checks

import (
	"testing"

	"unilist/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type bookmark struct {
	ID    uint   `gorm:"column:id;primaryKey"`
	Title string `gorm:"column:title;type:varchar(120)"`
	Hits  int    `gorm:"column:hits;type:int"`
	Note  string `gorm:"column:note;type:text"`
}

func (bookmark) TableName() string { return "bookmarks" }

type untitled struct {
	ID int `gorm:"column:id"`
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, bookmark{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_NoTableName(t *testing.T) {
	db, _ := setupMockDB(t)
	_, err := CheckSchema(db, untitled{})
	assert.EqualError(t, err, "model untitled does not implement TableName")
}

func TestCheckSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "int(10) unsigned", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("title", "varchar(120)", "YES", "", nil, "")
	rows.AddRow("hits", "varchar(10)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `bookmarks`").WillReturnRows(rows)

	report, err := CheckSchema(db, &bookmark{})
	require.NoError(t, err)
	assert.Equal(t, "mysql", report.Driver)
	assert.False(t, report.Matched)

	tbl := report.Tables["bookmarks"]
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"note"}, tbl.MissingColumns)
	assert.Equal(t, []string{"hits: expected int, got varchar(10)"}, tbl.TypeMismatches)
}

func TestCheckSchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bookmark{}))

	report, err := CheckSchema(db, bookmark{})
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
	assert.Equal(t, "ok", report.Tables["bookmarks"].Status)
}

func TestTypeFamily(t *testing.T) {
	assert.Equal(t, "text", typeFamily("character varying"))
	assert.Equal(t, "text", typeFamily("VARCHAR(255)"))
	assert.Equal(t, "text", typeFamily("longtext"))
	assert.Equal(t, "integer", typeFamily("bigint"))
	assert.Equal(t, "time", typeFamily("timestamp with time zone"))
	assert.Equal(t, "json", typeFamily("json"))
}
