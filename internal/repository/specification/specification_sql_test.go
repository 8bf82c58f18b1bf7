package specification

import (
	"reflect"
	"strings"
	"testing"

	"ai-editor-be/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunDB opens gorm over a sqlmock connection with DryRun enabled, so
// statements are rendered to SQL without ever touching a database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return db
}

func buildDocumentSQL(t *testing.T, db *gorm.DB, specs ...Specification) (string, []interface{}) {
	t.Helper()

	tx := db.Model(&model.Document{})
	for _, spec := range specs {
		tx = spec.Apply(tx)
	}

	var docs []model.Document
	tx = tx.Find(&docs)
	if tx.Error != nil {
		t.Fatalf("statement build error = %v", tx.Error)
	}
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestDocumentSpecificationSQL(t *testing.T) {
	db := newDryRunDB(t)

	userID := uuid.New()
	docID := uuid.New()

	tests := []struct {
		name         string
		specs        []Specification
		wantContains []string
		wantVars     []interface{}
	}{
		{
			name:         "by id",
			specs:        []Specification{ByID{ID: docID}},
			wantContains: []string{`id = $1`},
			wantVars:     []interface{}{docID},
		},
		{
			name:         "owner scope keeps column qualified",
			specs:        []Specification{DocumentOwnedByUser{UserID: userID}},
			wantContains: []string{`documents.user_id = $1`},
			wantVars:     []interface{}{userID},
		},
		{
			name:         "title search uses ILIKE",
			specs:        []Specification{TitleSearch{Query: "q3 planning"}},
			wantContains: []string{`title ILIKE $1`},
			wantVars:     []interface{}{"%q3 planning%"},
		},
		{
			name:  "text search spans title and markdown",
			specs: []Specification{TextSearch{Query: "roadmap"}},
			wantContains: []string{
				`documents.title ILIKE $1 OR documents.content_markdown ILIKE $2`,
			},
			wantVars: []interface{}{"%roadmap%", "%roadmap%"},
		},
		{
			name:  "folder name filter joins folders",
			specs: []Specification{ByFolderName{Name: "work"}},
			wantContains: []string{
				`JOIN folders ON folders.id = documents.folder_id`,
				`folders.name ILIKE $1`,
			},
			wantVars: []interface{}{"%work%"},
		},
		{
			name:         "ordering",
			specs:        []Specification{OrderBy{Field: "updated_at", Desc: true}},
			wantContains: []string{`ORDER BY updated_at DESC`},
		},
		{
			name:         "pagination",
			specs:        []Specification{Pagination{Limit: 10, Offset: 20}},
			wantContains: []string{`LIMIT`, `OFFSET`},
		},
		{
			name: "combined search stays scoped to owner",
			specs: []Specification{
				DocumentOwnedByUser{UserID: userID},
				ByFolderName{Name: "work"},
				TextSearch{Query: "roadmap"},
				OrderBy{Field: "updated_at", Desc: true},
			},
			wantContains: []string{
				`documents.user_id = $1`,
				`JOIN folders ON folders.id = documents.folder_id`,
				// The OR pair must stay parenthesised or it would escape
				// the owner scope.
				`(documents.title ILIKE $3 OR documents.content_markdown ILIKE $4)`,
				`ORDER BY updated_at DESC`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, vars := buildDocumentSQL(t, db, tt.specs...)

			for _, want := range tt.wantContains {
				if !strings.Contains(sql, want) {
					t.Errorf("SQL = %q, want it to contain %q", sql, want)
				}
			}
			if !strings.Contains(sql, `"documents"`) {
				t.Errorf("SQL = %q, want documents table", sql)
			}
			if tt.wantVars != nil && !reflect.DeepEqual(vars, tt.wantVars) {
				t.Errorf("vars = %v, want %v", vars, tt.wantVars)
			}
		})
	}
}
