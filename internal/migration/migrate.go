package migration

import (
	"fmt"

	"github.com/fservio/projeto-do-povo/internal/domain"
	"gorm.io/gorm"
)

// Models every table owned by the article lifecycle, in creation order.
func Models() []interface{} {
	return []interface{}{
		&domain.Article{},
		&domain.ArticleTag{},
		&domain.ArticleVersion{},
		&domain.EditorialChecklist{},
		&domain.AuditEntry{},
	}
}

type tabler interface {
	TableName() string
}

// TableNames returns the table of every model, in creation order.
func TableNames() []string {
	names := make([]string, 0, len(Models()))
	for _, model := range Models() {
		if t, ok := model.(tabler); ok {
			names = append(names, t.TableName())
			continue
		}
		names = append(names, fmt.Sprintf("%T", model))
	}
	return names
}

// Run executes AutoMigrate for all lifecycle tables.
// 테이블 없으면 생성, 있으면 누락된 컬럼/인덱스만 추가
func Run(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("automigrate %T: %w", model, err)
		}
	}
	return nil
}

// Drop removes all lifecycle tables in reverse order. Used by cmd/migrate --reset.
func Drop(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop %T: %w", models[i], err)
		}
	}
	return nil
}
