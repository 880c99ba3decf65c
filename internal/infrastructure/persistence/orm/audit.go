package orm

import (
	"gorm.io/gorm"

	"github.com/xiebiao/membership/pkg/auditor"
)

const (
	colCreatedDate      = "created_date"
	colLastModifiedDate = "last_modified_date"
	colCreatedBy        = "created_by"
	colLastModifiedBy   = "last_modified_by"
)

// registerAuditCallbacks 注册审计回调（相当于实体监听器）
// 作用于同时拥有created_by和last_modified_by列的表（目前只有member）：
//   - INSERT：写入创建时间/创建人/修改时间/修改人
//   - UPDATE：写入修改时间/修改人，创建字段不变
//
// 操作人取自Context（JWT Subject），没有时使用defaultAuditor。
// SkipHooks的语句（UpdateColumn批量更新）不触发审计。
func registerAuditCallbacks(db *gorm.DB, defaultAuditor string) error {
	if err := db.Callback().Create().Before("gorm:create").
		Register("audit:before_create", auditCreate(defaultAuditor)); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").
		Register("audit:before_update", auditUpdate(defaultAuditor))
}

func auditable(db *gorm.DB) bool {
	if db.Error != nil || db.Statement.SkipHooks || db.Statement.Schema == nil {
		return false
	}
	s := db.Statement.Schema
	return s.LookUpField(colCreatedBy) != nil && s.LookUpField(colLastModifiedBy) != nil
}

func auditCreate(defaultAuditor string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if !auditable(db) {
			return
		}
		now := db.NowFunc()
		actor := auditor.Resolve(db.Statement.Context, defaultAuditor)

		db.Statement.SetColumn(colCreatedDate, now, true)
		db.Statement.SetColumn(colLastModifiedDate, now, true)
		db.Statement.SetColumn(colCreatedBy, actor, true)
		db.Statement.SetColumn(colLastModifiedBy, actor, true)
	}
}

func auditUpdate(defaultAuditor string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if !auditable(db) {
			return
		}
		db.Statement.SetColumn(colLastModifiedDate, db.NowFunc(), true)
		db.Statement.SetColumn(colLastModifiedBy, auditor.Resolve(db.Statement.Context, defaultAuditor), true)
	}
}
