package orm

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/membership/pkg/metrics"
)

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递持久化上下文(事务连接绑定在EntityManager上)
// 3. 传播行为相当于REQUIRED:已经在事务中时直接加入外层事务
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 1. fn内的所有Repository操作共享同一事务和同一持久化上下文
// 2. fn返回nil时先flush(脏检查)再COMMIT,返回error时ROLLBACK
// 3. 新建的持久化上下文在事务结束后清空,实体脱管
// 4. Context中已有请求级持久化上下文时复用它:事务期间绑定事务连接,结束后不清空
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    m, err := memberRepo.FindByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    m.Age++ // 提交前自动UPDATE
//	    return nil
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if em := EntityManagerFrom(ctx); em != nil {
		if em.InTransaction() {
			return fn(ctx)
		}
		return m.joinRequestContext(ctx, em, fn)
	}

	var em *EntityManager
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		em = newEntityManager(tx, true)
		txCtx := WithEntityManager(ctx, em)
		if err := fn(txCtx); err != nil {
			return err
		}
		return em.Flush(txCtx)
	})
	if em != nil {
		em.clear(clearReasonTxEnd)
	}
	return err
}

func (m *TxManager) joinRequestContext(ctx context.Context, em *EntityManager, fn func(ctx context.Context) error) error {
	return inTransaction(ctx, m.db, em, func() error { return fn(ctx) })
}

// inTransaction 开启事务并临时把em绑定到事务连接,提交前flush
// 回滚后内存中的状态与数据库不一致,清空em
func inTransaction(ctx context.Context, db *gorm.DB, em *EntityManager, fn func() error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restore := em.bind(tx)
		defer restore()
		if err := fn(); err != nil {
			return err
		}
		return em.Flush(ctx)
	})
	if err != nil {
		em.clear(clearReasonRollback)
	}
	return err
}

// read 仓储查询:事务中先自动flush
func read(ctx context.Context, db *gorm.DB, name string, fn func(em *EntityManager) error) error {
	metrics.CountQuery(name)
	em, done := session(ctx, db)
	defer done()
	if err := em.autoFlush(ctx); err != nil {
		return err
	}
	return fn(em)
}

// write 仓储写操作:不在事务中时单独开启一个事务(相当于save自带的事务)
func write(ctx context.Context, db *gorm.DB, name string, fn func(em *EntityManager) error) error {
	metrics.CountQuery(name)
	em, done := session(ctx, db)
	defer done()
	if em.InTransaction() {
		return fn(em)
	}
	return inTransaction(ctx, db, em, func() error { return fn(em) })
}

// OpenEntityManager 开启请求级(非事务)持久化上下文
// 在close之前查询到的实体保持被管理,可以延迟加载关联
func (m *TxManager) OpenEntityManager(ctx context.Context) (context.Context, func()) {
	if EntityManagerFrom(ctx) != nil {
		return ctx, func() {}
	}
	em := newEntityManager(m.db, false)
	return WithEntityManager(ctx, em), func() { em.clear(clearReasonTxEnd) }
}
