package orm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/logger"
	"github.com/xiebiao/membership/pkg/metrics"
)

// 持久化上下文被清空的原因（metrics标签）
const (
	clearReasonManual     = "manual"
	clearReasonBulkUpdate = "bulk_update"
	clearReasonTxEnd      = "tx_end"
	clearReasonRollback   = "rollback"
)

type memberSnapshot struct {
	username string
	age      int
	teamID   uint // 0表示没有团队
}

func snapshotMember(m *member.Member) memberSnapshot {
	s := memberSnapshot{username: m.Username, age: m.Age}
	if m.TeamID != nil {
		s.teamID = *m.TeamID
	}
	return s
}

type memberEntry struct {
	entity   *member.Member
	snapshot memberSnapshot
	readOnly bool // 只读实体没有快照，不参与脏检查
}

type teamEntry struct {
	entity *member.Team
	name   string
}

// EntityManager 持久化上下文（一级缓存）
//
// 职责：
//  1. 标识映射：同一上下文中同一行数据只对应一个实体指针
//  2. 脏检查：Flush时对比快照，只UPDATE发生变化的列
//  3. 延迟加载：被管理的会员可以通过LoadTeam加载团队，Clear后实体脱管，加载失败
//
// 注意：不是并发安全的，一个请求/事务一个实例，不能跨goroutine共享
type EntityManager struct {
	db            *gorm.DB
	transactional bool

	members     map[uint]*memberEntry
	memberOrder []uint
	teams       map[uint]*teamEntry
	teamOrder   []uint
}

// NewEntityManager 创建非事务的持久化上下文
func NewEntityManager(db *gorm.DB) *EntityManager {
	return newEntityManager(db, false)
}

func newEntityManager(db *gorm.DB, transactional bool) *EntityManager {
	return &EntityManager{
		db:            db,
		transactional: transactional,
		members:       make(map[uint]*memberEntry),
		teams:         make(map[uint]*teamEntry),
	}
}

// DB 当前上下文绑定的连接（事务中为事务连接）
func (em *EntityManager) DB(ctx context.Context) *gorm.DB {
	return em.db.WithContext(ctx)
}

// InTransaction 是否处于事务中
func (em *EntityManager) InTransaction() bool {
	return em.transactional
}

// bind 事务期间切换到事务连接，返回恢复函数
func (em *EntityManager) bind(tx *gorm.DB) func() {
	prevDB, prevTx := em.db, em.transactional
	em.db, em.transactional = tx, true
	return func() {
		em.db, em.transactional = prevDB, prevTx
	}
}

// Persist 持久化新实体（立即INSERT，获得自增ID），之后实体被管理
// 已有ID但不在当前上下文中的实体返回ErrDetachedEntity
func (em *EntityManager) Persist(ctx context.Context, entity any) error {
	switch e := entity.(type) {
	case *member.Member:
		return em.persistMember(ctx, e)
	case *member.Team:
		return em.persistTeam(ctx, e)
	default:
		return fmt.Errorf("不支持的实体类型: %T", entity)
	}
}

func (em *EntityManager) persistMember(ctx context.Context, m *member.Member) error {
	if m.ID != 0 {
		if em.Contains(m) {
			return nil
		}
		return member.ErrDetachedEntity
	}
	if err := resolveTeamID(m); err != nil {
		return err
	}

	model := toMemberModel(m)
	if err := em.DB(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存会员失败")
	}

	m.ID = model.ID
	m.BaseEntity = member.BaseEntity{
		CreatedDate:      model.CreatedDate,
		LastModifiedDate: model.LastModifiedDate,
		CreatedBy:        model.CreatedBy,
		LastModifiedBy:   model.LastModifiedBy,
	}
	em.registerMember(m, false)
	return nil
}

func (em *EntityManager) persistTeam(ctx context.Context, t *member.Team) error {
	if t.ID != 0 {
		if em.Contains(t) {
			return nil
		}
		return member.ErrDetachedEntity
	}

	model := toTeamModel(t)
	if err := em.DB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存团队失败")
	}

	t.ID = model.ID
	t.CreatedDate = model.CreatedDate
	t.UpdatedDate = model.UpdatedDate
	if t.Members == nil {
		t.Members = []*member.Member{}
	}
	em.registerTeam(t)
	return nil
}

// Merge 把脱管会员的状态复制到被管理的实例上，返回被管理的实例
// 新实体（ID为0）等同于Persist
func (em *EntityManager) Merge(ctx context.Context, m *member.Member) (*member.Member, error) {
	if m.ID == 0 {
		return m, em.persistMember(ctx, m)
	}
	if em.Contains(m) {
		return m, nil
	}
	if err := resolveTeamID(m); err != nil {
		return nil, err
	}

	managed, err := em.FindMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if managed == nil {
		// 行已被删除：按新实体插入副本（生成新ID），参数本身保持脱管
		fresh := member.NewMemberWithAge(m.Username, m.Age)
		fresh.TeamID = copyID(m.TeamID)
		fresh.Team = m.Team
		if err := em.persistMember(ctx, fresh); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	managed.Username = m.Username
	managed.Age = m.Age
	sameTeam := idEqual(managed.TeamID, m.TeamID)
	managed.TeamID = copyID(m.TeamID)
	switch {
	case m.Team != nil:
		managed.Team = m.Team
	case !sameTeam:
		managed.Team = nil // 团队变了，重新延迟加载
	}
	return managed, nil
}

// FindMember 按主键查找，先查一级缓存，不存在时返回nil
func (em *EntityManager) FindMember(ctx context.Context, id uint) (*member.Member, error) {
	if e, ok := em.members[id]; ok {
		return e.entity, nil
	}

	var model MemberModel
	err := em.DB(ctx).Where("member_id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "查询会员失败")
	}
	return em.manageMember(&model, false), nil
}

// FindTeam 按主键查找团队，不存在时返回nil
func (em *EntityManager) FindTeam(ctx context.Context, id uint) (*member.Team, error) {
	if e, ok := em.teams[id]; ok {
		return e.entity, nil
	}

	var model TeamModel
	err := em.DB(ctx).Where("team_id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "查询团队失败")
	}
	return em.manageTeam(&model), nil
}

// Remove 删除被管理的实体（立即DELETE），之后实体脱管
func (em *EntityManager) Remove(ctx context.Context, entity any) error {
	if !em.Contains(entity) {
		return member.ErrDetachedEntity
	}

	switch e := entity.(type) {
	case *member.Member:
		if err := em.DB(ctx).Delete(&MemberModel{}, e.ID).Error; err != nil {
			return apperrors.Wrap(err, "删除会员失败")
		}
	case *member.Team:
		if err := em.DB(ctx).Delete(&TeamModel{}, e.ID).Error; err != nil {
			return apperrors.Wrap(err, "删除团队失败")
		}
	}
	em.Detach(entity)
	return nil
}

// Contains 实体是否被当前上下文管理（按指针判断）
func (em *EntityManager) Contains(entity any) bool {
	switch e := entity.(type) {
	case *member.Member:
		entry, ok := em.members[e.ID]
		return ok && entry.entity == e
	case *member.Team:
		entry, ok := em.teams[e.ID]
		return ok && entry.entity == e
	}
	return false
}

// Detach 实体脱离管理：不再参与脏检查，延迟加载失效
func (em *EntityManager) Detach(entity any) {
	if !em.Contains(entity) {
		return
	}
	switch e := entity.(type) {
	case *member.Member:
		e.BindTeamLoader(nil)
		delete(em.members, e.ID)
		em.memberOrder = removeID(em.memberOrder, e.ID)
	case *member.Team:
		delete(em.teams, e.ID)
		em.teamOrder = removeID(em.teamOrder, e.ID)
	}
}

// Flush 脏检查：把被修改的实体写回数据库
// 只更新变化的列；审计回调追加的last_modified_*回填到实体
func (em *EntityManager) Flush(ctx context.Context) error {
	updated, err := em.flush(ctx)
	if err != nil {
		metrics.IncCounterVec(metrics.PersistenceFlushesTotal, map[string]string{"result": "failure"})
		return err
	}
	metrics.IncCounterVec(metrics.PersistenceFlushesTotal, map[string]string{"result": "success"})
	if updated > 0 {
		logger.FromContext(ctx).Debug("flush持久化上下文", zap.Int("updated", updated))
	}
	return nil
}

func (em *EntityManager) flush(ctx context.Context) (int, error) {
	updated := 0

	for _, id := range em.teamOrder {
		e := em.teams[id]
		if e.entity.Name == e.name {
			continue
		}
		updates := map[string]interface{}{"name": e.entity.Name}
		if err := em.DB(ctx).Model(&TeamModel{ID: id}).Updates(updates).Error; err != nil {
			return updated, apperrors.Wrap(err, "更新团队失败")
		}
		if v, ok := updates["updated_date"].(time.Time); ok {
			e.entity.UpdatedDate = v
		}
		e.name = e.entity.Name
		updated++
	}

	for _, id := range em.memberOrder {
		e := em.members[id]
		if e.readOnly {
			continue
		}
		m := e.entity
		if err := resolveTeamID(m); err != nil {
			return updated, err
		}

		cur := snapshotMember(m)
		if cur == e.snapshot {
			continue
		}

		updates := make(map[string]interface{}, 5)
		if cur.username != e.snapshot.username {
			updates["username"] = cur.username
		}
		if cur.age != e.snapshot.age {
			updates["age"] = cur.age
		}
		if cur.teamID != e.snapshot.teamID {
			if cur.teamID == 0 {
				updates["team_id"] = nil
			} else {
				updates["team_id"] = cur.teamID
			}
		}

		if err := em.DB(ctx).Model(&MemberModel{ID: id}).Updates(updates).Error; err != nil {
			return updated, apperrors.Wrap(err, "更新会员失败")
		}
		if v, ok := updates[colLastModifiedDate].(time.Time); ok {
			m.LastModifiedDate = v
		}
		if v, ok := updates[colLastModifiedBy].(string); ok {
			m.LastModifiedBy = v
		}
		e.snapshot = cur
		updated++
	}

	return updated, nil
}

// autoFlush 事务中执行查询前先flush，保证查询能看到未提交的修改
func (em *EntityManager) autoFlush(ctx context.Context) error {
	if !em.transactional {
		return nil
	}
	return em.Flush(ctx)
}

// Clear 清空上下文，所有实体脱管
func (em *EntityManager) Clear() {
	em.clear(clearReasonManual)
}

func (em *EntityManager) clear(reason string) {
	for _, e := range em.members {
		e.entity.BindTeamLoader(nil)
	}
	em.members = make(map[uint]*memberEntry)
	em.memberOrder = nil
	em.teams = make(map[uint]*teamEntry)
	em.teamOrder = nil
	metrics.IncCounterVec(metrics.PersistenceClearsTotal, map[string]string{"reason": reason})
}

// manageMember 查询结果纳入管理
// 已被管理的实体优先（不用数据库中的值覆盖内存中的修改）
func (em *EntityManager) manageMember(model *MemberModel, readOnly bool) *member.Member {
	joined := model.Team != nil && model.Team.ID != 0

	if e, ok := em.members[model.ID]; ok {
		m := e.entity
		if joined && m.Team == nil && m.TeamID != nil && *m.TeamID == model.Team.ID {
			m.Team = em.manageTeam(model.Team)
		}
		return m
	}

	m := toMemberEntity(model)
	if joined {
		m.Team = em.manageTeam(model.Team)
	}
	em.registerMember(m, readOnly)
	return m
}

func (em *EntityManager) manageMembers(models []MemberModel, readOnly bool) []*member.Member {
	out := make([]*member.Member, 0, len(models))
	for i := range models {
		out = append(out, em.manageMember(&models[i], readOnly))
	}
	return out
}

func (em *EntityManager) manageTeam(model *TeamModel) *member.Team {
	if e, ok := em.teams[model.ID]; ok {
		return e.entity
	}
	t := toTeamEntity(model)
	em.registerTeam(t)
	return t
}

func (em *EntityManager) registerMember(m *member.Member, readOnly bool) {
	entry := &memberEntry{entity: m, readOnly: readOnly}
	if !readOnly {
		entry.snapshot = snapshotMember(m)
	}
	em.members[m.ID] = entry
	em.memberOrder = append(em.memberOrder, m.ID)
	m.BindTeamLoader(em.teamLoader(m))
}

func (em *EntityManager) registerTeam(t *member.Team) {
	em.teams[t.ID] = &teamEntry{entity: t, name: t.Name}
	em.teamOrder = append(em.teamOrder, t.ID)
}

func (em *EntityManager) teamLoader(m *member.Member) member.TeamLoader {
	return func(ctx context.Context) (*member.Team, error) {
		if m.TeamID == nil {
			return nil, nil
		}
		t, err := em.FindTeam(ctx, *m.TeamID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, member.ErrTeamNotFound
		}
		return t, nil
	}
}

// resolveTeamID 由关联的团队实体解析team_id，团队未保存时返回ErrTransientTeam
func resolveTeamID(m *member.Member) error {
	if m.Team == nil {
		return nil
	}
	if m.Team.ID == 0 {
		return member.ErrTransientTeam
	}
	id := m.Team.ID
	m.TeamID = &id
	return nil
}

func idEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// =========================================
// Context传递
// =========================================

type emCtxKey struct{}

// WithEntityManager 把持久化上下文放入Context
func WithEntityManager(ctx context.Context, em *EntityManager) context.Context {
	return context.WithValue(ctx, emCtxKey{}, em)
}

// EntityManagerFrom 取出Context中的持久化上下文
func EntityManagerFrom(ctx context.Context) *EntityManager {
	em, _ := ctx.Value(emCtxKey{}).(*EntityManager)
	return em
}

// session 取Context中的持久化上下文
// 没有时创建一次性上下文，调用done后返回的实体即脱管
func session(ctx context.Context, db *gorm.DB) (em *EntityManager, done func()) {
	if em := EntityManagerFrom(ctx); em != nil {
		return em, func() {}
	}
	em = newEntityManager(db, false)
	return em, func() { em.clear(clearReasonTxEnd) }
}
