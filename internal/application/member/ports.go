package member

import "context"

//go:generate go run go.uber.org/mock/mockgen -package member -destination ports_mock_test.go . UsernameCache,Transactor

const tracerName = "membership/application/member"

// UsernameCache 用户名缓存(由infrastructure/persistence/redis实现)
type UsernameCache interface {
	Get(ctx context.Context, id uint) (string, bool, error)
	Set(ctx context.Context, id uint, username string) error
	EvictAll(ctx context.Context) (int, error)
}

// Transactor 事务边界(由orm.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
