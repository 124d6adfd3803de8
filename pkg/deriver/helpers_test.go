package deriver

import (
	"context"
	"sync/atomic"

	"storeshard/pkg/types"
)

// -----------------------------------------------------------------------------
// fakeService: 不启动进程的 hashsvc.Service
// -----------------------------------------------------------------------------

type fakeService struct {
	calls int32
	fn    func(ctx context.Context, data []byte) (types.Digest, error)
}

func (f *fakeService) StoreDigest(ctx context.Context, data []byte) (types.Digest, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fn(ctx, data)
}

// constService 总是返回同一个结果
func constService(d types.Digest, err error) *fakeService {
	return &fakeService{fn: func(context.Context, []byte) (types.Digest, error) { return d, err }}
}

// blockingService 一直阻塞到 ctx 结束
func blockingService() *fakeService {
	return &fakeService{fn: func(ctx context.Context, _ []byte) (types.Digest, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
}
