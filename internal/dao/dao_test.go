package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/studyforge/study-note-service/internal/domain"
	"github.com/studyforge/study-note-service/internal/model"

	"github.com/stretchr/testify/require"
)

// 内存库必须在连接池轮换后仍指向同一个库，迁移出的表不能随连接丢失
func TestMemoryEngineSharedAcrossConnections(t *testing.T) {
	db, err := NewDBEngine(Config{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	d := New(db, nil, nil)
	repo := NewSessionRepository(d)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Session{
		ID:        "conn-check",
		State:     domain.SessionStateGuest,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// 并发读迫使连接池轮换，换了连接也必须看到同一份数据
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.GetByID(ctx, created.ID)
			if err != nil {
				t.Errorf("GetByID failed: %v", err)
				return
			}
			if got == nil {
				t.Errorf("session not visible on pooled connection")
			}
		}()
	}
	wg.Wait()
}
