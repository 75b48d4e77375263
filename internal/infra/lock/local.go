package lock

import (
	"context"
	"fmt"
	"sync"
)

// Local блокировки по ключу внутри одного процесса
type Local struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocal создает локальный менеджер блокировок
func NewLocal() *Local {
	return &Local{slots: make(map[string]*localSlot)}
}

// Acquire берет все ключи в отсортированном порядке
// Возвращает функцию освобождения; при отмене контекста уже взятые ключи освобождаются
func (l *Local) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	held := make([]*localSlot, 0, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].ch
		}
		l.unref(keys[:len(held)])
	}

	for _, key := range keys {
		slot := l.ref(key)
		select {
		case slot.ch <- struct{}{}:
			held = append(held, slot)
		case <-ctx.Done():
			l.unref([]string{key})
			release()
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Local) ref(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *Local) unref(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, key := range keys {
		slot, ok := l.slots[key]
		if !ok {
			continue
		}
		slot.refs--
		if slot.refs == 0 {
			delete(l.slots, key)
		}
	}
}
