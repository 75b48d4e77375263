package lock

import (
	"fmt"
	"sort"
	"time"
)

// WorkerDayKey ключ блокировки агенды мастера на дату
func WorkerDayKey(workerID int64, date time.Time) string {
	return fmt.Sprintf("worker:%d:%s", workerID, date.Format("2006-01-02"))
}

// ClientDayKey ключ блокировки агенды клиента на дату
func ClientDayKey(clientID int64, date time.Time) string {
	return fmt.Sprintf("client:%d:%s", clientID, date.Format("2006-01-02"))
}

// normalizeKeys сортирует и убирает дубликаты, чтобы все вызовы брали ключи в одном порядке
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
