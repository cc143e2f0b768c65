package repository

import (
	"context"
	"time"
)

// BookingRepository переходы статусов бронирований по датам
type BookingRepository interface {
	// CompleteFinished переводит UPCOMING с датой выезда не позже today в COMPLETED
	CompleteFinished(ctx context.Context, today time.Time) (int64, error)
}

// ProcessedEventRepository отметки об уже выполненных возвратах в Redis
type ProcessedEventRepository interface {
	IsProcessed(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}
