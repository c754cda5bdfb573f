package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, record *Attendance) error
	Update(ctx context.Context, record *Attendance) error
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	ListOpenSessions(ctx context.Context) ([]*Attendance, error)
}
