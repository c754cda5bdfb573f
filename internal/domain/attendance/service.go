package attendance

import (
	"context"
)

type Service interface {
	CheckIn(ctx context.Context, req *CheckInRequest) (*AttendanceResponse, error)
	RequestOvertime(ctx context.Context, userID string) (*AttendanceResponse, error)
	CheckOut(ctx context.Context, req *CheckOutRequest) (*AttendanceResponse, error)
	GetToday(ctx context.Context, userID string) (*TodayResponse, error)
}
