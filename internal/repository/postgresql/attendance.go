package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/pkg/database"
)

type AttendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, department, date, attendance_type,
	check_in_time, check_out_time,
	check_in_latitude, check_in_longitude, check_in_accuracy,
	check_out_latitude, check_out_longitude, check_out_accuracy,
	location_classification, location_confidence, location_distance, matched_office_id,
	reason, customer_name, photo_ref,
	overtime_requested, overtime_reason, overtime_start_time, overtime_end_time, overtime_minutes,
	late_minutes, status, auto_closed, created_at, updated_at`

func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.Attendance) error {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`

	args := flattenAttendance(record)
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert attendance: %w", database.ClassifyErr(err))
	}
	return nil
}

func (r *AttendanceRepository) Update(ctx context.Context, record *attendance.Attendance) error {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		UPDATE attendances SET
			check_in_time = $2, check_out_time = $3,
			check_in_latitude = $4, check_in_longitude = $5, check_in_accuracy = $6,
			check_out_latitude = $7, check_out_longitude = $8, check_out_accuracy = $9,
			location_classification = $10, location_confidence = $11,
			location_distance = $12, matched_office_id = $13,
			reason = $14, customer_name = $15, photo_ref = $16,
			overtime_requested = $17, overtime_reason = $18,
			overtime_start_time = $19, overtime_end_time = $20, overtime_minutes = $21,
			late_minutes = $22, status = $23, auto_closed = $24, updated_at = $25
		WHERE id = $1`

	var (
		inLat, inLon, inAcc    *float64
		outLat, outLon, outAcc *float64
		class                  *string
		conf, dist             *float64
		matched                *string
	)
	if record.CheckInLocation != nil {
		inLat = &record.CheckInLocation.Latitude
		inLon = &record.CheckInLocation.Longitude
		inAcc = &record.CheckInLocation.AccuracyMeters
	}
	if record.CheckOutLocation != nil {
		outLat = &record.CheckOutLocation.Latitude
		outLon = &record.CheckOutLocation.Longitude
		outAcc = &record.CheckOutLocation.AccuracyMeters
	}
	if record.LocationValidation != nil {
		class = &record.LocationValidation.Classification
		conf = &record.LocationValidation.ConfidenceScore
		dist = &record.LocationValidation.DistanceMeters
		matched = record.LocationValidation.MatchedOfficeID
	}

	tag, err := r.db.Exec(ctx, query,
		record.ID,
		record.CheckInTime, record.CheckOutTime,
		inLat, inLon, inAcc,
		outLat, outLon, outAcc,
		class, conf, dist, matched,
		record.Reason, record.CustomerName, record.PhotoRef,
		record.OvertimeRequested, record.OvertimeReason,
		record.OvertimeStartTime, record.OvertimeEndTime, record.OvertimeMinutes,
		record.LateMinutes, string(record.Status), record.AutoClosed, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", database.ClassifyErr(err))
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

func (r *AttendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND date = $2`

	row := r.db.QueryRow(ctx, query, userID, date.Format("2006-01-02"))
	record, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", database.ClassifyErr(err))
	}
	return record, nil
}

func (r *AttendanceRepository) ListOpenSessions(ctx context.Context) ([]*attendance.Attendance, error) {
	ctx, cancel := r.db.OpTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_in_time IS NOT NULL AND check_out_time IS NULL
		ORDER BY date, user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", database.ClassifyErr(err))
	}
	defer rows.Close()

	var open []*attendance.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		open = append(open, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read open sessions: %w", database.ClassifyErr(err))
	}
	return open, nil
}

func flattenAttendance(record *attendance.Attendance) []interface{} {
	var (
		inLat, inLon, inAcc    *float64
		outLat, outLon, outAcc *float64
		class                  *string
		conf, dist             *float64
		matched                *string
	)
	if record.CheckInLocation != nil {
		inLat = &record.CheckInLocation.Latitude
		inLon = &record.CheckInLocation.Longitude
		inAcc = &record.CheckInLocation.AccuracyMeters
	}
	if record.CheckOutLocation != nil {
		outLat = &record.CheckOutLocation.Latitude
		outLon = &record.CheckOutLocation.Longitude
		outAcc = &record.CheckOutLocation.AccuracyMeters
	}
	if record.LocationValidation != nil {
		class = &record.LocationValidation.Classification
		conf = &record.LocationValidation.ConfidenceScore
		dist = &record.LocationValidation.DistanceMeters
		matched = record.LocationValidation.MatchedOfficeID
	}

	return []interface{}{
		record.ID, record.UserID, record.Department,
		record.Date.Format("2006-01-02"), string(record.AttendanceType),
		record.CheckInTime, record.CheckOutTime,
		inLat, inLon, inAcc,
		outLat, outLon, outAcc,
		class, conf, dist, matched,
		record.Reason, record.CustomerName, record.PhotoRef,
		record.OvertimeRequested, record.OvertimeReason,
		record.OvertimeStartTime, record.OvertimeEndTime, record.OvertimeMinutes,
		record.LateMinutes, string(record.Status), record.AutoClosed,
		record.CreatedAt, record.UpdatedAt,
	}
}

func scanAttendance(row pgx.Row) (*attendance.Attendance, error) {
	var (
		record                 attendance.Attendance
		attType, status        string
		inLat, inLon, inAcc    *float64
		outLat, outLon, outAcc *float64
		class                  *string
		conf, dist             *float64
		matched                *string
	)

	err := row.Scan(
		&record.ID, &record.UserID, &record.Department,
		&record.Date, &attType,
		&record.CheckInTime, &record.CheckOutTime,
		&inLat, &inLon, &inAcc,
		&outLat, &outLon, &outAcc,
		&class, &conf, &dist, &matched,
		&record.Reason, &record.CustomerName, &record.PhotoRef,
		&record.OvertimeRequested, &record.OvertimeReason,
		&record.OvertimeStartTime, &record.OvertimeEndTime, &record.OvertimeMinutes,
		&record.LateMinutes, &status, &record.AutoClosed,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.AttendanceType = attendance.Type(attType)
	record.Status = attendance.Status(status)
	if inLat != nil && inLon != nil {
		record.CheckInLocation = &attendance.LocationPoint{Latitude: *inLat, Longitude: *inLon}
		if inAcc != nil {
			record.CheckInLocation.AccuracyMeters = *inAcc
		}
	}
	if outLat != nil && outLon != nil {
		record.CheckOutLocation = &attendance.LocationPoint{Latitude: *outLat, Longitude: *outLon}
		if outAcc != nil {
			record.CheckOutLocation.AccuracyMeters = *outAcc
		}
	}
	if class != nil {
		record.LocationValidation = &attendance.LocationValidation{
			Classification:  *class,
			MatchedOfficeID: matched,
		}
		if conf != nil {
			record.LocationValidation.ConfidenceScore = *conf
		}
		if dist != nil {
			record.LocationValidation.DistanceMeters = *dist
		}
	}
	return &record, nil
}
