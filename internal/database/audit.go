package repository

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertFailedPayment(ctx context.Context, payment *entity.FailedPayment) error {
	_, err := m.collection(failedPaymentsCollection).InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("mongodb insert failed payment: %w", err)
	}
	return nil
}

func (m *MongoDB) InsertEmailLog(ctx context.Context, log *entity.EmailLog) error {
	_, err := m.collection(emailLogsCollection).InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("mongodb insert email log: %w", err)
	}
	return nil
}

// RecentEmailLogs returns the newest teacher-code emails sent by an admin.
func (m *MongoDB) RecentEmailLogs(ctx context.Context, adminEmail string, limit int64) ([]entity.EmailLog, error) {
	filter := bson.D{{"admin_email", adminEmail}, {"type", entity.EmailTypeTeacherCode}}
	opts := options.Find().SetSort(bson.D{{"sent_at", -1}}).SetLimit(limit)

	cursor, err := m.collection(emailLogsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find email logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]entity.EmailLog, 0)
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("mongodb decode email logs: %w", err)
	}
	return logs, nil
}
