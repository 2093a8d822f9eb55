package repository

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) InsertTrial(ctx context.Context, trial *entity.Trial) error {
	_, err := m.collection(trialsCollection).InsertOne(ctx, trial)
	if err != nil {
		return m.insertError("active trial", err)
	}
	return nil
}

func (m *MongoDB) GetActiveTrialByEmail(ctx context.Context, adminEmail string) (*entity.Trial, error) {
	filter := bson.D{{"admin_email", adminEmail}, {"is_active", true}}

	var trial entity.Trial
	err := m.collection(trialsCollection).FindOne(ctx, filter).Decode(&trial)
	if err != nil {
		return nil, m.findError(err)
	}
	return &trial, nil
}

func (m *MongoDB) GetTrial(ctx context.Context, id string) (*entity.Trial, error) {
	var trial entity.Trial
	err := m.collection(trialsCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&trial)
	if err != nil {
		return nil, m.findError(err)
	}
	return &trial, nil
}

func (m *MongoDB) DeactivateTrial(ctx context.Context, id string) error {
	filter := bson.D{{"_id", id}}
	update := bson.D{{"$set", bson.D{{"is_active", false}}}}

	_, err := m.collection(trialsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb deactivate trial: %w", err)
	}
	return nil
}
