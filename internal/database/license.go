package repository

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

func (m *MongoDB) InsertLicense(ctx context.Context, license *entity.License) error {
	_, err := m.collection(licensesCollection).InsertOne(ctx, license)
	if err != nil {
		return m.insertError("active license", err)
	}
	return nil
}

// GetActiveLicenseByEmail returns nil when the admin has no active license.
func (m *MongoDB) GetActiveLicenseByEmail(ctx context.Context, adminEmail string) (*entity.License, error) {
	filter := bson.D{{"admin_email", adminEmail}, {"is_active", true}}
	return m.findLicense(ctx, filter)
}

func (m *MongoDB) GetActiveLicenseBySchool(ctx context.Context, schoolName string) (*entity.License, error) {
	filter := bson.D{{"school_name", schoolName}, {"is_active", true}}
	return m.findLicense(ctx, filter)
}

func (m *MongoDB) GetLicenseBySession(ctx context.Context, sessionID string) (*entity.License, error) {
	filter := bson.D{{"stripe_session_id", sessionID}}
	return m.findLicense(ctx, filter)
}

func (m *MongoDB) findLicense(ctx context.Context, filter bson.D) (*entity.License, error) {
	var license entity.License
	err := m.collection(licensesCollection).FindOne(ctx, filter).Decode(&license)
	if err != nil {
		return nil, m.findError(err)
	}
	return &license, nil
}

// DeactivateLicense is a soft delete; licenses are never removed.
func (m *MongoDB) DeactivateLicense(ctx context.Context, id string) error {
	filter := bson.D{{"_id", id}}
	update := bson.D{{"$set", bson.D{{"is_active", false}}}}

	_, err := m.collection(licensesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb deactivate license: %w", err)
	}
	return nil
}
