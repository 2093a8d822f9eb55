package repository

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// CountUserProfiles counts the accounts already registered for a school.
func (m *MongoDB) CountUserProfiles(ctx context.Context, school string) (int64, error) {
	count, err := m.collection(userProfilesCollection).CountDocuments(ctx, bson.D{{"school", school}})
	if err != nil {
		return 0, fmt.Errorf("mongodb count user profiles: %w", err)
	}
	return count, nil
}

func (m *MongoDB) GetUser(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := m.collection(usersCollection).FindOne(ctx, bson.D{{"email", email}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}
