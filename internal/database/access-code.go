package repository

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertAccessCodes(ctx context.Context, codes []entity.AccessCode) error {
	if len(codes) == 0 {
		return nil
	}

	docs := make([]interface{}, len(codes))
	for i := range codes {
		docs[i] = codes[i]
	}

	_, err := m.collection(accessCodesCollection).InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %w", entity.ErrCodeCollision, entity.Conflict("access code already exists"))
		}
		return m.insertError("access code", err)
	}
	return nil
}

// GetAccessCode looks a code up by its value; an empty codeType matches any type.
func (m *MongoDB) GetAccessCode(ctx context.Context, code, codeType string) (*entity.AccessCode, error) {
	filter := bson.M{"code": code}
	if codeType != "" {
		filter["type"] = codeType
	}
	return m.findCode(ctx, filter)
}

func (m *MongoDB) GetAccessCodeByID(ctx context.Context, id string) (*entity.AccessCode, error) {
	return m.findCode(ctx, bson.M{"_id": id})
}

func (m *MongoDB) findCode(ctx context.Context, filter bson.M) (*entity.AccessCode, error) {
	var code entity.AccessCode
	err := m.collection(accessCodesCollection).FindOne(ctx, filter).Decode(&code)
	if err != nil {
		return nil, m.findError(err)
	}
	return &code, nil
}

// ConsumeAccessCode flips used from false to true in a single conditional
// update and returns the consumed code. It returns nil when the code is
// missing or was already used.
func (m *MongoDB) ConsumeAccessCode(ctx context.Context, id string, usage entity.CodeUsage) (*entity.AccessCode, error) {
	filter := bson.M{"_id": id, "used": false}
	set := bson.M{
		"used":    true,
		"used_by": usage.UsedBy,
		"used_at": usage.UsedAt,
	}
	if usage.SentBy != "" {
		set["email_sent"] = true
		set["sent_to"] = usage.UsedBy
		set["sent_at"] = usage.UsedAt
		set["sent_by_admin"] = usage.SentBy
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var code entity.AccessCode
	err := m.collection(accessCodesCollection).FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&code)
	if err != nil {
		return nil, m.findError(err)
	}
	return &code, nil
}

// ReleaseAccessCode undoes a ConsumeAccessCode made with the same usage.
// A code consumed by anyone else is left untouched.
func (m *MongoDB) ReleaseAccessCode(ctx context.Context, id string, usage entity.CodeUsage) error {
	filter := bson.M{"_id": id, "used": true, "used_by": usage.UsedBy, "used_at": usage.UsedAt}
	update := bson.M{
		"$set": bson.M{"used": false, "email_sent": false},
		"$unset": bson.M{
			"used_by":       "",
			"used_at":       "",
			"sent_to":       "",
			"sent_at":       "",
			"sent_by_admin": "",
		},
	}
	_, err := m.collection(accessCodesCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("release access code: %w", err)
	}
	return nil
}

// ListTeacherCodes returns the teacher codes of a school; used filters by
// state when not nil.
func (m *MongoDB) ListTeacherCodes(ctx context.Context, school string, used *bool) ([]entity.AccessCode, error) {
	filter := bson.M{"school": school, "type": entity.CodeTypeTeacher}
	if used != nil {
		filter["used"] = *used
	}
	return m.findCodes(ctx, filter)
}

// ListAccessCodes returns every code of a school, teacher and student alike.
func (m *MongoDB) ListAccessCodes(ctx context.Context, school string) ([]entity.AccessCode, error) {
	return m.findCodes(ctx, bson.M{"school": school})
}

func (m *MongoDB) findCodes(ctx context.Context, filter bson.M) ([]entity.AccessCode, error) {
	opts := options.Find().SetSort(bson.D{{"type", 1}, {"created_at", 1}})

	cursor, err := m.collection(accessCodesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find access codes: %w", err)
	}
	defer cursor.Close(ctx)

	codes := make([]entity.AccessCode, 0)
	if err = cursor.All(ctx, &codes); err != nil {
		return nil, fmt.Errorf("mongodb decode access codes: %w", err)
	}
	return codes, nil
}

func (m *MongoDB) NextUnusedTeacherCode(ctx context.Context, school string) (*entity.AccessCode, error) {
	filter := bson.M{"school": school, "type": entity.CodeTypeTeacher, "used": false}
	opts := options.FindOne().SetSort(bson.D{{"created_at", 1}})

	var code entity.AccessCode
	err := m.collection(accessCodesCollection).FindOne(ctx, filter, opts).Decode(&code)
	if err != nil {
		return nil, m.findError(err)
	}
	return &code, nil
}

func (m *MongoDB) CountTeacherCodes(ctx context.Context, school string) (entity.CodeStats, error) {
	collection := m.collection(accessCodesCollection)
	base := func(extra bson.M) bson.M {
		filter := bson.M{"school": school, "type": entity.CodeTypeTeacher}
		for k, v := range extra {
			filter[k] = v
		}
		return filter
	}

	var stats entity.CodeStats
	var err error
	if stats.Total, err = collection.CountDocuments(ctx, base(nil)); err != nil {
		return stats, fmt.Errorf("mongodb count codes: %w", err)
	}
	if stats.Sent, err = collection.CountDocuments(ctx, base(bson.M{"email_sent": true})); err != nil {
		return stats, fmt.Errorf("mongodb count sent codes: %w", err)
	}
	if stats.Used, err = collection.CountDocuments(ctx, base(bson.M{"used": true})); err != nil {
		return stats, fmt.Errorf("mongodb count used codes: %w", err)
	}
	return stats, nil
}

// ExpireUnusedCodes shortens unused codes of a trial so they cannot be
// redeemed after the trial ends early.
func (m *MongoDB) ExpireUnusedCodes(ctx context.Context, trialID string, at time.Time) error {
	filter := bson.M{"trial_id": trialID, "used": false, "expires_at": bson.M{"$gt": at}}
	update := bson.M{"$set": bson.M{"expires_at": at}}

	_, err := m.collection(accessCodesCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb expire trial codes: %w", err)
	}
	return nil
}
