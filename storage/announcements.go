package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/Monmon-1020/CampusFlow/logging"
)

// Announcement is the single durable artifact a brainstorm session leaves
// behind: one generated report posted to the session's stream.
type Announcement struct {
	ID        string    `dynamodbav:"PK"`
	StreamID  string    `dynamodbav:"StreamID"`
	Title     string    `dynamodbav:"Title"`
	Content   string    `dynamodbav:"Content"`
	CreatedBy string    `dynamodbav:"CreatedBy"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
}

type AnnouncementStorage interface {
	Create(ctx context.Context, announcement *Announcement) error
}

type DynamoAnnouncementStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoAnnouncementStorage) Create(ctx context.Context, announcement *Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(announcement)
	if err != nil {
		logging.Log.Errorf("ANNOUNCEMENT: failed to marshal announcement: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("ANNOUNCEMENT: item with ID %s already exists", announcement.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("ANNOUNCEMENT: failed to create announcement: %v", err)
		return err
	}
	logging.Log.Infof("ANNOUNCEMENT: posted %q to stream %s", announcement.Title, announcement.StreamID)
	return nil
}
