package personas

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// customizationItem is the table row. The table is keyed by sessionId (hash)
// and personaId (range), with DynamoDB TTL enabled on expiresAt.
type customizationItem struct {
	SessionID   string `dynamodbav:"sessionId"`
	PersonaID   string `dynamodbav:"personaId"`
	CompanyName string `dynamodbav:"companyName"`
	Service     string `dynamodbav:"service"`
	Address     string `dynamodbav:"address,omitempty"`
	PhoneNumber string `dynamodbav:"phoneNumber,omitempty"`
	UpdatedAt   string `dynamodbav:"updatedAt"`
	ExpiresAt   int64  `dynamodbav:"expiresAt,omitempty"`
}

// DynamoCustomizationStore keeps customizations in DynamoDB so stateless
// deployments (Lambda) share them.
type DynamoCustomizationStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

// NewDynamoCustomizationStore builds a store on tableName; ttl <= 0 keeps items forever.
func NewDynamoCustomizationStore(client dynamoAPI, tableName string, ttl time.Duration) *DynamoCustomizationStore {
	if client == nil {
		panic("personas: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("personas: table name cannot be empty")
	}
	return &DynamoCustomizationStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

func (s *DynamoCustomizationStore) key(sessionID, personaID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		"personaId": &types.AttributeValueMemberS{Value: personaID},
	}
}

// Get retrieves a customization. Items past expiresAt count as absent even
// before DynamoDB's TTL sweep removes them.
func (s *DynamoCustomizationStore) Get(ctx context.Context, sessionID, personaID string) (*Customization, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(sessionID, personaID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("personas: get customization: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item customizationItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("personas: decode customization: %w", err)
	}
	if item.ExpiresAt > 0 && s.now().Unix() >= item.ExpiresAt {
		return nil, nil
	}
	return &Customization{
		CompanyName: item.CompanyName,
		Service:     item.Service,
		Address:     item.Address,
		PhoneNumber: item.PhoneNumber,
	}, nil
}

// Put saves a customization, refreshing its expiry.
func (s *DynamoCustomizationStore) Put(ctx context.Context, sessionID, personaID string, c Customization) error {
	now := s.now().UTC()
	item := customizationItem{
		SessionID:   sessionID,
		PersonaID:   personaID,
		CompanyName: c.CompanyName,
		Service:     c.Service,
		Address:     c.Address,
		PhoneNumber: c.PhoneNumber,
		UpdatedAt:   now.Format(time.RFC3339Nano),
	}
	if s.ttl > 0 {
		item.ExpiresAt = now.Add(s.ttl).Unix()
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("personas: marshal customization: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("personas: put customization: %w", err)
	}
	return nil
}

// Delete removes a customization.
func (s *DynamoCustomizationStore) Delete(ctx context.Context, sessionID, personaID string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(sessionID, personaID),
	}); err != nil {
		return fmt.Errorf("personas: delete customization: %w", err)
	}
	return nil
}
