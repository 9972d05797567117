package revisions

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/syncd-project/syncd/internal/domain"
)

// dynamoAPI is the subset of *dynamodb.Client this repository calls,
// narrowed to an interface so tests can substitute a fake.
type dynamoAPI interface {
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoDBRepository is the secondary-store revision repository. Items are
// keyed by partition key user_id and sort key id; CountByUserID and
// FindByUserID page forward with Query since DynamoDB has no native offset.
type DynamoDBRepository struct {
	client    dynamoAPI
	tableName string
}

// loadDefaultAWSConfig and newDynamoDBClientFromConfig are seams for tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
var newDynamoDBClientFromConfig = dynamodb.NewFromConfig

// NewDynamoDBRepository constructs the secondary revision store client for
// the given region/table, optionally overriding the endpoint for local
// development (DynamoDB Local).
func NewDynamoDBRepository(ctx context.Context, region, endpoint, tableName string) (*DynamoDBRepository, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := newDynamoDBClientFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &DynamoDBRepository{client: client, tableName: tableName}, nil
}

func (r *DynamoDBRepository) queryPage(ctx context.Context, userID uuid.UUID, startKey map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
	return r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: userID.String()}},
		ExclusiveStartKey:         startKey,
	})
}

func (r *DynamoDBRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    aws.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: userID.String()}},
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("dynamodb error: %w", err)
		}

		total += int(out.Count)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return total, nil
}

// FindByUserID pages forward one Query page at a time until offset+limit
// items have been seen, then returns the requested slice. DynamoDB Query has no concept of
// a numeric offset, so earlier pages are fetched and discarded.
func (r *DynamoDBRepository) FindByUserID(ctx context.Context, page Page) ([]domain.Revision, error) {
	var all []domain.Revision
	var startKey map[string]types.AttributeValue
	want := page.Offset + page.Limit

	for len(all) < want {
		out, err := r.queryPage(ctx, page.UserID, startKey)
		if err != nil {
			return nil, fmt.Errorf("dynamodb error: %w", err)
		}

		for _, item := range out.Items {
			rev, err := revisionFromItem(item)
			if err != nil {
				return nil, err
			}
			all = append(all, rev)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	if page.Offset >= len(all) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end], nil
}

func (r *DynamoDBRepository) FindOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) (domain.Revision, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID.String()},
			"id":      &types.AttributeValueMemberS{Value: revisionID.String()},
		},
	})
	if err != nil {
		return domain.Revision{}, false, fmt.Errorf("dynamodb error: %w", err)
	}
	if out.Item == nil {
		return domain.Revision{}, false, nil
	}

	rev, err := revisionFromItem(out.Item)
	if err != nil {
		return domain.Revision{}, false, err
	}
	return rev, true, nil
}

func (r *DynamoDBRepository) Insert(ctx context.Context, rev domain.Revision) (bool, error) {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                revisionToItem(rev),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return false, nil
		}
		return false, fmt.Errorf("dynamodb error: %w", err)
	}
	return true, nil
}

func (r *DynamoDBRepository) RemoveOneByUUID(ctx context.Context, revisionID, userID uuid.UUID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID.String()},
			"id":      &types.AttributeValueMemberS{Value: revisionID.String()},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb error: %w", err)
	}
	return nil
}

func (r *DynamoDBRepository) RemoveByUserID(ctx context.Context, userID uuid.UUID) error {
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.queryPage(ctx, userID, startKey)
		if err != nil {
			return fmt.Errorf("dynamodb error: %w", err)
		}

		var writeReqs []types.WriteRequest
		for _, item := range out.Items {
			writeReqs = append(writeReqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"user_id": item["user_id"],
						"id":      item["id"],
					},
				},
			})
		}

		if err := r.batchDelete(ctx, writeReqs); err != nil {
			return err
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return nil
}

func (r *DynamoDBRepository) batchDelete(ctx context.Context, reqs []types.WriteRequest) error {
	const batchSize = 25
	for len(reqs) > 0 {
		n := batchSize
		if n > len(reqs) {
			n = len(reqs)
		}
		batch := reqs[:n]
		reqs = reqs[n:]

		if len(batch) == 0 {
			continue
		}

		_, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: batch},
		})
		if err != nil {
			return fmt.Errorf("dynamodb error: %w", err)
		}
	}
	return nil
}

func revisionToItem(rev domain.Revision) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":      &types.AttributeValueMemberS{Value: rev.UserID.String()},
		"id":           &types.AttributeValueMemberS{Value: rev.ID.String()},
		"item_id":      &types.AttributeValueMemberS{Value: rev.ItemID.String()},
		"content":      &types.AttributeValueMemberS{Value: rev.Content},
		"content_type": &types.AttributeValueMemberS{Value: rev.ContentType},
		"enc_item_key": &types.AttributeValueMemberS{Value: rev.EncItemKey},
		"auth_hash":    &types.AttributeValueMemberS{Value: rev.AuthHash},
		"items_key_id": &types.AttributeValueMemberS{Value: rev.ItemsKeyID},
		"created_at":   &types.AttributeValueMemberN{Value: strconv.FormatInt(rev.CreatedAt, 10)},
		"updated_at":   &types.AttributeValueMemberN{Value: strconv.FormatInt(rev.UpdatedAt, 10)},
	}
}

func revisionFromItem(item map[string]types.AttributeValue) (domain.Revision, error) {
	str := func(key string) (string, error) {
		av, ok := item[key].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("dynamodb item missing string attribute %q", key)
		}
		return av.Value, nil
	}
	num := func(key string) (int64, error) {
		av, ok := item[key].(*types.AttributeValueMemberN)
		if !ok {
			return 0, fmt.Errorf("dynamodb item missing numeric attribute %q", key)
		}
		return strconv.ParseInt(av.Value, 10, 64)
	}

	userID, err := str("user_id")
	if err != nil {
		return domain.Revision{}, err
	}
	id, err := str("id")
	if err != nil {
		return domain.Revision{}, err
	}
	itemID, err := str("item_id")
	if err != nil {
		return domain.Revision{}, err
	}
	content, err := str("content")
	if err != nil {
		return domain.Revision{}, err
	}
	contentType, err := str("content_type")
	if err != nil {
		return domain.Revision{}, err
	}
	encItemKey, err := str("enc_item_key")
	if err != nil {
		return domain.Revision{}, err
	}
	authHash, err := str("auth_hash")
	if err != nil {
		return domain.Revision{}, err
	}
	itemsKeyID, err := str("items_key_id")
	if err != nil {
		return domain.Revision{}, err
	}
	createdAt, err := num("created_at")
	if err != nil {
		return domain.Revision{}, err
	}
	updatedAt, err := num("updated_at")
	if err != nil {
		return domain.Revision{}, err
	}

	uUserID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Revision{}, err
	}
	uID, err := uuid.Parse(id)
	if err != nil {
		return domain.Revision{}, err
	}
	uItemID, err := uuid.Parse(itemID)
	if err != nil {
		return domain.Revision{}, err
	}

	return domain.Revision{
		ID:          uID,
		UserID:      uUserID,
		ItemID:      uItemID,
		Content:     content,
		ContentType: contentType,
		EncItemKey:  encItemKey,
		AuthHash:    authHash,
		ItemsKeyID:  itemsKeyID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

var _ Repository = (*DynamoDBRepository)(nil)
