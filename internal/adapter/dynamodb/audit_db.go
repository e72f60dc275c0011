package dynamodb

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

/**
 * AuditLogRepository implements ports.AuditLogPort on a DynamoDB table.
 * Entries are keyed by PK = "{entityType}#{entityId}" and SK = RFC3339
 * timestamp, so a Query over a partition yields the entity's history in
 * chronological order.
 */
type AuditLogRepository struct {
	client *dynamodb.Client
	table  string
}

func NewAuditLogRepository(client *dynamodb.Client, table string) *AuditLogRepository {
	return &AuditLogRepository{client: client, table: table}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: entry.PartitionKey()},
		"SK":         &types.AttributeValueMemberS{Value: entry.Timestamp.UTC().Format(time.RFC3339Nano)},
		"EntityType": &types.AttributeValueMemberS{Value: entry.EntityType},
		"EntityId":   &types.AttributeValueMemberN{Value: strconv.FormatInt(entry.EntityID, 10)},
		"Username":   &types.AttributeValueMemberS{Value: entry.Username},
		"Action":     &types.AttributeValueMemberS{Value: entry.Action},
	}

	if len(entry.Metadata) > 0 {
		meta, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		item["Metadata"] = &types.AttributeValueMemberS{Value: string(meta)}
	}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	return err
}

func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]domain.AuditEntry, error) {
	probe := domain.AuditEntry{EntityType: entityType, EntityID: entityID}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("PK = :v_pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v_pk": &types.AttributeValueMemberS{Value: probe.PartitionKey()},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.AuditEntry, 0, len(out.Items))
	for _, item := range out.Items {
		entry := domain.AuditEntry{
			EntityType: stringAttr(item, "EntityType"),
			Username:   stringAttr(item, "Username"),
			Action:     stringAttr(item, "Action"),
		}

		if n, ok := item["EntityId"].(*types.AttributeValueMemberN); ok {
			entry.EntityID, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		if ts := stringAttr(item, "SK"); ts != "" {
			entry.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		}
		if meta := stringAttr(item, "Metadata"); meta != "" {
			_ = json.Unmarshal([]byte(meta), &entry.Metadata)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
