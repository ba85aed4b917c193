/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/registry"
	"github.com/Dykam/gangwars/storagemodels"
)

func init() {
	registry.RegisterIndexMap[storagemodels.StoredGang](map[string]string{
		"PK": "GANG#{Name}",
		"SK": "GANG#{Name}",
	})
}

// API is the subset of the DynamoDB client used by the store.
type API interface {
	sdk.ScanAPIClient
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore keeps the gang snapshot in a DynamoDB table, one item
// per gang. Items are tagged with an EntityType so the table can be shared.
type DynamodbDataStore struct {
	client    API
	tableName string
	logger    *slog.Logger

	MaxRetries   int
	RetryBackoff time.Duration
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// expandMacros fills each template of indexMap with fields of keysInput,
// e.g. "GANG#{Name}" becomes "GANG#red".
func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		var missing []string
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			switch tv := av[key].(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				missing = append(missing, key)
				return ""
			}
		})
		if len(missing) > 0 {
			return nil, errors.NewValidationError(fieldName, fmt.Sprintf("cannot expand %v in %q", missing, template))
		}
		res[fieldName] = expanded
	}
	return res, nil
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS
// credentials. A non-empty endpoint overrides the service URL, which is
// how DynamoDB Local is reached.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewDynamodbDataStore connects to the table named in opts.
func NewDynamodbDataStore(ctx context.Context, opts datastore.Options) (*DynamodbDataStore, error) {
	if opts.TableName == "" {
		return nil, errors.NewValidationError("table", "a DynamoDB table name is required")
	}

	client, err := NewDynamoDBClient(ctx, opts.AWSAccessKey, opts.AWSSecretKey, opts.AWSRegion, opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	store := NewWithClient(client, opts.TableName, opts.Logger)
	store.logger.Info("DynamoDB client initialized", "region", opts.AWSRegion)
	return store, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, tableName string, logger *slog.Logger) *DynamodbDataStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DynamodbDataStore{
		client:       client,
		tableName:    tableName,
		logger:       logger.With("store", "dynamodb", "table", tableName),
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// gangItem carries the attributes stored next to the gang fields.
type gangItem struct {
	EntityType string `dynamodbav:"EntityType"`
	Position   int    `dynamodbav:"Position"`
}

// Load scans the table for gang items and returns them in saved order.
func (d *DynamodbDataStore) Load(ctx context.Context) ([]storagemodels.StoredGang, error) {
	items, err := d.scan(ctx, nil)
	if err != nil {
		return nil, err
	}

	type positioned struct {
		pos  int
		gang storagemodels.StoredGang
	}
	loaded := make([]positioned, 0, len(items))
	for _, item := range items {
		var meta gangItem
		if err := attributevalue.UnmarshalMap(item, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item metadata: %w", err)
		}
		var g storagemodels.StoredGang
		if err := attributevalue.UnmarshalMap(item, &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal gang: %w", err)
		}
		loaded = append(loaded, positioned{pos: meta.Position, gang: g})
	}

	sort.SliceStable(loaded, func(i, j int) bool { return loaded[i].pos < loaded[j].pos })
	gangs := make([]storagemodels.StoredGang, len(loaded))
	for i, p := range loaded {
		gangs[i] = p.gang
	}
	d.logger.Debug("loaded gangs", "count", len(gangs))
	return gangs, nil
}

// Save puts every gang and then deletes the gang items that are no longer
// part of the snapshot. DynamoDB offers no multi-item replace, so a failed
// Save can leave a mix of old and new items.
func (d *DynamodbDataStore) Save(ctx context.Context, gangs []storagemodels.StoredGang) error {
	indexMap, ok := registry.GetIndexMap[storagemodels.StoredGang]()
	if !ok {
		return errors.ErrNoIndexMap
	}

	existing, err := d.scan(ctx, aws.String("PK, SK"))
	if err != nil {
		return err
	}
	stale := make(map[string]map[string]types.AttributeValue, len(existing))
	for _, item := range existing {
		stale[itemKey(item)] = map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]}
	}

	for i, g := range gangs {
		item, err := d.marshalGang(indexMap, g, i)
		if err != nil {
			return err
		}
		delete(stale, itemKey(item))

		err = d.withRetry(ctx, "PutItem", func() error {
			_, err := d.client.PutItem(ctx, &sdk.PutItemInput{
				TableName: &d.tableName,
				Item:      item,
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("PutItem failed for gang %s: %w", g.Name, err)
		}
	}

	for _, key := range stale {
		err := d.withRetry(ctx, "DeleteItem", func() error {
			_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
				TableName: &d.tableName,
				Key:       key,
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
		}
	}

	d.logger.Debug("saved gangs", "count", len(gangs), "deleted", len(stale))
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (d *DynamodbDataStore) Close() error {
	return nil
}

func (d *DynamodbDataStore) marshalGang(indexMap map[string]string, g storagemodels.StoredGang, pos int) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gang %s: %w", g.Name, err)
	}
	meta, err := attributevalue.MarshalMap(gangItem{EntityType: storagemodels.EntityTypeGang, Position: pos})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gang %s: %w", g.Name, err)
	}
	for k, v := range meta {
		av[k] = v
	}

	expanded, err := expandMacros(indexMap, g)
	if err != nil {
		return nil, err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	return av, nil
}

// scan returns every gang item, optionally projected.
func (d *DynamodbDataStore) scan(ctx context.Context, projection *string) ([]map[string]types.AttributeValue, error) {
	input := &sdk.ScanInput{
		TableName:                &d.tableName,
		FilterExpression:         aws.String("#type = :type"),
		ExpressionAttributeNames: map[string]string{"#type": "EntityType"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":type": &types.AttributeValueMemberS{Value: storagemodels.EntityTypeGang},
		},
		ProjectionExpression: projection,
	}

	var items []map[string]types.AttributeValue
	pages := sdk.NewScanPaginator(d.client, input)
	for pages.HasMorePages() {
		var page *sdk.ScanOutput
		err := d.withRetry(ctx, "Scan", func() error {
			var err error
			page, err = pages.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("Scan failed: %w", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func itemKey(item map[string]types.AttributeValue) string {
	var pk, sk string
	if v, ok := item["PK"].(*types.AttributeValueMemberS); ok {
		pk = v.Value
	}
	if v, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		sk = v.Value
	}
	return pk + "|" + sk
}
