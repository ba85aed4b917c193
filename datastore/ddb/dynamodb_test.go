/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/storagemodels"
)

var _ datastore.DataStore[storagemodels.StoredGang] = (*DynamodbDataStore)(nil)

// fakeTable is an in-memory stand-in for a DynamoDB table keyed by PK and SK.
type fakeTable struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	pageSize  int
	putFails  int
	scanCalls int
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[string]map[string]types.AttributeValue), pageSize: 2}
}

func (f *fakeTable) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putFails > 0 {
		f.putFails--
		return nil, &types.ProvisionedThroughputExceededException{}
	}
	f.items[itemKey(in.Item)] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey(in.Key))
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeTable) Scan(_ context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanCalls++

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := itemKey(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}

	want := in.ExpressionAttributeValues[":type"].(*types.AttributeValueMemberS).Value
	out := &sdk.ScanOutput{}
	end := min(start+f.pageSize, len(keys))
	for _, k := range keys[start:end] {
		item := f.items[k]
		if et, ok := item["EntityType"].(*types.AttributeValueMemberS); ok && et.Value == want {
			out.Items = append(out.Items, item)
		}
	}
	if end < len(keys) {
		last := f.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
	}
	return out, nil
}

func newTestStore(table *fakeTable) *DynamodbDataStore {
	store := NewWithClient(table, "gangwars-test", nil)
	store.RetryBackoff = time.Millisecond
	return store
}

func TestExpandMacros(t *testing.T) {
	indexMap := map[string]string{"PK": "GANG#{Name}", "SK": "GANG#{Name}"}

	expanded, err := expandMacros(indexMap, storagemodels.StoredGang{Name: "red"})
	if err != nil {
		t.Fatalf("expandMacros failed: %v", err)
	}
	if expanded["PK"] != "GANG#red" || expanded["SK"] != "GANG#red" {
		t.Errorf("unexpected expansion: %v", expanded)
	}

	_, err = expandMacros(map[string]string{"PK": "GANG#{Missing}"}, storagemodels.StoredGang{Name: "red"})
	if !errors.IsValidationError(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	store := newTestStore(table)

	table.items["OTHER#1|OTHER#1"] = map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: "OTHER#1"},
		"SK":         &types.AttributeValueMemberS{Value: "OTHER#1"},
		"EntityType": &types.AttributeValueMemberS{Value: "RatingSystem"},
	}

	snapshot := []storagemodels.StoredGang{
		{Name: "zeta", Members: []string{"a", "b"}, PowerLevel: 2.5},
		{Name: "alpha", Members: []string{"c"}},
		{Name: "mid"},
	}
	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 gangs, got %d: %+v", len(loaded), loaded)
	}
	for i := range snapshot {
		if loaded[i].Name != snapshot[i].Name {
			t.Errorf("position %d: got %s, want %s", i, loaded[i].Name, snapshot[i].Name)
		}
		if len(loaded[i].Members) != len(snapshot[i].Members) {
			t.Errorf("%s: got members %v, want %v", snapshot[i].Name, loaded[i].Members, snapshot[i].Members)
		}
	}
	if loaded[0].PowerLevel != 2.5 {
		t.Errorf("expected power level 2.5, got %v", loaded[0].PowerLevel)
	}

	if err := store.Save(ctx, snapshot[1:2]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := table.items["GANG#zeta|GANG#zeta"]; ok {
		t.Error("stale gang item should be deleted")
	}
	if _, ok := table.items["OTHER#1|OTHER#1"]; !ok {
		t.Error("items of other entity types must be left alone")
	}

	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "alpha" {
		t.Errorf("unexpected snapshot after save: %+v", loaded)
	}
}

func TestSaveRetriesThrottling(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	table.putFails = 2
	store := newTestStore(table)

	if err := store.Save(ctx, []storagemodels.StoredGang{{Name: "red"}}); err != nil {
		t.Fatalf("Save should succeed after retries: %v", err)
	}
	if len(table.items) != 1 {
		t.Errorf("expected one item, got %d", len(table.items))
	}

	table.putFails = 10
	if err := store.Save(ctx, []storagemodels.StoredGang{{Name: "blue"}}); err == nil {
		t.Fatal("Save should give up after MaxRetries")
	}
}
